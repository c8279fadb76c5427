package out

import (
	"context"

	"custmaker/core/domain"
)

// RunEventPublisher announces finished generation runs to other consumers.
type RunEventPublisher interface {
	PublishRun(ctx context.Context, run *domain.GenerationRun) error
}
