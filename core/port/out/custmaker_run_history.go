package out

import (
	"context"

	"custmaker/core/domain"
)

// RunHistoryRepository stores generation run summaries.
type RunHistoryRepository interface {
	Save(ctx context.Context, run *domain.GenerationRun) error
	ListRecent(ctx context.Context, limit int) ([]*domain.GenerationRun, error)
}
