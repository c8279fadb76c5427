package out

import (
	"context"
	"io"

	"custmaker/core/domain"
)

// DistributionSource loads reference distributions.
type DistributionSource interface {
	Load(ctx context.Context, category domain.Category) (domain.Distribution, error)
}

// ReferenceRepository is the writable side of the reference tables.
type ReferenceRepository interface {
	DistributionSource
	Upsert(ctx context.Context, category domain.Category, entries []domain.WeightedValue) (int, error)
	ImportCSV(ctx context.Context, category domain.Category, r io.Reader) (int, error)
}
