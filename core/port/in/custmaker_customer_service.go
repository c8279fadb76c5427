package in

import (
	"context"
	"io"

	"custmaker/core/domain"
)

// GenerateRequest asks for a new batch of synthetic customers.
type GenerateRequest struct {
	Count    int    `json:"count"`
	JoinDate string `json:"join_date"`
}

// CustomerService generates and manages synthetic customers.
type CustomerService interface {
	Generate(ctx context.Context, req *GenerateRequest) (*domain.GenerationRun, error)
	Reset(ctx context.Context) error
	ImportReference(ctx context.Context, category domain.Category, r io.Reader) (int, error)
	RecentRuns(ctx context.Context, limit int) ([]*domain.GenerationRun, error)
}

// ComparisonService builds reference-vs-actual reports.
type ComparisonService interface {
	Sex(ctx context.Context) (*domain.Comparison, error)
	LastNames(ctx context.Context, top int) (*domain.Comparison, error)
	FirstNames(ctx context.Context, name string) (*domain.Comparison, error)
	Ages(ctx context.Context, from, to int) (*domain.Comparison, error)
	Age(ctx context.Context, label string) (*domain.PointComparison, error)
}
