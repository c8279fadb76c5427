// Package customer generates synthetic customers and manages the stored population.
package customer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"custmaker/core/domain"
	"custmaker/core/port/in"
	"custmaker/core/port/out"
	"custmaker/core/service/generator"
	"custmaker/pkg/apperr"
	"custmaker/pkg/logger"
	"custmaker/pkg/metrics"

	"github.com/google/uuid"
)

// Invalidator drops cached reference data after an import.
type Invalidator interface {
	Invalidate(ctx context.Context, category domain.Category) error
}

// Config wires the service.
type Config struct {
	Source      out.DistributionSource
	Reference   out.ReferenceRepository
	Customers   out.CustomerRepository
	Runs        out.RunHistoryRepository
	Events      out.RunEventPublisher
	Invalidator Invalidator
	Tracker     *metrics.GenerationTracker

	// MaxCount caps a single request; 0 means no cap.
	MaxCount int

	// NewGenerator builds the generator used for one request.
	NewGenerator func() *generator.Generator
	Now          func() time.Time
}

type Service struct {
	source       out.DistributionSource
	reference    out.ReferenceRepository
	customers    out.CustomerRepository
	runs         out.RunHistoryRepository
	events       out.RunEventPublisher
	invalidator  Invalidator
	tracker      *metrics.GenerationTracker
	maxCount     int
	newGenerator func() *generator.Generator
	now          func() time.Time
}

var _ in.CustomerService = (*Service)(nil)

func NewService(cfg Config) *Service {
	s := &Service{
		source:       cfg.Source,
		reference:    cfg.Reference,
		customers:    cfg.Customers,
		runs:         cfg.Runs,
		events:       cfg.Events,
		invalidator:  cfg.Invalidator,
		tracker:      cfg.Tracker,
		maxCount:     cfg.MaxCount,
		newGenerator: cfg.NewGenerator,
		now:          cfg.Now,
	}
	if s.source == nil && s.reference != nil {
		s.source = s.reference
	}
	if s.tracker == nil {
		s.tracker = metrics.NewGenerationTracker(0)
	}
	if s.newGenerator == nil {
		s.newGenerator = func() *generator.Generator { return generator.New() }
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Tracker exposes the generation counters.
func (s *Service) Tracker() *metrics.GenerationTracker { return s.tracker }

// Generate samples req.Count customers and stores them as one batch. The run is
// recorded in the history store whether it succeeds or not, unless the request
// itself is malformed.
func (s *Service) Generate(ctx context.Context, req *in.GenerateRequest) (*domain.GenerationRun, error) {
	if req == nil {
		return nil, apperr.BadRequest("request body is required")
	}
	if s.maxCount > 0 && req.Count > s.maxCount {
		return nil, apperr.InvalidInput("count", fmt.Sprintf("must not exceed %d", s.maxCount))
	}

	run := &domain.GenerationRun{
		ID:        uuid.New(),
		Count:     req.Count,
		JoinDate:  req.JoinDate,
		StartedAt: s.now(),
	}
	log := logger.WithFields(map[string]any{
		"run_id":    run.ID.String(),
		"count":     req.Count,
		"join_date": req.JoinDate,
	})

	err := s.generate(ctx, req)
	run.FinishedAt = s.now()
	run.Duration = run.FinishedAt.Sub(run.StartedAt)
	s.tracker.Record(req.Count, run.Duration, err)

	if err != nil {
		var appErr *apperr.AppError
		if errors.As(err, &appErr) && appErr.Status < 500 {
			log.WithError(err).Warn("generation rejected")
			return nil, err
		}
		run.Status = domain.RunStatusFailed
		run.Error = err.Error()
		log.WithError(err).Error("generation failed")
		s.saveRun(ctx, run)
		return run, err
	}

	run.Status = domain.RunStatusSucceeded
	log.WithDuration(run.Duration).Info("generated %d customers", req.Count)
	s.saveRun(ctx, run)
	return run, nil
}

func (s *Service) generate(ctx context.Context, req *in.GenerateRequest) error {
	dists, err := s.loadDistributions(ctx)
	if err != nil {
		return err
	}

	batch, err := s.newGenerator().Generate(req.Count, req.JoinDate, dists)
	if err != nil {
		return mapGeneratorError(err)
	}

	if err := s.customers.Persist(ctx, batch); err != nil {
		return apperr.DatabaseError("persist customers", err)
	}
	return nil
}

func (s *Service) loadDistributions(ctx context.Context) (domain.Distributions, error) {
	var d domain.Distributions
	targets := []struct {
		category domain.Category
		dest     *domain.Distribution
	}{
		{domain.CategorySex, &d.Sex},
		{domain.CategoryLastName, &d.LastName},
		{domain.CategoryFirstName, &d.FirstName},
		{domain.CategoryAge, &d.AgeBucket},
	}

	for _, t := range targets {
		dist, err := s.source.Load(ctx, t.category)
		if err != nil {
			return d, apperr.Unavailable("reference data", fmt.Errorf("load %s: %w", t.category, err))
		}
		*t.dest = dist
	}
	return d, nil
}

func mapGeneratorError(err error) error {
	switch {
	case errors.Is(err, generator.ErrInvalidCount):
		return apperr.InvalidInput("count", err.Error()).WithError(err)
	case errors.Is(err, generator.ErrInvalidDate):
		return apperr.InvalidInput("join_date", err.Error()).WithError(err)
	case errors.Is(err, generator.ErrInvalidDistribution):
		// stored reference data is broken
		return apperr.Unavailable("reference data", err)
	default:
		return apperr.InternalWithError(err)
	}
}

func (s *Service) saveRun(ctx context.Context, run *domain.GenerationRun) {
	if s.runs != nil {
		if err := s.runs.Save(ctx, run); err != nil {
			logger.WithError(err).Warn("failed to record run %s", run.ID)
		}
	}
	if s.events != nil {
		if err := s.events.PublishRun(ctx, run); err != nil {
			logger.WithError(err).Warn("failed to publish run %s", run.ID)
		}
	}
}

// Reset deletes every stored customer.
func (s *Service) Reset(ctx context.Context) error {
	if err := s.customers.Truncate(ctx); err != nil {
		return apperr.DatabaseError("truncate customers", err)
	}
	logger.Info("customer table truncated")
	return nil
}

// ImportReference loads a value,ratio CSV into the category's reference table.
func (s *Service) ImportReference(ctx context.Context, category domain.Category, r io.Reader) (int, error) {
	if s.reference == nil {
		return 0, apperr.Internal("reference repository not configured")
	}

	n, err := s.reference.ImportCSV(ctx, category, r)
	if errors.Is(err, domain.ErrInvalidReference) {
		return 0, apperr.Wrap(err, apperr.CodeInvalidInput, err.Error(), http.StatusBadRequest)
	}
	if err != nil {
		return 0, apperr.DatabaseError(fmt.Sprintf("import %s", category), err)
	}

	if s.invalidator != nil {
		if err := s.invalidator.Invalidate(ctx, category); err != nil {
			logger.WithError(err).Warn("failed to invalidate cached %s distribution", category)
		}
	}
	logger.WithField("category", string(category)).Info("imported %d reference rows", n)
	return n, nil
}

// RecentRuns lists the newest generation runs.
func (s *Service) RecentRuns(ctx context.Context, limit int) ([]*domain.GenerationRun, error) {
	if s.runs == nil {
		return []*domain.GenerationRun{}, nil
	}
	runs, err := s.runs.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperr.Unavailable("run history", err)
	}
	return runs, nil
}
