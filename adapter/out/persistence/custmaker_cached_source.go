package persistence

import (
	"context"
	"time"

	"custmaker/core/domain"
	"custmaker/core/port/out"
	"custmaker/pkg/logger"

	"github.com/sony/gobreaker"
)

// CachedSource decorates a DistributionSource with a JSON cache and a circuit
// breaker around the backing store. A nil cache disables caching.
type CachedSource struct {
	next    out.DistributionSource
	cache   out.Cache
	breaker *gobreaker.CircuitBreaker
	ttl     time.Duration
}

// NewCachedSource wraps next.
func NewCachedSource(next out.DistributionSource, cache out.Cache, breaker *gobreaker.CircuitBreaker, ttl time.Duration) *CachedSource {
	return &CachedSource{next: next, cache: cache, breaker: breaker, ttl: ttl}
}

func cacheKey(category domain.Category) string {
	return "dist:" + string(category)
}

// Load serves from cache, falling back to the guarded source.
func (s *CachedSource) Load(ctx context.Context, category domain.Category) (domain.Distribution, error) {
	if s.cache != nil {
		var cached domain.Distribution
		found, err := s.cache.GetJSON(ctx, cacheKey(category), &cached)
		if err != nil {
			logger.WithContext(ctx).WithError(err).Warn("reference cache read failed for %s", category)
		} else if found {
			return cached, nil
		}
	}

	d, err := s.load(ctx, category)
	if err != nil {
		return domain.Distribution{}, err
	}

	if s.cache != nil && len(d.Entries) > 0 {
		if err := s.cache.SetJSON(ctx, cacheKey(category), d, s.ttl); err != nil {
			logger.WithContext(ctx).WithError(err).Warn("reference cache write failed for %s", category)
		}
	}
	return d, nil
}

func (s *CachedSource) load(ctx context.Context, category domain.Category) (domain.Distribution, error) {
	if s.breaker == nil {
		return s.next.Load(ctx, category)
	}
	v, err := s.breaker.Execute(func() (any, error) {
		return s.next.Load(ctx, category)
	})
	if err != nil {
		return domain.Distribution{}, err
	}
	return v.(domain.Distribution), nil
}

// Invalidate drops the cached distribution for category.
func (s *CachedSource) Invalidate(ctx context.Context, category domain.Category) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, cacheKey(category))
}
