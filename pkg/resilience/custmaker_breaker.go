// Package resilience provides fault tolerance settings for backing stores.
package resilience

import (
	"time"

	"custmaker/pkg/logger"

	"github.com/sony/gobreaker"
)

// BreakerConfig holds configuration for a circuit breaker.
type BreakerConfig struct {
	Name                string
	MaxRequests         uint32        // allowed in half-open state
	Interval            time.Duration // closed-state counter reset
	Timeout             time.Duration // open -> half-open
	ConsecutiveFailures uint32
	MinRequests         uint32
	FailureRatio        float64
}

// DefaultBreakerConfig returns the settings used for database reads.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:                name,
		MaxRequests:         3,
		Interval:            60 * time.Second,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
		MinRequests:         10,
		FailureRatio:        0.6,
	}
}

// NewBreaker builds a gobreaker circuit breaker that trips on consecutive
// failures or on a high failure ratio once enough requests were seen.
func NewBreaker(cfg BreakerConfig) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= cfg.ConsecutiveFailures {
				return true
			}
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	})
}
