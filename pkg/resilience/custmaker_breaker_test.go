package resilience

import (
	"errors"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
)

func TestNewBreaker_TripsOnConsecutiveFailures(t *testing.T) {
	cfg := DefaultBreakerConfig("test")
	cfg.ConsecutiveFailures = 3
	cb := NewBreaker(cfg)

	boom := errors.New("db down")
	for range 3 {
		_, err := cb.Execute(func() (any, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
	}

	assert.Equal(t, gobreaker.StateOpen, cb.State())
	_, err := cb.Execute(func() (any, error) { return "unreachable", nil })
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestNewBreaker_StaysClosedOnSuccess(t *testing.T) {
	cb := NewBreaker(DefaultBreakerConfig("ok"))
	for range 20 {
		v, err := cb.Execute(func() (any, error) { return 1, nil })
		assert.NoError(t, err)
		assert.Equal(t, 1, v)
	}
	assert.Equal(t, gobreaker.StateClosed, cb.State())
}
