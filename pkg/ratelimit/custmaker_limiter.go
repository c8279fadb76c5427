// Package ratelimit throttles generation requests.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds limiter configuration.
type Config struct {
	// MaxConcurrent caps generations running at once.
	MaxConcurrent int

	// RequestsPerWindow caps accepted requests per key and window.
	RequestsPerWindow int
	Window            time.Duration
}

// DefaultConfig returns default configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxConcurrent:     2,
		RequestsPerWindow: 30,
		Window:            time.Minute,
	}
}

// Result reports why a request was refused.
type Result struct {
	Allowed    bool
	Reason     string
	RetryAfter time.Duration
}

// Guard combines a concurrency semaphore with a sliding window limiter.
type Guard struct {
	semaphore chan struct{}
	limiter   *SlidingWindowLimiter
}

// NewGuard creates a guard. A nil redis client keeps the window in memory.
func NewGuard(redisClient *redis.Client, config *Config) *Guard {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 1
	}
	return &Guard{
		semaphore: make(chan struct{}, config.MaxConcurrent),
		limiter:   NewSlidingWindowLimiter(redisClient, config.RequestsPerWindow, config.Window),
	}
}

// Acquire asks permission for key. On success the returned release function
// must be called once the work is done.
func (g *Guard) Acquire(ctx context.Context, key string) (*Result, func()) {
	select {
	case g.semaphore <- struct{}{}:
	default:
		return &Result{Reason: "too many concurrent generations", RetryAfter: time.Second}, nil
	}
	release := func() { <-g.semaphore }

	allowed, wait := g.limiter.Allow(ctx, key)
	if !allowed {
		release()
		return &Result{Reason: "rate limit exceeded", RetryAfter: wait}, nil
	}
	return &Result{Allowed: true}, release
}

// SlidingWindowLimiter counts requests per key over a sliding window, in Redis
// when available and in process memory otherwise.
type SlidingWindowLimiter struct {
	redis  *redis.Client
	rate   int
	window time.Duration

	mu        sync.Mutex
	local     map[string][]time.Time
	lastSweep time.Time
	now       func() time.Time
}

// NewSlidingWindowLimiter creates a limiter allowing rate requests per window.
// A non-positive rate disables limiting.
func NewSlidingWindowLimiter(redisClient *redis.Client, rate int, window time.Duration) *SlidingWindowLimiter {
	if window <= 0 {
		window = time.Minute
	}
	return &SlidingWindowLimiter{
		redis:  redisClient,
		rate:   rate,
		window: window,
		local:  make(map[string][]time.Time),
		now:    time.Now,
	}
}

var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local max_requests = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local count = redis.call('ZCARD', key)
	if count < max_requests then
		redis.call('ZADD', key, now, now .. '-' .. math.random())
		redis.call('PEXPIRE', key, window_ms * 2)
		return 1
	end

	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	if #oldest > 0 then
		return -(oldest[2] + window_ms - now)
	end
	return 0
`)

// Allow reports whether the request is allowed and, if not, how long to wait.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	if l.rate <= 0 {
		return true, 0
	}
	if l.redis == nil {
		return l.allowLocal(key)
	}

	now := l.now()
	result, err := slidingWindowScript.Run(ctx, l.redis, []string{fmt.Sprintf("ratelimit:generate:%s", key)},
		now.UnixMilli(),
		now.Add(-l.window).UnixMilli(),
		l.rate,
		l.window.Milliseconds(),
	).Int64()
	if err != nil {
		// Redis unavailable: fall back to the local window
		return l.allowLocal(key)
	}

	switch {
	case result == 1:
		return true, 0
	case result < 0:
		return false, time.Duration(-result) * time.Millisecond
	default:
		return false, l.window
	}
}

func (l *SlidingWindowLimiter) allowLocal(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(cutoff)
		l.lastSweep = now
	}

	hits := l.local[key]
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	hits = hits[i:]

	if len(hits) >= l.rate {
		l.local[key] = hits
		return false, hits[0].Add(l.window).Sub(now)
	}
	l.local[key] = append(hits, now)
	return true, 0
}

// sweep drops callers whose newest hit is outside the window.
func (l *SlidingWindowLimiter) sweep(cutoff time.Time) {
	for key, hits := range l.local {
		if len(hits) == 0 || !hits[len(hits)-1].After(cutoff) {
			delete(l.local, key)
		}
	}
}
