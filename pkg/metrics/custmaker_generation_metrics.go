// Package metrics tracks generation throughput and database pool health.
package metrics

import (
	"database/sql"
	"sort"
	"sync"
	"time"
)

// GenerationStats is a snapshot of the generation counters.
type GenerationStats struct {
	Runs        int64   `json:"runs"`
	FailedRuns  int64   `json:"failed_runs"`
	Records     int64   `json:"records"`
	LastRunAt   string  `json:"last_run_at,omitempty"`
	P50Millis   float64 `json:"p50_ms"`
	P95Millis   float64 `json:"p95_ms"`
	MaxMillis   float64 `json:"max_ms"`
	SampleCount int     `json:"sample_count"`
}

// GenerationTracker keeps run counters and a sliding window of run latencies.
type GenerationTracker struct {
	mu         sync.Mutex
	runs       int64
	failed     int64
	records    int64
	lastRun    time.Time
	samples    []time.Duration
	maxSamples int
}

// NewGenerationTracker keeps at most window latency samples.
func NewGenerationTracker(window int) *GenerationTracker {
	if window <= 0 {
		window = 500
	}
	return &GenerationTracker{maxSamples: window, samples: make([]time.Duration, 0, window)}
}

// Record registers one finished run.
func (t *GenerationTracker) Record(records int, d time.Duration, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.runs++
	if err != nil {
		t.failed++
	} else {
		t.records += int64(records)
	}
	t.lastRun = time.Now()

	if len(t.samples) >= t.maxSamples {
		t.samples = t.samples[1:]
	}
	t.samples = append(t.samples, d)
}

// Stats returns the current snapshot.
func (t *GenerationTracker) Stats() GenerationStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := GenerationStats{
		Runs:        t.runs,
		FailedRuns:  t.failed,
		Records:     t.records,
		SampleCount: len(t.samples),
	}
	if !t.lastRun.IsZero() {
		s.LastRunAt = t.lastRun.UTC().Format(time.RFC3339)
	}
	if len(t.samples) == 0 {
		return s
	}

	sorted := make([]time.Duration, len(t.samples))
	copy(sorted, t.samples)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	s.P50Millis = millis(percentile(sorted, 0.50))
	s.P95Millis = millis(percentile(sorted, 0.95))
	s.MaxMillis = millis(sorted[len(sorted)-1])
	return s
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	idx := int(float64(len(sorted)-1) * p)
	return sorted[idx]
}

func millis(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

// PoolHealthStatus indicates the health of a connection pool.
type PoolHealthStatus string

const (
	PoolHealthy   PoolHealthStatus = "healthy"
	PoolDegraded  PoolHealthStatus = "degraded"
	PoolUnhealthy PoolHealthStatus = "unhealthy"
)

// PoolHealth is the health assessment of a database/sql pool.
type PoolHealth struct {
	Status      PoolHealthStatus `json:"status"`
	Open        int              `json:"open_connections"`
	InUse       int              `json:"in_use"`
	Utilization float64          `json:"utilization"`
	Message     string           `json:"message,omitempty"`
}

// AssessPool evaluates stats of a database/sql pool.
func AssessPool(stats sql.DBStats) PoolHealth {
	h := PoolHealth{Status: PoolHealthy, Open: stats.OpenConnections, InUse: stats.InUse, Message: "pool operating normally"}
	if stats.MaxOpenConnections == 0 {
		h.Message = "unlimited connections"
		return h
	}

	h.Utilization = float64(stats.InUse) / float64(stats.MaxOpenConnections)
	switch {
	case h.Utilization >= 0.95:
		h.Status, h.Message = PoolUnhealthy, "pool nearly exhausted"
	case h.Utilization >= 0.80:
		h.Status, h.Message = PoolDegraded, "high pool utilization"
	}
	if stats.WaitCount > 0 && stats.WaitDuration > 5*time.Second && h.Status == PoolHealthy {
		h.Status, h.Message = PoolDegraded, "elevated connection wait times"
	}
	return h
}
