// Package memory holds in-process fallbacks for optional backing stores.
package memory

import (
	"context"
	"sync"

	"custmaker/core/domain"
)

// RunHistory keeps the most recent runs in memory. Used when MongoDB is not configured.
type RunHistory struct {
	mu   sync.Mutex
	runs []*domain.GenerationRun
	max  int
}

// NewRunHistory keeps at most max runs.
func NewRunHistory(max int) *RunHistory {
	if max <= 0 {
		max = 100
	}
	return &RunHistory{max: max}
}

func (h *RunHistory) Save(_ context.Context, run *domain.GenerationRun) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	cp := *run
	for i, r := range h.runs {
		if r.ID == run.ID {
			h.runs[i] = &cp
			return nil
		}
	}
	h.runs = append(h.runs, &cp)
	if len(h.runs) > h.max {
		h.runs = h.runs[len(h.runs)-h.max:]
	}
	return nil
}

func (h *RunHistory) ListRecent(_ context.Context, limit int) ([]*domain.GenerationRun, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if limit <= 0 || limit > len(h.runs) {
		limit = len(h.runs)
	}
	out := make([]*domain.GenerationRun, 0, limit)
	for i := len(h.runs) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *h.runs[i]
		out = append(out, &cp)
	}
	return out, nil
}
