package domain

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus is the outcome of a generation run.
type RunStatus string

const (
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// GenerationRun records one generate-and-persist invocation.
type GenerationRun struct {
	ID         uuid.UUID     `json:"id"`
	Count      int           `json:"count"`
	JoinDate   string        `json:"join_date"`
	Status     RunStatus     `json:"status"`
	Error      string        `json:"error,omitempty"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Duration   time.Duration `json:"duration_ns"`
}
