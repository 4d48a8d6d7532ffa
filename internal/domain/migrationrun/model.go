// Package migrationrun records the history of migration runs.
package migrationrun

import (
	"time"

	"github.com/google/uuid"
)

// Triggers.
const (
	TriggerFullSync = "full_sync"
	TriggerEvents   = "dms_events"
)

// Statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Counts are the record counters of a finished run.
type Counts struct {
	TotalRecords       int `json:"total_records"`
	SupportedRecords   int `json:"supported_records"`
	UnsupportedRecords int `json:"unsupported_records"`
	TransformedRecords int `json:"transformed_records"`
	MigratedRecords    int `json:"migrated_records"`
	SkippedRecords     int `json:"skipped_records"`
	InvalidRecords     int `json:"invalid_records"`
	Errors             int `json:"errors"`
}

type Run struct {
	ID           uuid.UUID  `json:"id"`
	Trigger      string     `json:"trigger"`
	Env          string     `json:"env"`
	Workspace    string     `json:"workspace,omitempty"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
	Counts
}

// Finish marks the run completed, or failed when err is non-nil.
func (r *Run) Finish(at time.Time, counts Counts, err error) {
	r.FinishedAt = &at
	r.Counts = counts
	r.Status = StatusCompleted
	if err != nil {
		msg := err.Error()
		r.Status = StatusFailed
		r.ErrorMessage = &msg
	}
}
