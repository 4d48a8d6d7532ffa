package processor

import (
	"sync"

	"github.com/ftrs/dos-migration/internal/platform/logging"
)

// Metrics counts record outcomes for one run.
type Metrics struct {
	mu sync.Mutex
	s  Snapshot
}

// Snapshot is a point-in-time copy of the run counters.
type Snapshot struct {
	TotalRecords       int `json:"total_records" yaml:"total_records"`
	SupportedRecords   int `json:"supported_records" yaml:"supported_records"`
	UnsupportedRecords int `json:"unsupported_records" yaml:"unsupported_records"`
	TransformedRecords int `json:"transformed_records" yaml:"transformed_records"`
	MigratedRecords    int `json:"migrated_records" yaml:"migrated_records"`
	SkippedRecords     int `json:"skipped_records" yaml:"skipped_records"`
	InvalidRecords     int `json:"invalid_records" yaml:"invalid_records"`
	Errors             int `json:"errors" yaml:"errors"`
}

// Reset zeroes every counter.
func (m *Metrics) Reset() {
	m.mu.Lock()
	m.s = Snapshot{}
	m.mu.Unlock()
}

func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s
}

func (m *Metrics) add(fn func(s *Snapshot)) {
	m.mu.Lock()
	fn(&m.s)
	m.mu.Unlock()
}

// Fields renders the snapshot as log detail.
func (s Snapshot) Fields() logging.Fields {
	return logging.Fields{
		"total_records":       s.TotalRecords,
		"supported_records":   s.SupportedRecords,
		"unsupported_records": s.UnsupportedRecords,
		"transformed_records": s.TransformedRecords,
		"migrated_records":    s.MigratedRecords,
		"skipped_records":     s.SkippedRecords,
		"invalid_records":     s.InvalidRecords,
		"errors":              s.Errors,
	}
}
