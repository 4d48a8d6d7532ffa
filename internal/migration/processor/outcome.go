package processor

import (
	"sync"
	"time"
)

// State is the terminal state of one processed record.
type State string

const (
	StateMigrated    State = "migrated"
	StateUnsupported State = "unsupported"
	StateSkipped     State = "skipped"
	StateInvalid     State = "invalid"
	StateError       State = "error"
)

// Outcome describes how one record left the pipeline.
type Outcome struct {
	RecordID    int64
	Transformer string
	State       State
	Reason      string
	Issues      []string
	Duration    time.Duration
}

// Recorder receives one Outcome per processed record.
type Recorder interface {
	Record(o Outcome)
}

// MemoryRecorder keeps outcomes in arrival order.
type MemoryRecorder struct {
	mu       sync.Mutex
	outcomes []Outcome
}

func (r *MemoryRecorder) Record(o Outcome) {
	r.mu.Lock()
	r.outcomes = append(r.outcomes, o)
	r.mu.Unlock()
}

func (r *MemoryRecorder) Outcomes() []Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Outcome(nil), r.outcomes...)
}
