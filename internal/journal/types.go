package journal

import (
	"errors"
	"time"
)

// Run status values.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusCanceled  = "canceled"
	StatusFailed    = "failed"
)

// ErrRunNotFound is returned by ReadRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// Run is one playback of a script.
type Run struct {
	ID         string    `json:"id"`
	Script     string    `json:"script"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
	Status     string    `json:"status"`
	FinalText  string    `json:"final_text"`
}

// Entry is one journaled sequencer event.
type Entry struct {
	RunID string `json:"run_id"`

	// Seq orders entries within a run. Assigned by the Recorder's SeqSource.
	Seq int64 `json:"seq"`

	// At is the offset from the start of the run.
	At time.Duration `json:"at"`

	// Kind is the event kind name ("started", "tick", ...) or "mark".
	Kind string `json:"kind"`

	// Action is the action kind name, empty for idle events and marks.
	Action string `json:"action,omitempty"`

	// Index is the action's enqueue ordinal.
	Index uint64 `json:"index,omitempty"`

	// Text is the sink content after a tick.
	Text string `json:"text,omitempty"`

	// Dropped is the number of queued actions a cancel discarded.
	Dropped int `json:"dropped,omitempty"`

	// Mark is the marker name for mark entries.
	Mark string `json:"mark,omitempty"`
}

// KindMark is the Entry kind of script markers.
const KindMark = "mark"
