package harness

import (
	"time"

	"github.com/roach88/typewriter/internal/journal"
)

// Frame is the sink content after one change.
type Frame struct {
	At   time.Duration `json:"at"`
	Text string        `json:"text"`
}

// Result is the outcome of running a script.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	// Script is the script name.
	Script string `json:"script"`

	// RunID identifies the journaled run.
	RunID string `json:"run_id"`

	// FinalText is the sink content once the sequencer is idle.
	FinalText string `json:"final_text"`

	// Elapsed is the virtual time at which the last timer fired.
	Elapsed time.Duration `json:"elapsed"`

	// Frames are the sink contents after each tick, in order.
	Frames []Frame `json:"frames"`

	// Marks are the markers reached, in order.
	Marks []string `json:"marks"`

	// Trace is the journaled event log ordered by seq.
	Trace []journal.Entry `json:"trace"`

	// Failures lists unmet expectations. Empty if Pass is true.
	Failures []string `json:"failures,omitempty"`
}

// NewResult creates a passing result with empty collections.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Frames:   []Frame{},
		Marks:    []string{},
		Trace:    []journal.Entry{},
		Failures: []string{},
	}
}

// AddFailure records an unmet expectation and marks the result as failed.
func (r *Result) AddFailure(msg string) {
	r.Failures = append(r.Failures, msg)
	r.Pass = false
}

// applyTrace sets the trace and derives frames and marks from it.
func (r *Result) applyTrace(entries []journal.Entry) {
	r.Trace = entries
	for _, e := range entries {
		switch e.Kind {
		case "tick":
			r.Frames = append(r.Frames, Frame{At: e.At, Text: e.Text})
		case journal.KindMark:
			r.Marks = append(r.Marks, e.Mark)
		}
	}
}
