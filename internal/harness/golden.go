package harness

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/typewriter/internal/journal"
	"github.com/roach88/typewriter/internal/script"
)

// TraceSnapshot is the golden-file form of a run.
// Times are whole milliseconds so snapshots stay readable.
type TraceSnapshot struct {
	Script    string       `json:"script"`
	RunID     string       `json:"run_id"`
	FinalText string       `json:"final_text"`
	ElapsedMS int64        `json:"elapsed_ms"`
	Trace     []TraceEvent `json:"trace"`
}

// TraceEvent is one journal entry in a snapshot.
type TraceEvent struct {
	Seq     int64   `json:"seq"`
	AtMS    int64   `json:"at_ms"`
	Kind    string  `json:"kind"`
	Action  string  `json:"action,omitempty"`
	Index   uint64  `json:"index,omitempty"`
	Text    *string `json:"text,omitempty"` // set for ticks only
	Dropped int     `json:"dropped,omitempty"`
	Mark    string  `json:"mark,omitempty"`
}

// Snapshot converts a result to its golden-file form.
func Snapshot(result *Result) TraceSnapshot {
	snap := TraceSnapshot{
		Script:    result.Script,
		RunID:     result.RunID,
		FinalText: result.FinalText,
		ElapsedMS: result.Elapsed.Milliseconds(),
		Trace:     make([]TraceEvent, 0, len(result.Trace)),
	}
	for _, e := range result.Trace {
		snap.Trace = append(snap.Trace, traceEvent(e))
	}
	return snap
}

func traceEvent(e journal.Entry) TraceEvent {
	ev := TraceEvent{
		Seq:     e.Seq,
		AtMS:    e.At.Milliseconds(),
		Kind:    e.Kind,
		Action:  e.Action,
		Index:   e.Index,
		Dropped: e.Dropped,
		Mark:    e.Mark,
	}
	if e.Kind == "tick" {
		text := e.Text
		ev.Text = &text
	}
	return ev
}

// MarshalSnapshot renders a snapshot as indented JSON with a trailing newline.
func MarshalSnapshot(snap TraceSnapshot) ([]byte, error) {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden runs a script and compares its trace against
// testdata/golden/{script.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the script fails to run. Expectation failures do not
// fail the comparison; check the returned result.
func RunWithGolden(t *testing.T, s *script.Script, opts ...Option) (*Result, error) {
	t.Helper()

	result, err := Run(s, opts...)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, s.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against the golden file for name.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(Snapshot(result))
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
