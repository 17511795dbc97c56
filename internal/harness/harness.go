package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/typewriter/internal/journal"
	"github.com/roach88/typewriter/internal/script"
	"github.com/roach88/typewriter/internal/testutil"
	"github.com/roach88/typewriter/internal/textsink"
	"github.com/roach88/typewriter/internal/typewriter"
)

// DefaultMaxFirings bounds the timer callbacks of one run.
const DefaultMaxFirings = 100_000

// epoch is the wall-clock start recorded for every harness run.
var epoch = time.Unix(0, 0).UTC()

// Option configures a harness run.
type Option func(*config)

type config struct {
	runID      string
	maxFirings int
}

// WithRunID sets the journaled run ID. Defaults to "test-run-default".
func WithRunID(id string) Option {
	return func(c *config) {
		c.runID = id
	}
}

// WithMaxFirings bounds the timer callbacks a run may fire before it is
// reported as not settling.
func WithMaxFirings(n int) Option {
	return func(c *config) {
		c.maxFirings = n
	}
}

// Run executes a script in virtual time and returns the result.
//
// Execution flow:
//  1. Open a fresh in-memory journal and begin a run
//  2. Create a Sequencer on a ManualClock with a Recorder observing it
//  3. Queue the script and its interrupts, then Run
//  4. Fire timers until none are armed
//  5. Flush and read back the trace; evaluate expectations
//
// Returns an error when the run cannot execute or does not settle; unmet
// expectations are reported in Result.Failures.
func Run(s *script.Script, opts ...Option) (*Result, error) {
	cfg := config{maxFirings: DefaultMaxFirings}
	for _, opt := range opts {
		opt(&cfg)
	}
	runID := testutil.NewFixedRunIDGenerator(cfg.runID).Generate()

	st, err := journal.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory journal: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.BeginRun(ctx, runID, s.Name, epoch); err != nil {
		return nil, err
	}

	clock := testutil.NewManualClock()
	rec := journal.NewRecorder(runID, testutil.NewDeterministicClock(), clock.Now)
	sink := textsink.NewBuffer(s.Initial)

	seqOpts := []typewriter.Option{
		typewriter.WithClock(clock),
		typewriter.WithObserver(rec),
		typewriter.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	seq := typewriter.New(sink, append(seqOpts, s.Options()...)...)

	h := s.Apply(seq, clock, rec.Mark)
	defer h.Stop()
	seq.Run()

	clock.RunUntilIdle(cfg.maxFirings)
	if clock.Pending() > 0 {
		seq.Cancel(true)
		return nil, fmt.Errorf("script %q did not settle within %d timer firings", s.Name, cfg.maxFirings)
	}

	status := journal.StatusCompleted
	if seq.Running() {
		status = journal.StatusFailed
	}

	if err := rec.Flush(ctx, st); err != nil {
		return nil, err
	}
	elapsed := clock.Now()
	if err := st.FinishRun(ctx, runID, status, sink.Text(), epoch.Add(elapsed)); err != nil {
		return nil, err
	}

	_, entries, err := st.ReadRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	result.Script = s.Name
	result.RunID = runID
	result.FinalText = sink.Text()
	result.Elapsed = elapsed
	result.applyTrace(entries)

	if status != journal.StatusCompleted {
		result.AddFailure("sequencer still running after all timers fired")
	}
	for _, msg := range EvaluateExpect(s.Expect, result) {
		result.AddFailure(msg)
	}
	return result, nil
}

// RunFile loads and runs the script at path.
func RunFile(path string, opts ...Option) (*Result, error) {
	s, err := script.Load(path)
	if err != nil {
		return nil, err
	}
	return Run(s, opts...)
}
