package journal

import (
	"context"
	"sync"
	"time"

	"github.com/roach88/typewriter/internal/typewriter"
)

// Recorder buffers sequencer events as journal entries.
//
// Recorder implements typewriter.Observer. Observe only appends to memory;
// Flush writes what has not been written yet.
//
// Thread-safety: all methods are safe for concurrent use.
type Recorder struct {
	runID   string
	seq     SeqSource
	elapsed func() time.Duration

	mu      sync.Mutex
	entries []Entry

	flushMu sync.Mutex // serializes Flush
	flushed int        // guarded by mu
}

// NewRecorder creates a Recorder for runID. elapsed reports the offset from
// the start of the run; pass the virtual clock's Now in tests.
func NewRecorder(runID string, seq SeqSource, elapsed func() time.Duration) *Recorder {
	return &Recorder{runID: runID, seq: seq, elapsed: elapsed}
}

// SinceStart returns an elapsed func measuring wall time from now.
func SinceStart() func() time.Duration {
	start := time.Now()
	return func() time.Duration { return time.Since(start) }
}

// RunID returns the run being recorded.
func (r *Recorder) RunID() string {
	return r.runID
}

// Observe implements typewriter.Observer.
func (r *Recorder) Observe(e typewriter.Event) {
	entry := Entry{
		Kind:    e.Kind.String(),
		Index:   e.Index,
		Text:    e.Text,
		Dropped: e.Dropped,
	}
	if e.Action != 0 {
		entry.Action = e.Action.String()
	}
	r.add(entry)
}

// Mark records a named marker.
func (r *Recorder) Mark(name string) {
	r.add(Entry{Kind: KindMark, Mark: name})
}

// add stamps and appends under the lock so seq order matches slice order.
func (r *Recorder) add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.RunID = r.runID
	e.Seq = r.seq.Next()
	e.At = r.elapsed()
	r.entries = append(r.entries, e)
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Flush writes entries recorded since the last successful Flush.
func (r *Recorder) Flush(ctx context.Context, s *Store) error {
	r.flushMu.Lock()
	defer r.flushMu.Unlock()

	r.mu.Lock()
	pending := make([]Entry, len(r.entries)-r.flushed)
	copy(pending, r.entries[r.flushed:])
	r.mu.Unlock()

	if err := s.WriteEvents(ctx, pending); err != nil {
		return err
	}

	r.mu.Lock()
	r.flushed += len(pending)
	r.mu.Unlock()
	return nil
}
