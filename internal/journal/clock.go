package journal

import "sync/atomic"

// SeqSource hands out the sequence numbers that order entries.
type SeqSource interface {
	Next() int64
}

// Clock is a monotonic logical clock for entry ordering.
//
// Every observed event is stamped with a strictly increasing seq, so entries
// reported by concurrent timer goroutines still read back in a single order.
//
// Thread-safety: Clock is safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0. The first Next returns 1.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
