package testutil

import (
	"sync"
	"time"
)

// ManualClock is a virtual-time timer source.
//
// It implements typewriter.Clock. Timers fire only when the test advances
// the clock, synchronously on the advancing goroutine, in (deadline, creation)
// order. Timers armed by a firing callback fire in the same Advance call when
// their deadline falls inside the advanced window.
//
// Thread-safety: all methods are safe for concurrent use. The internal lock is
// never held while a callback runs.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Duration
	nextID uint64
	timers []*manualTimer
}

type manualTimer struct {
	at   time.Duration
	id   uint64
	f    func()
	done bool // fired or stopped
}

// NewManualClock creates a clock at virtual time zero.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// AfterFunc schedules f at Now()+d. Negative d is treated as zero.
func (c *ManualClock) AfterFunc(d time.Duration, f func()) func() bool {
	if d < 0 {
		d = 0
	}

	c.mu.Lock()
	c.nextID++
	t := &manualTimer{at: c.now + d, id: c.nextID, f: f}
	c.timers = append(c.timers, t)
	c.mu.Unlock()

	return func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if t.done {
			return false
		}
		t.done = true
		c.remove(t)
		return true
	}
}

// Now returns the elapsed virtual time.
func (c *ManualClock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Pending returns the number of armed timers.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// Advance moves virtual time forward by d, firing every timer that becomes
// due. It returns the number of callbacks run.
func (c *ManualClock) Advance(d time.Duration) int {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()

	fired := 0
	for {
		c.mu.Lock()
		t := c.earliest()
		if t == nil || t.at > target {
			c.now = target
			c.mu.Unlock()
			return fired
		}
		c.fireLocked(t)
		c.mu.Unlock()

		t.f()
		fired++
	}
}

// Step jumps to the earliest armed timer and fires it. It reports false when
// no timer is armed.
func (c *ManualClock) Step() bool {
	c.mu.Lock()
	t := c.earliest()
	if t == nil {
		c.mu.Unlock()
		return false
	}
	c.fireLocked(t)
	c.mu.Unlock()

	t.f()
	return true
}

// RunUntilIdle steps until no timer is armed or limit callbacks have run.
// It returns the number of callbacks run.
func (c *ManualClock) RunUntilIdle(limit int) int {
	n := 0
	for n < limit && c.Step() {
		n++
	}
	return n
}

func (c *ManualClock) fireLocked(t *manualTimer) {
	t.done = true
	c.remove(t)
	if t.at > c.now {
		c.now = t.at
	}
}

func (c *ManualClock) earliest() *manualTimer {
	var best *manualTimer
	for _, t := range c.timers {
		if best == nil || t.at < best.at || (t.at == best.at && t.id < best.id) {
			best = t
		}
	}
	return best
}

func (c *ManualClock) remove(t *manualTimer) {
	for i, cand := range c.timers {
		if cand == t {
			c.timers[i] = c.timers[len(c.timers)-1]
			c.timers[len(c.timers)-1] = nil
			c.timers = c.timers[:len(c.timers)-1]
			return
		}
	}
}
