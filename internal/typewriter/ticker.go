package typewriter

import (
	"sync"
	"time"
)

// ticker calls tick once per interval until tick reports that it is finished
// or stop is called. When tick finishes, onFinish runs exactly once, after the
// ticker's lock has been released.
//
// Thread-safety: fire and stop serialize on mu. After stop returns no tick is
// in progress and none will start, and onFinish will not be called.
type ticker struct {
	clock    Clock
	interval time.Duration
	tick     func() (finished bool)
	onFinish func()

	mu        sync.Mutex
	stopped   bool
	stopTimer func() bool
}

func newTicker(clock Clock, interval time.Duration, tick func() bool, onFinish func()) *ticker {
	return &ticker{
		clock:    clock,
		interval: interval,
		tick:     tick,
		onFinish: onFinish,
	}
}

// start arms the first timer. The caller performs any immediate first step
// itself.
func (t *ticker) start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}
	t.stopTimer = t.clock.AfterFunc(t.interval, t.fire)
}

func (t *ticker) fire() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}

	if t.tick() {
		t.stopped = true
		t.stopTimer = nil
		t.mu.Unlock()
		t.onFinish()
		return
	}

	// Re-arm only after the tick has been applied (no overlapping ticks).
	t.stopTimer = t.clock.AfterFunc(t.interval, t.fire)
	t.mu.Unlock()
}

// stop halts the ticker. Safe to call more than once.
func (t *ticker) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stopped {
		return
	}
	t.stopped = true
	if t.stopTimer != nil {
		t.stopTimer()
		t.stopTimer = nil
	}
}
