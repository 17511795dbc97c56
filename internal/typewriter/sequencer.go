package typewriter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Sequencer drains a FIFO queue of Actions against a Sink, one at a time.
//
// All methods are safe for concurrent use. Mutators return the Sequencer so
// calls chain:
//
//	seq.Cancel(true).Wait(200 * time.Millisecond).ClearAll().TypeText("Hit!").Run()
//
// INVARIANTS:
//   - at most one action is in flight
//   - active is non-nil only while running and after the head was dequeued
//   - Run while running never starts a second drain
//   - actions dropped by Cancel(true) never start
type Sequencer struct {
	sink     Sink
	clock    Clock
	observer Observer
	logger   *slog.Logger

	typeDelay    time.Duration
	deleteDelay  time.Duration
	waitDuration time.Duration

	mu        sync.Mutex
	queue     *actionQueue
	active    *execution
	running   bool
	idle      chan struct{} // closed while idle
	nextIndex uint64
}

// New creates an idle Sequencer writing to sink.
func New(sink Sink, opts ...Option) *Sequencer {
	idle := make(chan struct{})
	close(idle)

	s := &Sequencer{
		sink:         sink,
		clock:        SystemClock{},
		logger:       slog.Default(),
		typeDelay:    DefaultTypeDelay,
		deleteDelay:  DefaultDeleteDelay,
		waitDuration: DefaultWaitDuration,
		queue:        newActionQueue(),
		idle:         idle,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Sink returns the sink the Sequencer writes to.
func (s *Sequencer) Sink() Sink {
	return s.sink
}

// Wait queues a pause. The default wait duration applies when d is omitted.
func (s *Sequencer) Wait(d ...time.Duration) *Sequencer {
	return s.Enqueue(WaitAction(pick(d, s.waitDuration)))
}

// TypeText queues typing text one character per delay. The first character
// is appended immediately. An empty text completes without touching the sink.
func (s *Sequencer) TypeText(text string, delay ...time.Duration) *Sequencer {
	return s.Enqueue(TypeTextAction(text, pick(delay, s.typeDelay)))
}

// TypeChunks queues typing fragments one per delay, with TypeText's timing.
func (s *Sequencer) TypeChunks(chunks []string, delay ...time.Duration) *Sequencer {
	return s.Enqueue(TypeChunksAction(chunks, pick(delay, s.typeDelay)))
}

// DeleteChars queues removing up to count trailing characters, one per delay.
func (s *Sequencer) DeleteChars(count int, delay ...time.Duration) *Sequencer {
	return s.Enqueue(DeleteAction(count, pick(delay, s.deleteDelay)))
}

// ClearAll queues deleting every character present when the action starts.
func (s *Sequencer) ClearAll(delay ...time.Duration) *Sequencer {
	return s.Enqueue(ClearAction(pick(delay, s.deleteDelay)))
}

// Trigger queues a callback. fn is never called if the action is canceled
// before it is reached.
func (s *Sequencer) Trigger(fn func()) *Sequencer {
	return s.Enqueue(TriggerAction(fn))
}

// Await queues an action that completes when fn calls done.
func (s *Sequencer) Await(fn AwaitFunc) *Sequencer {
	return s.Enqueue(AwaitAction(fn))
}

// Enqueue appends actions in order. Appending while running is legal; the
// new actions run after everything queued before them.
func (s *Sequencer) Enqueue(actions ...Action) *Sequencer {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range actions {
		s.nextIndex++
		s.queue.Push(queued{action: a, index: s.nextIndex})
	}
	return s
}

// Run begins or resumes draining the queue and returns immediately.
// It is a no-op while running or when nothing is queued.
func (s *Sequencer) Run() *Sequencer {
	s.mu.Lock()
	if s.running || s.queue.Len() == 0 {
		s.mu.Unlock()
		return s
	}
	s.running = true
	s.idle = make(chan struct{})
	pending := s.queue.Len()
	s.mu.Unlock()

	s.logger.Debug("sequencer running", "pending", pending)
	s.drain()
	return s
}

// Cancel halts the active action, if any, so that it never signals
// completion, and marks the Sequencer idle. With clearQueue the remaining
// actions are discarded; otherwise a later Run resumes with the next one.
// Safe to call in any state.
func (s *Sequencer) Cancel(clearQueue bool) *Sequencer {
	s.mu.Lock()
	x := s.active
	s.active = nil
	dropped := 0
	if clearQueue {
		dropped = s.queue.Clear()
	}
	wasRunning := s.running
	if s.running {
		s.setIdleLocked()
	}
	s.mu.Unlock()

	if x != nil {
		x.abort()
	}

	if x != nil || dropped > 0 {
		e := Event{Kind: EventCanceled, Dropped: dropped}
		if x != nil {
			e.Action = x.action.Kind()
			e.Index = x.index
		}
		s.emit(e)
	}

	if wasRunning || dropped > 0 {
		s.logger.Debug("sequencer canceled",
			"active", x != nil,
			"dropped", dropped,
			"clear_queue", clearQueue,
		)
	}
	return s
}

// Running reports whether a drain is in progress.
func (s *Sequencer) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Pending returns the number of queued, not yet started actions.
func (s *Sequencer) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// PendingKinds returns the kinds of the queued actions in execution order.
func (s *Sequencer) PendingKinds() []Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Kinds()
}

// WaitIdle blocks until the Sequencer is idle or ctx is done.
func (s *Sequencer) WaitIdle(ctx context.Context) error {
	s.mu.Lock()
	idle := s.idle
	s.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// drain starts queued actions until one is left running asynchronously, the
// queue empties, or the Sequencer stops running.
func (s *Sequencer) drain() {
	for {
		s.mu.Lock()
		if !s.running || s.active != nil {
			s.mu.Unlock()
			return
		}

		item, ok := s.queue.Pop()
		if !ok {
			s.setIdleLocked()
			s.mu.Unlock()

			s.emit(Event{Kind: EventIdle})
			s.logger.Debug("sequencer idle")
			return
		}

		// x.mu is held across the started event so a concurrent Cancel,
		// which aborts under x.mu, reports canceled only after it.
		x := &execution{seq: s, action: item.action, index: item.index}
		x.mu.Lock()
		s.active = x
		s.mu.Unlock()

		s.emit(Event{Kind: EventStarted, Action: x.action.Kind(), Index: x.index})
		x.mu.Unlock()

		if !x.begin() {
			return
		}
		if !s.retire(x) {
			return
		}
	}
}

// complete is called by an execution that finished asynchronously.
func (s *Sequencer) complete(x *execution) {
	if s.retire(x) {
		s.drain()
	}
}

// retire clears x as the active execution. It reports false when x is no
// longer active, i.e. it was canceled.
func (s *Sequencer) retire(x *execution) bool {
	s.mu.Lock()
	if s.active != x {
		s.mu.Unlock()
		return false
	}
	s.active = nil
	s.mu.Unlock()

	s.emit(Event{Kind: EventCompleted, Action: x.action.Kind(), Index: x.index})
	return true
}

func (s *Sequencer) setIdleLocked() {
	s.running = false
	select {
	case <-s.idle:
	default:
		close(s.idle)
	}
}

func (s *Sequencer) emitTick(x *execution) {
	if s.observer == nil {
		return
	}
	s.observer.Observe(Event{
		Kind:   EventTick,
		Action: x.action.Kind(),
		Index:  x.index,
		Text:   s.sink.Text(),
	})
}

func (s *Sequencer) emit(e Event) {
	if s.observer == nil {
		return
	}
	s.observer.Observe(e)
}
