package typewriter

import "fmt"

// EventKind distinguishes sequencer lifecycle events.
type EventKind int

const (
	// EventStarted is emitted when an action is dequeued and started.
	EventStarted EventKind = iota + 1
	// EventTick is emitted after an action changed the sink.
	EventTick
	// EventCompleted is emitted once when an action signals completion.
	EventCompleted
	// EventCanceled is emitted when Cancel halts an active action or drops queued ones.
	EventCanceled
	// EventIdle is emitted when a drain empties the queue.
	EventIdle
)

// String returns the name stored in journals.
func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventTick:
		return "tick"
	case EventCompleted:
		return "completed"
	case EventCanceled:
		return "canceled"
	case EventIdle:
		return "idle"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event describes one observable step of a Sequencer.
type Event struct {
	Kind EventKind

	// Action is the kind of the action involved. Zero for EventIdle and for
	// cancellations that found no active action.
	Action Kind

	// Index is the 1-based enqueue ordinal of the action. Zero when Action is zero.
	Index uint64

	// Text is the sink content after the change (EventTick only).
	Text string

	// Dropped is the number of queued actions discarded (EventCanceled only).
	Dropped int
}

// Observer receives sequencer events.
//
// Observe is called synchronously from the goroutine that produced the event
// (often a timer goroutine) and must not call back into the Sequencer.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe implements Observer.
func (f ObserverFunc) Observe(e Event) {
	f(e)
}
