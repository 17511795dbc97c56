package typewriter

// queued is an Action waiting in the queue together with its ordinal.
type queued struct {
	action Action
	index  uint64
}

// actionQueue is the FIFO of not-yet-started actions.
//
// Not safe for concurrent use: the owning Sequencer guards it with its mutex.
type actionQueue struct {
	items []queued
}

func newActionQueue() *actionQueue {
	return &actionQueue{
		items: make([]queued, 0, 16),
	}
}

// Push adds an action to the back of the queue.
func (q *actionQueue) Push(item queued) {
	q.items = append(q.items, item)
}

// Pop removes and returns the front action.
// Returns (queued{}, false) if the queue is empty.
func (q *actionQueue) Pop() (queued, bool) {
	if len(q.items) == 0 {
		return queued{}, false
	}

	item := q.items[0]

	// Release the slot so closures captured by the action can be collected.
	q.items[0] = queued{}

	if len(q.items) == 1 {
		q.items = q.items[:0]
	} else {
		q.items = q.items[1:]
	}

	return item, true
}

// Len returns the number of queued actions.
func (q *actionQueue) Len() int {
	return len(q.items)
}

// Clear drops every queued action and returns how many were dropped.
func (q *actionQueue) Clear() int {
	n := len(q.items)
	for i := range q.items {
		q.items[i] = queued{}
	}
	q.items = q.items[:0]
	return n
}

// Kinds returns the kinds of the queued actions in order.
func (q *actionQueue) Kinds() []Kind {
	kinds := make([]Kind, len(q.items))
	for i, item := range q.items {
		kinds[i] = item.action.Kind()
	}
	return kinds
}
