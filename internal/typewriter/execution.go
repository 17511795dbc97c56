package typewriter

import "sync"

// execution is the record of one started action.
//
// The flags make completion exactly-once and cancellation final:
//   - finished is set by the first done call; later calls are ignored
//   - canceled is set by abort; done calls after it are ignored
//   - starting is true while Action.start runs, so a done call made during
//     start is left for the drain loop instead of re-entering it
//
// Lock order: Sequencer.mu before x.mu. x.mu may be held while a ticker is
// armed or the started event is observed; a ticker never holds its own lock
// while calling done.
type execution struct {
	seq    *Sequencer
	action Action
	index  uint64

	mu       sync.Mutex
	starting bool
	finished bool
	canceled bool
	halt     func()
}

// begin starts the action. It reports true when the action finished during
// start and was not canceled, in which case the caller retires it.
//
// Internal kinds start with x.mu held, so an abort from another goroutine
// waits until the first step is applied and the timer armed. Trigger and
// Await run caller code and start unlocked: those callbacks may call back
// into the Sequencer, including Cancel.
func (x *execution) begin() bool {
	x.mu.Lock()
	if x.canceled {
		x.mu.Unlock()
		return false
	}
	x.starting = true

	var halt func()
	var finished bool
	if x.action.callsOut() {
		x.mu.Unlock()
		halt, finished = x.action.start(x)
		x.mu.Lock()
	} else {
		halt, finished = x.action.start(x)
	}

	x.starting = false
	x.halt = halt
	if finished && !x.canceled {
		x.finished = true
	}
	finished, canceled := x.finished, x.canceled
	x.mu.Unlock()

	// Canceled while a callout ran: abort found no handle yet.
	if canceled && !finished && halt != nil {
		halt()
	}
	return finished && !canceled
}

// abort cancels the execution and halts its timers. After abort returns, the
// execution's done has no effect.
func (x *execution) abort() {
	x.mu.Lock()
	if x.canceled {
		x.mu.Unlock()
		return
	}
	x.canceled = true
	halt := x.halt
	x.mu.Unlock()

	if halt != nil {
		halt()
	}
}

// done is the completion callback handed to the action.
func (x *execution) done() {
	x.mu.Lock()
	if x.finished || x.canceled {
		x.mu.Unlock()
		return
	}
	x.finished = true
	starting := x.starting
	x.mu.Unlock()

	if starting {
		return
	}
	x.seq.complete(x)
}

func (x *execution) isCanceled() bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.canceled
}

func (x *execution) clock() Clock {
	return x.seq.clock
}

func (x *execution) sinkLen() int {
	return x.seq.sink.Len()
}

func (x *execution) append(fragment string) {
	x.seq.sink.Append(fragment)
	x.seq.emitTick(x)
}

func (x *execution) truncate() {
	x.seq.sink.TruncateLast(1)
	x.seq.emitTick(x)
}
