package script

import (
	"sync"
	"time"

	"github.com/roach88/typewriter/internal/typewriter"
)

// Apply queues the script's steps on seq and arms its interrupts on clock.
// It does not call Run. onMark, which may be nil, receives each marker as its
// step is reached.
func (s *Script) Apply(seq *typewriter.Sequencer, clock typewriter.Clock, onMark func(name string)) *Handle {
	enqueue(seq, s.Steps, onMark)

	h := &Handle{remaining: len(s.Interrupts), settled: make(chan struct{})}
	if h.remaining == 0 {
		close(h.settled)
	}
	for _, it := range s.Interrupts {
		h.stops = append(h.stops, clock.AfterFunc(it.At.Std(), func() {
			// With KeepQueue the replacement lands behind the pending steps.
			seq.Cancel(!it.KeepQueue)
			enqueue(seq, it.Steps, onMark)
			seq.Run()
			h.settle()
		}))
	}
	return h
}

// Handle tracks the interrupts armed by Apply.
type Handle struct {
	stops []func() bool

	mu        sync.Mutex
	remaining int
	settled   chan struct{}
}

// Stop disarms interrupts that have not fired yet.
func (h *Handle) Stop() {
	for _, stop := range h.stops {
		if stop() {
			h.settle()
		}
	}
}

// Settled is closed once every interrupt has fired or been disarmed.
func (h *Handle) Settled() <-chan struct{} {
	return h.settled
}

func (h *Handle) settle() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.remaining--
	if h.remaining == 0 {
		close(h.settled)
	}
}

func enqueue(seq *typewriter.Sequencer, steps []Step, onMark func(name string)) {
	for _, step := range steps {
		var delay []time.Duration
		if step.Delay != nil {
			delay = append(delay, step.Delay.Std())
		}
		switch step.Op() {
		case "type":
			seq.TypeText(*step.Type, delay...)
		case "chunks":
			seq.TypeChunks(step.Chunks, delay...)
		case "delete":
			seq.DeleteChars(*step.Delete, delay...)
		case "clear":
			seq.ClearAll(delay...)
		case "wait":
			if d := step.Wait.Std(); d > 0 {
				seq.Wait(d)
			} else {
				seq.Wait()
			}
		case "mark":
			seq.Enqueue(markAction(step.Mark, onMark))
		}
	}
}

func markAction(name string, onMark func(name string)) typewriter.Action {
	return typewriter.TriggerAction(func() {
		if onMark != nil {
			onMark(name)
		}
	})
}
