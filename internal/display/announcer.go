// Package display is the message layer that drives a typewriter.Sequencer.
//
// An Announcer replaces whatever is on screen with a new message. Saying the
// same message again does not restart the animation; it appends an escalating
// remark to the running stream instead.
package display

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/typewriter/internal/typewriter"
)

// Timing holds the durations an Announcer uses.
type Timing struct {
	LeadIn    time.Duration // pause before erasing the previous message
	Erase     time.Duration // per-character delete delay
	Settle    time.Duration // pause between erasing and typing
	Type      time.Duration // per-character type delay for messages
	Beat      time.Duration // pause before a repeat remark
	Emphasis  time.Duration // per-chunk delay for emphasized words
	Ellipsis  time.Duration // per-dot delay for trailing ellipses
	Quickfire time.Duration // per-character delay for the final retort
}

// DefaultTiming returns the timings of the original message area.
func DefaultTiming() Timing {
	return Timing{
		LeadIn:    200 * time.Millisecond,
		Erase:     25 * time.Millisecond,
		Settle:    200 * time.Millisecond,
		Type:      75 * time.Millisecond,
		Beat:      500 * time.Millisecond,
		Emphasis:  500 * time.Millisecond,
		Ellipsis:  200 * time.Millisecond,
		Quickfire: 50 * time.Millisecond,
	}
}

// Announcer displays messages through a Sequencer.
//
// Thread-safety: Say and Reset are safe for concurrent use.
type Announcer struct {
	seq    *typewriter.Sequencer
	timing Timing
	logger *slog.Logger

	mu      sync.Mutex
	last    string
	hasLast bool
	repeats int
}

// NewAnnouncer creates an Announcer driving seq.
func NewAnnouncer(seq *typewriter.Sequencer, timing Timing) *Announcer {
	return &Announcer{
		seq:    seq,
		timing: timing,
		logger: slog.Default(),
	}
}

// Say shows message. A new message cancels the running animation, erases
// the text and types the message. A repeated message appends a remark that
// escalates with each repeat.
func (a *Announcer) Say(message string) {
	a.mu.Lock()
	if a.hasLast && message == a.last {
		a.repeats++
	} else {
		a.repeats = 0
	}
	a.last = message
	a.hasLast = true
	repeats := a.repeats
	a.mu.Unlock()

	t := a.timing
	if repeats == 0 {
		a.seq.Cancel(true).
			Wait(t.LeadIn).
			ClearAll(t.Erase).
			Wait(t.Settle).
			TypeText(message, t.Type)
	} else {
		a.logger.Debug("message repeated", "repeats", repeats)
		a.remark(repeats)
	}
	a.seq.Run()
}

// remark queues the addendum for the nth repeat.
func (a *Announcer) remark(n int) {
	t := a.timing
	switch n {
	case 1:
		a.seq.Wait(t.Beat).TypeText(" again...", t.Type)
	case 2:
		a.seq.Wait(t.Beat).
			TypeText(" three times in a row??", t.Type).
			Wait(t.Beat).
			TypeChunks([]string{" come", " on"}, t.Emphasis).
			TypeText("...", t.Ellipsis)
	default:
		a.seq.Wait(t.Beat).
			TypeText(fmt.Sprintf(" %d times? ", n), t.Type).
			Wait(t.Beat).
			TypeText("really?", t.Quickfire)
	}
}

// Repeats returns how many times in a row the last message was repeated.
func (a *Announcer) Repeats() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.repeats
}

// Reset forgets the last message so the next Say starts fresh.
func (a *Announcer) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.last = ""
	a.hasLast = false
	a.repeats = 0
}
