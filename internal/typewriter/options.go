package typewriter

import (
	"log/slog"
	"time"
)

// Built-in defaults used when a per-call duration is omitted.
const (
	DefaultTypeDelay    = 75 * time.Millisecond
	DefaultDeleteDelay  = 25 * time.Millisecond
	DefaultWaitDuration = 0
)

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithTypeDelay sets the per-chunk delay used by TypeText and TypeChunks
// when the call omits one. Negative values are treated as zero.
func WithTypeDelay(d time.Duration) Option {
	return func(s *Sequencer) {
		s.typeDelay = sanitize(d)
	}
}

// WithDeleteDelay sets the per-rune delay used by DeleteChars and ClearAll
// when the call omits one.
func WithDeleteDelay(d time.Duration) Option {
	return func(s *Sequencer) {
		s.deleteDelay = sanitize(d)
	}
}

// WithWaitDuration sets the duration used by Wait when the call omits one.
func WithWaitDuration(d time.Duration) Option {
	return func(s *Sequencer) {
		s.waitDuration = sanitize(d)
	}
}

// WithClock replaces the wall clock. Tests pass testutil.ManualClock.
func WithClock(c Clock) Option {
	return func(s *Sequencer) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithObserver registers an observer for lifecycle events.
func WithObserver(o Observer) Option {
	return func(s *Sequencer) {
		s.observer = o
	}
}

// WithLogger sets the logger for lifecycle debug logs.
// Default: slog.Default()
func WithLogger(l *slog.Logger) Option {
	return func(s *Sequencer) {
		if l != nil {
			s.logger = l
		}
	}
}

// pick returns the first optional duration, or def when none was passed.
func pick(ds []time.Duration, def time.Duration) time.Duration {
	if len(ds) == 0 {
		return def
	}
	return sanitize(ds[0])
}
