package typewriter

import "time"

// Clock schedules one-shot callbacks.
//
// AfterFunc arranges for f to run after d and returns a stop func with the
// semantics of time.Timer.Stop: it reports whether the call prevented f from
// running. Callbacks may run on any goroutine.
type Clock interface {
	AfterFunc(d time.Duration, f func()) (stop func() bool)
}

// SystemClock is the wall-clock Clock backed by time.AfterFunc.
type SystemClock struct{}

// AfterFunc implements Clock.
func (SystemClock) AfterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// ScaledClock runs a base Clock at Speed times normal rate: a Speed of 2
// halves every delay. A Speed of zero or less is treated as 1.
type ScaledClock struct {
	Base  Clock
	Speed float64
}

// AfterFunc implements Clock.
func (c ScaledClock) AfterFunc(d time.Duration, f func()) func() bool {
	base := c.Base
	if base == nil {
		base = SystemClock{}
	}
	if c.Speed > 0 && c.Speed != 1 {
		d = time.Duration(float64(d) / c.Speed)
	}
	return base.AfterFunc(d, f)
}
