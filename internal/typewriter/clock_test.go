package typewriter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingClock struct {
	delays []time.Duration
}

func (c *recordingClock) AfterFunc(d time.Duration, f func()) func() bool {
	c.delays = append(c.delays, d)
	return func() bool { return false }
}

func TestScaledClock(t *testing.T) {
	base := &recordingClock{}

	ScaledClock{Base: base, Speed: 2}.AfterFunc(100*time.Millisecond, func() {})
	ScaledClock{Base: base, Speed: 0.5}.AfterFunc(100*time.Millisecond, func() {})
	ScaledClock{Base: base}.AfterFunc(100*time.Millisecond, func() {})

	assert.Equal(t, []time.Duration{
		50 * time.Millisecond,
		200 * time.Millisecond,
		100 * time.Millisecond,
	}, base.delays)
}

func TestSystemClock_Stop(t *testing.T) {
	fired := make(chan struct{})
	stop := SystemClock{}.AfterFunc(time.Hour, func() { close(fired) })

	assert.True(t, stop())
	assert.False(t, stop())
}
