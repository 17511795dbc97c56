package typewriter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/typewriter/internal/testutil"
)

func TestTicker_FiresUntilFinished(t *testing.T) {
	clock := testutil.NewManualClock()
	ticks, finished := 0, 0

	tk := newTicker(clock, 10*time.Millisecond, func() bool {
		ticks++
		return ticks == 3
	}, func() { finished++ })
	tk.start()

	clock.Advance(25 * time.Millisecond)
	assert.Equal(t, 2, ticks)
	assert.Equal(t, 0, finished)

	clock.Advance(time.Second)
	assert.Equal(t, 3, ticks)
	assert.Equal(t, 1, finished)
	assert.Equal(t, 0, clock.Pending(), "no timer re-armed after finishing")
}

func TestTicker_StopPreventsTicksAndFinish(t *testing.T) {
	clock := testutil.NewManualClock()
	ticks, finished := 0, 0

	tk := newTicker(clock, 10*time.Millisecond, func() bool {
		ticks++
		return ticks == 5
	}, func() { finished++ })
	tk.start()

	clock.Advance(20 * time.Millisecond)
	tk.stop()
	tk.stop()

	clock.Advance(time.Second)
	assert.Equal(t, 2, ticks)
	assert.Equal(t, 0, finished)
	assert.Equal(t, 0, clock.Pending())
}

func TestTicker_StopBeforeStart(t *testing.T) {
	clock := testutil.NewManualClock()
	tk := newTicker(clock, time.Millisecond, func() bool { return true }, func() {
		t.Fatal("finish after stop")
	})

	tk.stop()
	tk.start()

	assert.Equal(t, 0, clock.Pending())
}

func TestTicker_StaleFireIgnored(t *testing.T) {
	// Stop cannot recall a timer that already fired; fire must re-check.
	clock := &leakyClock{}
	ticks := 0
	tk := newTicker(clock, time.Millisecond, func() bool {
		ticks++
		return false
	}, func() {})
	tk.start()
	tk.stop()

	clock.fireAll()
	assert.Equal(t, 0, ticks)
}
