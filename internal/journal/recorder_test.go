package journal

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/typewriter/internal/testutil"
	"github.com/roach88/typewriter/internal/textsink"
	"github.com/roach88/typewriter/internal/typewriter"
)

func TestRecorder_RecordsSequencerEvents(t *testing.T) {
	clock := testutil.NewManualClock()
	rec := NewRecorder("run-1", testutil.NewDeterministicClock(), clock.Now)
	seq := typewriter.New(textsink.NewBuffer(""),
		typewriter.WithClock(clock),
		typewriter.WithObserver(rec),
	)

	seq.TypeText("Hi", 10*time.Millisecond).Trigger(func() { rec.Mark("typed") }).Run()
	clock.RunUntilIdle(10)

	var kinds []string
	for _, e := range rec.Entries() {
		assert.Equal(t, "run-1", e.RunID)
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []string{
		"started", "tick", "tick", "completed",
		"started", KindMark, "completed",
		"idle",
	}, kinds)

	entries := rec.Entries()
	assert.Equal(t, int64(1), entries[0].Seq)
	assert.Equal(t, "type", entries[0].Action)
	assert.Equal(t, "H", entries[1].Text)
	assert.Equal(t, "Hi", entries[2].Text)
	assert.Equal(t, 10*time.Millisecond, entries[2].At)
	assert.Equal(t, "typed", entries[5].Mark)
	assert.Equal(t, "", entries[7].Action, "idle has no action")
}

func TestRecorder_RecordsCancel(t *testing.T) {
	clock := testutil.NewManualClock()
	rec := NewRecorder("run-1", NewClock(), clock.Now)
	seq := typewriter.New(textsink.NewBuffer(""),
		typewriter.WithClock(clock),
		typewriter.WithObserver(rec),
	)

	seq.TypeText("Hello", 10*time.Millisecond).Wait(time.Second).Wait(time.Second).Run()
	seq.Cancel(true)

	entries := rec.Entries()
	last := entries[len(entries)-1]
	assert.Equal(t, "canceled", last.Kind)
	assert.Equal(t, "type", last.Action)
	assert.Equal(t, uint64(1), last.Index)
	assert.Equal(t, 2, last.Dropped)
}

func TestRecorder_FlushWritesOnlyNewEntries(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.BeginRun(ctx, "run-1", "test", time.Now()))

	rec := NewRecorder("run-1", NewClock(), func() time.Duration { return 0 })
	rec.Mark("a")
	require.NoError(t, rec.Flush(ctx, s))
	rec.Mark("b")
	require.NoError(t, rec.Flush(ctx, s))
	require.NoError(t, rec.Flush(ctx, s))

	_, entries, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].Mark)
	assert.Equal(t, "b", entries[1].Mark)
}

func TestRecorder_FlushFailureKeepsEntries(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := NewRecorder("run-1", NewClock(), func() time.Duration { return 0 })
	rec.Mark("a")
	require.Error(t, rec.Flush(ctx, s), "run not begun")

	require.NoError(t, s.BeginRun(ctx, "run-1", "test", time.Now()))
	require.NoError(t, rec.Flush(ctx, s))

	_, entries, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRecorder_ConcurrentSeqMatchesOrder(t *testing.T) {
	rec := NewRecorder("run-1", NewClock(), func() time.Duration { return 0 })

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				rec.Mark("m")
			}
		}()
	}
	wg.Wait()

	entries := rec.Entries()
	require.Len(t, entries, 1000)
	for i, e := range entries {
		assert.Equal(t, int64(i+1), e.Seq)
	}
}

func TestClock(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())
}

func TestUUIDv7Generator(t *testing.T) {
	g := UUIDv7Generator{}
	a, b := g.Generate(), g.Generate()

	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
	assert.Equal(t, "7", string(a[14]), "version nibble")
	assert.Less(t, a, b, "time-ordered")
}
