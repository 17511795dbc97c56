package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/typewriter/internal/journal"
)

// seedJournal writes two runs; "run-b" is the latest and was canceled.
func seedJournal(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	st, err := journal.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	start := time.UnixMilli(1_700_000_000_000)
	require.NoError(t, st.BeginRun(ctx, "run-a", "first", start))
	require.NoError(t, st.WriteEvents(ctx, []journal.Entry{
		{RunID: "run-a", Seq: 1, Kind: "started", Action: "type", Index: 1},
		{RunID: "run-a", Seq: 2, Kind: "tick", Action: "type", Index: 1, Text: "a"},
		{RunID: "run-a", Seq: 3, Kind: "completed", Action: "type", Index: 1},
		{RunID: "run-a", Seq: 4, Kind: "idle"},
	}))
	require.NoError(t, st.FinishRun(ctx, "run-a", journal.StatusCompleted, "a", start.Add(time.Second)))

	require.NoError(t, st.BeginRun(ctx, "run-b", "second", start.Add(time.Minute)))
	require.NoError(t, st.WriteEvents(ctx, []journal.Entry{
		{RunID: "run-b", Seq: 1, Kind: "started", Action: "type", Index: 1},
		{RunID: "run-b", Seq: 2, Kind: "tick", Action: "type", Index: 1, Text: "H"},
		{RunID: "run-b", Seq: 3, At: 100 * time.Millisecond, Kind: "tick", Action: "type", Index: 1, Text: "He"},
		{RunID: "run-b", Seq: 4, At: 150 * time.Millisecond, Kind: "canceled", Action: "type", Index: 1, Dropped: 2},
		{RunID: "run-b", Seq: 5, At: 150 * time.Millisecond, Kind: journal.KindMark, Mark: "cut"},
		{RunID: "run-b", Seq: 6, At: 150 * time.Millisecond, Kind: "idle"},
	}))
	require.NoError(t, st.FinishRun(ctx, "run-b", journal.StatusCanceled, "He", start.Add(time.Minute+time.Second)))

	return dbPath
}

func TestTraceRequiresJournal(t *testing.T) {
	_, _, err := execute(NewTraceCommand(testRootOptions("text")))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no journal")
}

func TestTraceNonExistentDatabase(t *testing.T) {
	_, _, err := execute(NewTraceCommand(testRootOptions("text")), "--db", "/nonexistent/path/journal.db")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open journal")
}

func TestTraceListsRuns(t *testing.T) {
	dbPath := seedJournal(t)

	out, _, err := execute(NewTraceCommand(testRootOptions("text")), "--db", dbPath)
	require.NoError(t, err)
	assert.Regexp(t, `(?s)run-b\s+canceled.*second.*run-a\s+completed.*first`, out)
}

func TestTraceListsRunsEmptyJournal(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "journal.db")
	st, err := journal.Open(dbPath)
	require.NoError(t, err)
	st.Close()

	out, _, err := execute(NewTraceCommand(testRootOptions("text")), "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestTraceLatestText(t *testing.T) {
	dbPath := seedJournal(t)

	out, _, err := execute(NewTraceCommand(testRootOptions("text")), "--db", dbPath, "latest")
	require.NoError(t, err)
	assert.Contains(t, out, "Trace for Run: run-b")
	assert.Contains(t, out, "Status: canceled")
	assert.Contains(t, out, `Final Text: "He"`)
	assert.Contains(t, out, `TICK type "He"`)
	assert.Contains(t, out, "CANCEL type (dropped 2)")
	assert.Contains(t, out, "MARK cut")
	assert.Contains(t, out, "Canceled:     1 (2 dropped)")
	assert.Contains(t, out, "Duration:     150ms")
}

func TestTraceRunJSONWithKindFilter(t *testing.T) {
	dbPath := seedJournal(t)

	out, _, err := execute(NewTraceCommand(testRootOptions("json")), "--db", dbPath, "run-b", "--kind", "tick")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "run-b", resp.Data.Run.ID)

	require.Len(t, resp.Data.Timeline, 2)
	assert.Equal(t, "H", resp.Data.Timeline[0].Text)
	assert.Equal(t, int64(100), resp.Data.Timeline[1].AtMs)

	// Stats cover the whole run regardless of the filter.
	assert.Equal(t, 6, resp.Data.Stats.TotalEvents)
	assert.Equal(t, 1, resp.Data.Stats.Started)
	assert.Equal(t, 1, resp.Data.Stats.Canceled)
	assert.Equal(t, 1, resp.Data.Stats.Marks)
}

func TestTraceUnknownRun(t *testing.T) {
	dbPath := seedJournal(t)

	_, _, err := execute(NewTraceCommand(testRootOptions("text")), "--db", dbPath, "run-z")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeRunNotFound)
}

func TestTraceUsesConfiguredJournal(t *testing.T) {
	dbPath := seedJournal(t)
	opts := testRootOptions("text")
	opts.Config.Journal = dbPath

	out, _, err := execute(NewTraceCommand(opts), "run-a")
	require.NoError(t, err)
	assert.Contains(t, out, "Status: completed")
}
