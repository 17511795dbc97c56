package cli

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/typewriter/internal/journal"
	"github.com/roach88/typewriter/internal/testutil"
)

func TestPlayWritesToTerminal(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "quick.yaml", quickScript)

	out, _, err := execute(NewPlayCommand(testRootOptions("text")), path)
	require.NoError(t, err)
	assert.Equal(t, "hi\n", out)
}

func TestPlayJSONSendsAnimationToStderr(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "quick.yaml", quickScript)

	out, errOut, err := execute(NewPlayCommand(testRootOptions("json")), path, "--speed", "4")
	require.NoError(t, err)
	assert.Contains(t, errOut, "hi")

	var resp struct {
		Status string     `json:"status"`
		Data   PlayResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "quick", resp.Data.Script)
	assert.Equal(t, journal.StatusCompleted, resp.Data.Status)
	assert.Equal(t, "hi", resp.Data.FinalText)
	assert.Empty(t, resp.Data.RunID)
}

func TestPlayJournalsRun(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "quick.yaml", quickScript)
	dbPath := filepath.Join(dir, "journal.db")

	opts := &PlayOptions{RootOptions: testRootOptions("text"), RunIDs: testutil.NewFixedRunIDGenerator("run-1")}
	_, _, err := execute(newPlayCommand(opts), path, "--db", dbPath)
	require.NoError(t, err)

	st, err := journal.Open(dbPath)
	require.NoError(t, err)
	defer st.Close()

	run, entries, err := st.ReadRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "quick", run.Script)
	assert.Equal(t, journal.StatusCompleted, run.Status)
	assert.Equal(t, "hi", run.FinalText)
	assert.False(t, run.FinishedAt.IsZero())

	var marks []string
	for _, e := range entries {
		if e.Kind == journal.KindMark {
			marks = append(marks, e.Mark)
		}
	}
	assert.Equal(t, []string{"typed"}, marks)
	assert.Equal(t, "started", entries[0].Kind)
}

func TestPlayCanceledByContext(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "slow.yaml", slowScript)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := NewPlayCommand(testRootOptions("text"))
	cmd.SetContext(ctx)
	out, _, err := execute(cmd, path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "playback canceled")
	assert.Equal(t, "a\n", out)
}

func TestPlayMissingScript(t *testing.T) {
	_, _, err := execute(NewPlayCommand(testRootOptions("text")), "/nonexistent/intro.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "script not found")
}

func TestPlayInvalidScript(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "broken.yaml", brokenScript)

	_, _, err := execute(NewPlayCommand(testRootOptions("text")), path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeInvalidScript)
}

func TestPlayRejectsNonPositiveSpeed(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "quick.yaml", quickScript)

	_, _, err := execute(NewPlayCommand(testRootOptions("text")), path, "--speed", "0")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "speed must be positive")
}
