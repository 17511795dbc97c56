package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const failingScript = `name: failing
steps:
  - type: "abc"
    delay: 10ms
expect:
  final_text: "abd"
`

func TestTestCommandMissingArgs(t *testing.T) {
	_, _, err := execute(NewTestCommand(testRootOptions("text")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentDir(t *testing.T) {
	_, _, err := execute(NewTestCommand(testRootOptions("text")), "/nonexistent/scripts")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scripts directory not found")
}

func TestTestCommandEmptyDir(t *testing.T) {
	out, _, err := execute(NewTestCommand(testRootOptions("text")), t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scripts found.")
}

func TestTestCommandPassingScript(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "quick.yaml", quickScript)

	out, _, err := execute(NewTestCommand(testRootOptions("text")), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ quick (1ms)")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
	assert.Contains(t, out, "All scripts passed")
}

func TestTestCommandFailingScript(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "failing.yaml", failingScript)
	writeScript(t, dir, "quick.yaml", quickScript)

	out, _, err := execute(NewTestCommand(testRootOptions("text")), dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ failing")
	assert.Contains(t, out, "✓ quick")
	assert.Contains(t, out, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommandLoadError(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "broken.yaml", brokenScript)

	out, _, err := execute(NewTestCommand(testRootOptions("text")), dir)
	require.Error(t, err)
	assert.Contains(t, out, "✗ broken.yaml")
	assert.Contains(t, out, "failed to load script")
}

func TestTestCommandFilter(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "failing.yaml", failingScript)
	writeScript(t, dir, "quick.yaml", quickScript)

	out, _, err := execute(NewTestCommand(testRootOptions("text")), dir, "--filter", "qu*")
	require.NoError(t, err)
	assert.NotContains(t, out, "failing")
	assert.Contains(t, out, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommandUpdateWritesGolden(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "quick.yaml", quickScript)
	goldenPath := filepath.Join(dir, "golden", "quick.golden")

	_, _, err := execute(NewTestCommand(testRootOptions("text")), dir, "--update")
	require.NoError(t, err)

	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"script": "quick"`)
	assert.Contains(t, string(golden), `"final_text": "hi"`)

	// Second run compares against the file just written.
	out, _, err := execute(NewTestCommand(testRootOptions("text")), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ quick")
}

func TestTestCommandGoldenMismatch(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "quick.yaml", quickScript)
	writeScript(t, dir, "golden/quick.golden", "{}\n")

	out, _, err := execute(NewTestCommand(testRootOptions("text")), dir)
	require.Error(t, err)
	assert.Contains(t, out, "trace does not match golden file")
}

func TestTestCommandJSONOutput(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "failing.yaml", failingScript)
	writeScript(t, dir, "quick.yaml", quickScript)

	out, _, err := execute(NewTestCommand(testRootOptions("json")), dir)
	require.Error(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	assert.Equal(t, 1, resp.Data.Passed)
	assert.Equal(t, 1, resp.Data.Failed)
	require.Len(t, resp.Data.Scripts, 2)
	assert.Equal(t, "failing", resp.Data.Scripts[0].Name)
	assert.NotEmpty(t, resp.Data.Scripts[0].Errors)
	assert.True(t, resp.Data.Scripts[1].Pass)
	assert.Equal(t, "1ms", resp.Data.Scripts[1].Elapsed)
}
