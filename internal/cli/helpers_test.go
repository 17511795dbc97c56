package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/typewriter/internal/config"
)

const quickScript = `name: quick
steps:
  - type: "hi"
    delay: 1ms
  - mark: typed
expect:
  final_text: "hi"
  marks: [typed]
  elapsed: 1ms
`

const slowScript = `name: slow
steps:
  - type: "a"
  - wait: 10s
  - type: "b"
`

const brokenScript = `name: broken
steps:
  - type: "x"
    delete: 1
`

func testRootOptions(format string) *RootOptions {
	return &RootOptions{Format: format, Config: config.Default()}
}

// writeScript writes content to dir/name and returns the path.
func writeScript(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs cmd with args and returns stdout and stderr.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
