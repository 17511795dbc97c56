package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/typewriter/internal/harness"
	"github.com/roach88/typewriter/internal/script"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // script filter (glob pattern)
}

// ScriptResult holds the result of one script run.
type ScriptResult struct {
	Name    string   `json:"name"`
	Path    string   `json:"path"`
	Pass    bool     `json:"pass"`
	Elapsed string   `json:"elapsed,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scripts []ScriptResult `json:"scripts"`
	Passed  int            `json:"passed"`
	Failed  int            `json:"failed"`
	Total   int            `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scripts-dir>",
		Short: "Run scripts in virtual time and check expectations",
		Long: `Run every script under a directory in virtual time.

Each script's expect block (final_text, marks, elapsed) is checked. When
golden/<name>.golden exists next to a script, the run's trace must match it.

Exit codes:
  0 - All scripts passed
  1 - One or more scripts failed
  2 - Command error (invalid paths, etc.)

Examples:
  typewriter test ./scripts
  typewriter test ./scripts --filter "intro-*"
  typewriter test ./scripts --update
  typewriter test ./scripts --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scripts by glob pattern")

	return cmd
}

func runTests(opts *TestOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return formatter.fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("scripts directory not found: %s", dir), nil)
	}

	files, err := findScriptFiles(dir, opts.Filter)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeGeneric, "failed to find scripts", err)
	}

	result := TestResult{
		Scripts: make([]ScriptResult, 0, len(files)),
		Total:   len(files),
	}
	if len(files) == 0 {
		if formatter.JSON() {
			return formatter.Success(result)
		}
		formatter.Printf("No scripts found.\n")
		return nil
	}

	for _, file := range files {
		sr := runScript(file, opts, formatter)
		result.Scripts = append(result.Scripts, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	formatter.Printf("\nTest Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		msg := fmt.Sprintf("%d script(s) failed", result.Failed)
		_ = formatter.Failure(ErrCodeTestFailed, msg, result)
		return NewExitError(ExitFailure, msg)
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	formatter.Printf("✓ All scripts passed\n")
	return nil
}

// runScript loads, runs and checks one script.
func runScript(file string, opts *TestOptions, formatter *OutputFormatter) ScriptResult {
	fail := func(name string, errs ...string) ScriptResult {
		formatter.Printf("✗ %s\n", name)
		for _, e := range errs {
			formatter.Printf("  %s\n", strings.TrimRight(e, "\n"))
		}
		return ScriptResult{Name: name, Path: file, Pass: false, Errors: errs}
	}

	s, err := script.Load(file)
	if err != nil {
		return fail(filepath.Base(file), fmt.Sprintf("failed to load script: %v", err))
	}

	formatter.VerboseLog("Running %s (%s)", s.Name, file)
	result, err := harness.Run(s)
	if err != nil {
		return fail(s.Name, fmt.Sprintf("execution failed: %v", err))
	}

	snapshot, err := harness.MarshalSnapshot(harness.Snapshot(result))
	if err != nil {
		return fail(s.Name, fmt.Sprintf("failed to marshal trace: %v", err))
	}

	goldenPath := goldenFilePath(file)
	if opts.Update {
		if err := writeGoldenFile(goldenPath, snapshot); err != nil {
			return fail(s.Name, fmt.Sprintf("failed to update golden file: %v", err))
		}
		formatter.VerboseLog("Updated %s", goldenPath)
	} else if golden, err := os.ReadFile(goldenPath); err == nil {
		if !bytes.Equal(golden, snapshot) {
			return fail(s.Name, "trace does not match golden file (run with --update to regenerate)")
		}
	} else if !os.IsNotExist(err) {
		return fail(s.Name, fmt.Sprintf("failed to read golden file: %v", err))
	}

	if !result.Pass {
		return fail(s.Name, result.Failures...)
	}

	formatter.Printf("✓ %s (%s)\n", s.Name, result.Elapsed)
	return ScriptResult{Name: s.Name, Path: file, Pass: true, Elapsed: result.Elapsed.String()}
}

// goldenFilePath returns golden/<name>.golden next to the script.
func goldenFilePath(scriptFile string) string {
	dir := filepath.Dir(scriptFile)
	base := filepath.Base(scriptFile)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, "golden", name+".golden")
}

func writeGoldenFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}
