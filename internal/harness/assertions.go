package harness

import (
	"fmt"
	"strings"

	"github.com/roach88/typewriter/internal/script"
)

// Expectation names used in failure messages.
const (
	ExpectFinalText = "final_text"
	ExpectMarks     = "marks"
	ExpectElapsed   = "elapsed"
)

// AssertionError describes one unmet expectation.
type AssertionError struct {
	Type     string  // Expectation name
	Expected string  // Human-readable expected outcome
	Actual   string  // Human-readable actual outcome
	Frames   []Frame // Frames for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Frames) > 0 {
		fmt.Fprintf(&buf, "\nFrames:\n")
		for i, f := range e.Frames {
			fmt.Fprintf(&buf, "  [%d] %8s %q\n", i+1, f.At, f.Text)
		}
	}

	return buf.String()
}

// EvaluateExpect checks expect against result and returns one message per
// unmet expectation. A nil expect always passes.
func EvaluateExpect(expect *script.Expect, result *Result) []string {
	if expect == nil {
		return nil
	}

	var failures []string
	if err := assertFinalText(expect, result); err != nil {
		failures = append(failures, err.Error())
	}
	if err := assertMarks(expect, result); err != nil {
		failures = append(failures, err.Error())
	}
	if err := assertElapsed(expect, result); err != nil {
		failures = append(failures, err.Error())
	}
	return failures
}

func assertFinalText(expect *script.Expect, result *Result) error {
	if expect.FinalText == nil || *expect.FinalText == result.FinalText {
		return nil
	}
	return &AssertionError{
		Type:     ExpectFinalText,
		Expected: fmt.Sprintf("%q", *expect.FinalText),
		Actual:   fmt.Sprintf("%q", result.FinalText),
		Frames:   result.Frames,
	}
}

// assertMarks requires the exact sequence; nil means unchecked, empty means
// no marks at all.
func assertMarks(expect *script.Expect, result *Result) error {
	if expect.Marks == nil {
		return nil
	}
	if equalStrings(expect.Marks, result.Marks) {
		return nil
	}
	return &AssertionError{
		Type:     ExpectMarks,
		Expected: fmt.Sprintf("%q", expect.Marks),
		Actual:   fmt.Sprintf("%q", result.Marks),
	}
}

func assertElapsed(expect *script.Expect, result *Result) error {
	if expect.Elapsed == nil || expect.Elapsed.Std() == result.Elapsed {
		return nil
	}
	return &AssertionError{
		Type:     ExpectElapsed,
		Expected: expect.Elapsed.String(),
		Actual:   result.Elapsed.String(),
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
