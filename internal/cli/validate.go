package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/typewriter/internal/script"
)

// FileValidation is the validation outcome of one script file.
type FileValidation struct {
	Path    string `json:"path"`
	Name    string `json:"name,omitempty"`
	Valid   bool   `json:"valid"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Steps   int    `json:"steps,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <path>...",
		Short: "Validate scripts without playing them",
		Long: `Validate YAML and CUE scripts without playing them.

Each path is a script file or a directory searched recursively for
.yaml, .yml and .cue files. Checks syntax, unknown fields, the CUE schema
and step structure.

Exit codes:
  0 - All scripts valid
  1 - One or more scripts invalid
  2 - Command error (missing path, no scripts found)`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	files, err := expandPaths(paths)
	if err != nil {
		return formatter.fail(ExitCommandError, ErrCodeNotFound, err.Error(), nil)
	}
	if len(files) == 0 {
		return formatter.fail(ExitCommandError, ErrCodeNoScripts, fmt.Sprintf("no script files found in %v", paths), nil)
	}

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(files))}
	for _, path := range files {
		formatter.VerboseLog("Validating %s", path)
		fv := validateFile(path)
		if !fv.Valid {
			result.Valid = false
		}
		result.Files = append(result.Files, fv)
	}

	invalid := 0
	for _, fv := range result.Files {
		if fv.Valid {
			formatter.Printf("✓ %s\n", fv.Path)
			continue
		}
		invalid++
		formatter.Printf("✗ %s\n  %s: %s\n", fv.Path, fv.Code, fv.Message)
	}

	if invalid > 0 {
		msg := fmt.Sprintf("validation failed with %d invalid script(s)", invalid)
		_ = formatter.Failure(ErrCodeInvalidScript, msg, result)
		return NewExitError(ExitFailure, msg)
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	formatter.Printf("✓ All scripts valid\n")
	return nil
}

func validateFile(path string) FileValidation {
	s, err := script.Load(path)
	if err == nil {
		return FileValidation{Path: path, Name: s.Name, Valid: true, Steps: len(s.Steps)}
	}

	fv := FileValidation{Path: path, Code: ErrCodeGeneric, Message: err.Error()}
	var se *script.Error
	if errors.As(err, &se) {
		fv.Code = string(se.Code)
		fv.Message = se.Message
		if se.Path != "" {
			fv.Message = se.Path + ": " + se.Message
		}
	}
	return fv
}
