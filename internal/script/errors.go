package script

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes script errors.
type ErrorCode string

const (
	// ErrCodeRead indicates the script file could not be read.
	ErrCodeRead ErrorCode = "S001"

	// ErrCodeParse indicates malformed YAML or CUE, or an unknown field.
	ErrCodeParse ErrorCode = "S002"

	// ErrCodeSchema indicates a CUE script does not satisfy #Script.
	ErrCodeSchema ErrorCode = "S003"

	// ErrCodeMissingField indicates a required field is absent.
	ErrCodeMissingField ErrorCode = "S004"

	// ErrCodeInvalidStep indicates a step sets zero or several operations,
	// or sets an out-of-range value.
	ErrCodeInvalidStep ErrorCode = "S005"

	// ErrCodeUnsupported indicates an unrecognized file extension.
	ErrCodeUnsupported ErrorCode = "S006"
)

// Error is a script loading or validation failure.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Path is the location inside the script, e.g. "steps[2]".
	// Empty when the error concerns the whole file.
	Path string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err is a script error caused by the
// script content rather than by reading the file.
// Uses errors.As to handle wrapped errors.
func IsValidationError(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		return se.Code != ErrCodeRead
	}
	return false
}

// CodeOf returns the code of a script error, or "" for other errors.
func CodeOf(err error) ErrorCode {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

func stepError(code ErrorCode, path, format string, args ...any) *Error {
	return &Error{Code: code, Path: path, Message: fmt.Sprintf(format, args...)}
}
