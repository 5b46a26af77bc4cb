// Package errors provides structured error types for webcollage.
//
// Error codes separate the failure categories of a collage run:
//   - INVALID_*: configuration or input validation failures, fatal before
//     any processing starts
//   - *_NOT_FOUND: missing files or directories
//   - COMPOSITOR_FAILED: one or more blocks could not be composited; the run
//     still wrote its index and metadata
//   - INTERNAL_ERROR: unexpected failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidGrid, "row size must be positive, got %d", n)
//	if errors.Is(err, errors.ErrCodeInvalidGrid) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidCatalog, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidCatalog Code = "INVALID_CATALOG"
	ErrCodeInvalidGrid    Code = "INVALID_GRID"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"
	ErrCodeDirNotFound  Code = "DIR_NOT_FOUND"

	// Compositor errors
	ErrCodeCompositorFailed Code = "COMPOSITOR_FAILED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or a *BlocksFailedError
// with a matching code.
func Is(err error, code Code) bool {
	return code != "" && GetCode(err) == code
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the chain holds no coded error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var bf *BlocksFailedError
	if errors.As(err, &bf) {
		return bf.Code()
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var bf *BlocksFailedError
	if errors.As(err, &bf) {
		return bf.Error()
	}
	return err.Error()
}

// BlocksFailedError reports the super-row blocks whose compositor invocation
// failed. Everything else in the run completed.
type BlocksFailedError struct {
	Blocks []int // Block indices, ascending
	Total  int   // Number of blocks in the run
}

// Error implements the error interface.
func (e *BlocksFailedError) Error() string {
	ids := make([]string, len(e.Blocks))
	for i, b := range e.Blocks {
		ids[i] = strconv.Itoa(b)
	}
	return fmt.Sprintf("%d of %d blocks failed: %s", len(e.Blocks), e.Total, strings.Join(ids, ", "))
}

// Code returns the error code for this error type.
func (e *BlocksFailedError) Code() Code {
	return ErrCodeCompositorFailed
}
