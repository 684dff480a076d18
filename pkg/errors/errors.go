// Package errors provides structured error types for chartgeom.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the layout code
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Kinds
//
// The layout packages only ever return two kinds of error:
//
//   - [ErrCodeInvalidShape] (a shape error): the input violates a layout
//     precondition, such as a zero-sum value set or an unknown node id.
//     Validators are expected to catch these first.
//   - [ErrCodeLayout] (a layout error): the layout is impossible, such as a
//     container with non-positive width or height.
//
// Both are fatal. A layout call either returns complete geometry or fails.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidShape, "links[%d]: unknown source %q", i, id)
//	if errors.Is(err, errors.ErrCodeInvalidShape) {
//	    // reject the payload
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidShape  Code = "INVALID_SHAPE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidKind   Code = "INVALID_KIND"
	ErrCodeInvalidTheme  Code = "INVALID_THEME"

	// Layout errors
	ErrCodeLayout Code = "LAYOUT_ERROR"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// Shape returns an [ErrCodeInvalidShape] error.
func Shape(format string, args ...any) *Error {
	return New(ErrCodeInvalidShape, format, args...)
}

// Layout returns an [ErrCodeLayout] error.
func Layout(format string, args ...any) *Error {
	return New(ErrCodeLayout, format, args...)
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
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
	return err.Error()
}
