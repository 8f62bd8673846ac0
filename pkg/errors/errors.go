// Package errors provides structured error types for cargoquery.
//
// Every failure surfaced by the index, query and resolver packages is an
// [*Error] carrying a machine-readable [Code]. This lets the CLI and the HTTP
// server decide how to present a failure (exit status, HTTP status) without
// string matching, while the underlying cause stays reachable through
// errors.Is and errors.As.
//
// # Error Codes
//
//   - INVALID_*: the caller supplied something unusable (bad requirement, empty name)
//   - REQUEST, IO: the index could not be fetched or its body not read
//   - DESERIALIZE, EMPTY_INDEX: the index file could not be turned into a package
//   - SERIALIZE: output encoding failed
//   - NOT_FOUND: a requirement matched no release
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "no release matches %s", spec)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // Handle missing release
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRequest, origErr, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidVersion Code = "INVALID_VERSION"
	ErrCodeInvalidInput   Code = "INVALID_INPUT"

	// Transport errors
	ErrCodeRequest Code = "REQUEST"
	ErrCodeIO      Code = "IO"

	// Index and encoding errors
	ErrCodeDeserialize Code = "DESERIALIZE"
	ErrCodeSerialize   Code = "SERIALIZE"
	ErrCodeEmptyIndex  Code = "EMPTY_INDEX"

	// Resolution errors
	ErrCodeNotFound Code = "NOT_FOUND"

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
// It returns the code of the outermost *Error in the chain, so a REQUEST
// error wrapped by a later NOT_FOUND reports NOT_FOUND.
func Is(err error, code Code) bool {
	return GetCode(err) == code
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
// For *Error types, returns the message followed by the cause, without the
// code prefix. For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}
