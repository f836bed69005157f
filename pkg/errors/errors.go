// Package errors provides structured error types for the flowsheet engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Configuration and input validation failures (fatal)
//   - NOT_*: Missing resources or unmet preconditions
//   - CALCULATION_*: Failures inside a unit calculation (recoverable during a solve)
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidPort, "port %q is not declared on unit %s", port, id)
//	if errors.Is(err, errors.ErrCodeInvalidPort) {
//	    // Handle wiring error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeCalculation, origErr, "unit %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidPort      Code = "INVALID_PORT"
	ErrCodeInvalidFractions Code = "INVALID_FRACTIONS"
	ErrCodeInvalidParameter Code = "INVALID_PARAMETER"
	ErrCodeInvalidOptions   Code = "INVALID_OPTIONS"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeCyclicDependency Code = "CYCLIC_DEPENDENCY"
	ErrCodeDuplicateID      Code = "DUPLICATE_ID"

	// Precondition and lookup errors
	ErrCodeNotReady       Code = "NOT_READY"
	ErrCodeNotFound       Code = "NOT_FOUND"
	ErrCodeUnitNotFound   Code = "UNIT_NOT_FOUND"
	ErrCodeStreamNotFound Code = "STREAM_NOT_FOUND"

	// Calculation errors
	ErrCodeCalculation Code = "CALCULATION_FAILED"

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
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}

// IsConfiguration reports whether err is a fatal configuration error:
// a wiring, parameter or graph-shape problem that must stop a solve.
func IsConfiguration(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidPort, ErrCodeInvalidFractions,
		ErrCodeInvalidParameter, ErrCodeInvalidOptions, ErrCodeCyclicDependency,
		ErrCodeDuplicateID:
		return true
	}
	return false
}
