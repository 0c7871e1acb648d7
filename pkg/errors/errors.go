// Package errors provides structured error types for the artgraph engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (snapshots, gesture config)
//   - NOT_FOUND_*: Resource not found
//   - SIMULATION_*: Layout simulation failures
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidSnapshot, "relationship %s references unknown node %s", relID, nodeID)
//	if errors.Is(err, errors.ErrCodeInvalidSnapshot) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeRenderFailure, origErr, "render frame %d", frame)
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
	ErrCodeInvalidSnapshot     Code = "INVALID_SNAPSHOT"
	ErrCodeInvalidNodeType     Code = "INVALID_NODE_TYPE"
	ErrCodeInvalidRelationType Code = "INVALID_RELATIONSHIP_TYPE"
	ErrCodeMissingProperty     Code = "MISSING_PROPERTY"
	ErrCodeInvalidGestureConf  Code = "INVALID_GESTURE_CONFIG"
	ErrCodeInvalidLayoutConf   Code = "INVALID_LAYOUT_CONFIG"
	ErrCodeInvalidBounds       Code = "INVALID_BOUNDS"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeGraphNotFound Code = "GRAPH_NOT_FOUND"

	// Simulation errors
	ErrCodeSimulationTimeout Code = "SIMULATION_TIMEOUT"
	ErrCodeSuperseded        Code = "SUPERSEDED"

	// Collaborator errors
	ErrCodeRenderFailure Code = "RENDER_FAILURE"
	ErrCodeStoreFailure  Code = "STORE_FAILURE"

	// Lifecycle errors
	ErrCodeInternal  Code = "INTERNAL_ERROR"
	ErrCodeNotReady  Code = "NOT_READY"
	ErrCodeDestroyed Code = "DESTROYED"
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
		return e.Message
	}
	return err.Error()
}
