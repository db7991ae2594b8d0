// Package errors provides standardized domain errors with codes for the collector.
//
// Usage:
//
//	// In the normalizer - return typed errors
//	if priceFlag > 2 {
//	    return errors.Configf("price_flag must be 0 (no), 1 (free only), or 2 (paid only)")
//	}
//
//	// In callers - check with errors.Is
//	if errors.Is(err, errors.ErrConfig) {
//	    fmt.Fprintln(os.Stderr, err)
//	    os.Exit(2)
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeConfig     Code = "CONFIG"
	CodeNotFound   Code = "NOT_FOUND"
	CodeFetchItem  Code = "FETCH_ITEM"
	CodeValidation Code = "VALIDATION"
	CodeInternal   Code = "INTERNAL"
)

// Error is a domain error with a code, message, and optional cause.
type Error struct {
	Code    Code              `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitzero"`
	cause   error             // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrConfig     = &Error{Code: CodeConfig, Message: "invalid configuration"}
	ErrNotFound   = &Error{Code: CodeNotFound, Message: "not found"}
	ErrFetchItem  = &Error{Code: CodeFetchItem, Message: "item fetch failed"}
	ErrValidation = &Error{Code: CodeValidation, Message: "validation error"}
	ErrInternal   = &Error{Code: CodeInternal, Message: "internal error"}
)

// Constructor functions for creating errors with custom messages.

// Config creates a configuration error. Config errors are always surfaced
// to the caller before a scan begins and are never recovered.
func Config(msg string) *Error {
	return &Error{Code: CodeConfig, Message: msg}
}

// Configf creates a configuration error with formatted message.
func Configf(format string, args ...any) *Error {
	return &Error{Code: CodeConfig, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// FetchItem creates a per-item fetch error. These are recovered by skipping
// the item; they never abort a scan.
func FetchItem(msg string) *Error {
	return &Error{Code: CodeFetchItem, Message: msg}
}

// FetchItemf creates a per-item fetch error with formatted message.
func FetchItemf(format string, args ...any) *Error {
	return &Error{Code: CodeFetchItem, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// ValidationWithDetails creates a validation error with per-field messages.
func ValidationWithDetails(msg string, details map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
