// Package errors provides standardized domain errors with codes for tagpull.
//
// Usage:
//
//	// In components - return typed errors
//	if resp.StatusCode != http.StatusOK {
//	    return errors.Transportf("search page %d: status %d", page, resp.StatusCode)
//	}
//
//	// In callers - check with errors.Is
//	if errors.Is(err, errors.ErrTransport) {
//	    // skip this subset, keep going
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
	New    = errors.New
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeTransport     Code = "TRANSPORT"
	CodeConfiguration Code = "CONFIGURATION"
	CodeInvalidURL    Code = "INVALID_URL"
	CodeNotFound      Code = "NOT_FOUND"
	CodeInternal      Code = "INTERNAL"
)

// Error is a domain error with a code, a message, and an optional cause.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	cause   error  // unexported, for wrapping
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
	ErrTransport     = &Error{Code: CodeTransport, Message: "transport error"}
	ErrConfiguration = &Error{Code: CodeConfiguration, Message: "configuration error"}
	ErrInvalidURL    = &Error{Code: CodeInvalidURL, Message: "invalid url"}
	ErrNotFound      = &Error{Code: CodeNotFound, Message: "not found"}
	ErrInternal      = &Error{Code: CodeInternal, Message: "internal error"}
)

// Constructor functions for creating errors with custom messages.

// Transport creates a transport error.
func Transport(msg string) *Error {
	return &Error{Code: CodeTransport, Message: msg}
}

// Transportf creates a transport error with formatted message.
func Transportf(format string, args ...any) *Error {
	return &Error{Code: CodeTransport, Message: fmt.Sprintf(format, args...)}
}

// Configuration creates a configuration error.
func Configuration(msg string) *Error {
	return &Error{Code: CodeConfiguration, Message: msg}
}

// Configurationf creates a configuration error with formatted message.
func Configurationf(format string, args ...any) *Error {
	return &Error{Code: CodeConfiguration, Message: fmt.Sprintf(format, args...)}
}

// InvalidURL creates an invalid url error.
func InvalidURL(msg string) *Error {
	return &Error{Code: CodeInvalidURL, Message: msg}
}

// InvalidURLf creates an invalid url error with formatted message.
func InvalidURLf(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidURL, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error as an internal error with a message prefix.
// If err is already a domain *Error, it is returned unchanged.
func Wrap(err error, msg string) *Error {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &Error{Code: CodeInternal, Message: msg, cause: err}
}
