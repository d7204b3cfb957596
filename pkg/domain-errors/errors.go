// Package domainerrors provides coded errors shared across features.
//
// Services and models return these so transport layers can translate them
// into HTTP responses without string matching. Store-level facts (not found,
// expired) live in pkg/platform/sentinel; this package is for validation and
// policy failures that carry a user-meaningful code.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies an error for transport mapping and tests.
type Code string

const (
	// CodeMissingInput: a required field was absent entirely.
	CodeMissingInput Code = "missing_input"
	// CodeInvalidInput: a field was present but unparseable or out of range.
	CodeInvalidInput Code = "invalid_input"
	// CodeValidation: request-level validation failed.
	CodeValidation Code = "validation_failed"
	// CodeUnderage: the submitted birth date does not satisfy the minimum age.
	CodeUnderage Code = "underage"
	// CodeBadRequest: malformed request body or parameters.
	CodeBadRequest Code = "bad_request"
	// CodeUnauthorized: missing or invalid credentials.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden: authenticated but not allowed.
	CodeForbidden Code = "forbidden"
	// CodeNotFound: the referenced entity does not exist.
	CodeNotFound Code = "not_found"
	// CodeConflict: the operation conflicts with current state.
	CodeConflict Code = "conflict"
	// CodeNotCompliant: the order violates a blocking delivery restriction.
	CodeNotCompliant Code = "not_compliant"
	// CodeInvariantViolation: a domain invariant would be broken.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeTimeout: the operation was cancelled by its deadline.
	CodeTimeout Code = "timeout"
	// CodeInternal: unexpected failure; details are not user-facing.
	CodeInternal Code = "internal_error"
)

// Error is a coded domain error. Message is safe to show to end users for
// every code except CodeInternal.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error with a user-facing message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted user-facing message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias for HasCode kept for call-site readability.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf extracts the code from err, defaulting to CodeInternal for uncoded
// errors so transports never leak raw failure details.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the user-facing message, empty for uncoded errors.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
