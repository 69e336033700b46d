// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"

	"github.com/altrium-foundation/altrium/api"
)

// ErrorCategory classifies command errors so that scripts and
// automation can make programmatic decisions (retry, fix input,
// escalate) without parsing error message text.
type ErrorCategory string

const (
	// CategoryValidation indicates the caller provided invalid input:
	// missing required arguments, wrong argument count, unparseable
	// values. The caller should fix the input and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound indicates a referenced resource does not exist:
	// unknown credential ID, unknown user. Retrying with the same
	// parameters will not help.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryForbidden indicates the caller's role does not permit
	// the requested operation.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryAuth indicates there is no usable session: not logged
	// in, or the session has expired. The caller should log in again.
	CategoryAuth ErrorCategory = "auth"

	// CategoryTransient indicates a temporary failure: network error,
	// timeout, server unavailable. The caller should back off and retry.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal indicates an unexpected error: bugs, I/O
	// failures, parse errors on data the system produced. The caller
	// should report the error rather than retry.
	CategoryInternal ErrorCategory = "internal"
)

// ToolError is a categorized error returned by CLI commands.
//
// ToolError wraps an inner error, preserving the full error chain for
// debugging while adding category metadata. Use the category-specific
// constructors (Validation, NotFound, etc.) rather than constructing
// ToolError directly.
type ToolError struct {
	// Category classifies the error for programmatic handling.
	Category ErrorCategory

	// Err is the underlying error with the human-readable message.
	Err error
}

// Error returns the underlying error message.
func (e *ToolError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error, allowing errors.Is and
// errors.As to walk the full chain through the ToolError wrapper.
func (e *ToolError) Unwrap() error { return e.Err }

// Validation creates a validation error: the caller provided bad input.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error: a referenced resource does not exist.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Forbidden creates a forbidden error: the caller lacks permission.
func Forbidden(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryForbidden, Err: fmt.Errorf(format, args...)}
}

// Auth creates an auth error: there is no usable session.
func Auth(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryAuth, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error: a temporary failure that may succeed on retry.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error: an unexpected failure, bug, or I/O error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// FromAPI categorizes an error returned by the platform client. The
// server's status code determines the category; errors with no status
// (connection refused, timeouts) are transient.
func FromAPI(err error, context string) *ToolError {
	category := CategoryInternal
	switch {
	case api.IsAuth(err):
		category = CategoryAuth
	case api.IsForbidden(err):
		category = CategoryForbidden
	case api.IsNotFound(err):
		category = CategoryNotFound
	case api.IsValidation(err):
		category = CategoryValidation
	case api.IsTransient(err):
		category = CategoryTransient
	}
	return &ToolError{Category: category, Err: fmt.Errorf("%s: %w", context, err)}
}
