// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error is a structured error response from the Altrium server.
// Callers use errors.As to extract it:
//
//	var apiErr *api.Error
//	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound { ... }
//
// or one of the category helpers (IsAuth, IsValidation, IsNotFound,
// IsForbidden) which map onto the client's error taxonomy.
type Error struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int
	// Detail is the human-readable message from the server's
	// {"detail": ...} error body.
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("altrium: %d: %s", e.StatusCode, e.Detail)
}

// errorFromResponse builds an *Error from a non-2xx response body.
// The server wraps every error in {"detail": ...}; detail is usually a
// string but input validation failures carry a structured list, which
// is preserved verbatim for inline display.
func errorFromResponse(statusCode int, body []byte) *Error {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	apiErr := &Error{StatusCode: statusCode}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		apiErr.Detail = http.StatusText(statusCode)
		return apiErr
	}
	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err != nil {
		detail = string(envelope.Detail)
	}
	apiErr.Detail = detail
	return apiErr
}

// IsAuth reports whether err is a 401 from the server: bad credentials
// or an expired/invalid token. Terminal for the session.
func IsAuth(err error) bool { return hasStatus(err, http.StatusUnauthorized) }

// IsForbidden reports whether err is a 403: the authenticated role may
// not perform the operation.
func IsForbidden(err error) bool { return hasStatus(err, http.StatusForbidden) }

// IsNotFound reports whether err is a 404: a stale reference, e.g.
// acting on a credential already deleted elsewhere. Recoverable by
// refetching.
func IsNotFound(err error) bool { return hasStatus(err, http.StatusNotFound) }

// IsValidation reports whether err is a rejected-input error (400, 409,
// or 422). Recoverable: surfaced inline to the form that issued it.
func IsValidation(err error) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.StatusCode {
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return true
	}
	return false
}

// IsTransient reports whether err is a transport-level failure (DNS,
// connect, timeout) rather than a server verdict. Such failures may be
// retried manually by the user; the client never auto-retries them.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *Error
	return !errors.As(err, &apiErr)
}

func hasStatus(err error, statusCode int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == statusCode
}
