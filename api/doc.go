// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

// Package api is the HTTP client for the Altrium credential platform.
//
// Two layers:
//
//   - Client: the unauthenticated pipeline. One base URL, one
//     *http.Client, one doRequest path that encodes JSON, attaches a
//     bearer token when given one, bounds response reads, and converts
//     non-2xx responses into typed *Error values.
//   - Session: the authenticated wrapper. It pulls the current access
//     token from a TokenSource before every request, and on a 401
//     performs exactly one token renewal through the TokenSource and
//     one replay of the request. All role views share one Session, so
//     the renewal is transparent to every caller.
//
// The package performs no navigation and owns no durable state: when
// renewal fails the TokenSource (the session store) has already
// transitioned to anonymous, and the caller's original authorization
// failure propagates for the front end to react to.
package api
