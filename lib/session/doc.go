// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

// Package session owns the client's authentication state: the durable
// token pair, the in-memory user profile, and the lifecycle
//
//	LOADING → AUTHENTICATED | ANONYMOUS
//
// The Store is the single writer of that state. Views never mutate it
// directly; they call Bootstrap, Login, Register, Logout, observe
// Snapshots, and let the api layer drive Refresh through the
// TokenSource contract. Failures inside Bootstrap and Refresh resolve
// to state transitions rather than errors escaping to the rendering
// layer — a session becoming invalid is a fact about state, and
// navigating to a login screen is the front end's separate reaction to
// observing it.
package session
