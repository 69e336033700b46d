// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

// Package credential models the credential record and its approval
// workflow: the status state machine, pure snapshot filtering and
// aggregation, and the role capability checks that decide which
// workflow actions a view may offer.
//
// Everything in this package is pure computation over already-fetched
// data. Fetching and mutating records is the api package's job; this
// package only answers "what is legal" and "how does this snapshot
// partition". The server independently enforces the same rules — the
// client checks exist to disable impossible actions up front, not to
// replace server authority.
package credential
