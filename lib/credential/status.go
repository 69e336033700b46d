// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Status is the approval state of a credential. Records are created
// PENDING and move exactly once, to either APPROVED or REJECTED. Both
// of those are terminal: no transition leaves them.
type Status string

const (
	// StatusPending means the record awaits an administrator decision.
	StatusPending Status = "PENDING"
	// StatusApproved is terminal.
	StatusApproved Status = "APPROVED"
	// StatusRejected is terminal.
	StatusRejected Status = "REJECTED"
)

// Statuses lists all statuses in workflow order.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected}

// ParseStatus converts a wire or CLI string into a Status. Matching
// is case-insensitive so CLI flags can use lowercase.
func ParseStatus(s string) (Status, error) {
	switch status := Status(strings.ToUpper(s)); status {
	case StatusPending, StatusApproved, StatusRejected:
		return status, nil
	}
	return "", fmt.Errorf("credential: unknown status %q (valid: PENDING, APPROVED, REJECTED)", s)
}

// String returns the wire name.
func (s Status) String() string { return string(s) }

// Terminal reports whether s admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransitionTo reports whether moving from s to target is a legal
// workflow step. Only PENDING→APPROVED and PENDING→REJECTED are legal;
// in particular a status never transitions to itself.
func (s Status) CanTransitionTo(target Status) bool {
	if s != StatusPending {
		return false
	}
	return target == StatusApproved || target == StatusRejected
}

// UnmarshalJSON enforces the closed set on decode.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
