// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/altrium-foundation/altrium/lib/identity"
)

// Credential is an issued, time-stamped achievement record. Authored by
// an administrator, targeted at exactly one student, readable by every
// employer and by the owning student.
type Credential struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      Status    `json:"status"`
	IssuedToID  uuid.UUID `json:"issued_to_id"`
	IssuedByID  uuid.UUID `json:"issued_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewRequest is the client-side input for issuing a credential.
type NewRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	IssuedToID  uuid.UUID `json:"issued_to_id"`
}

// Validate checks the request before it leaves the client. The server
// validates again; this exists so forms can reject obviously bad input
// without a round trip.
func (r NewRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("credential: title is required")
	}
	if r.IssuedToID == uuid.Nil {
		return fmt.Errorf("credential: issued_to student is required")
	}
	return nil
}

// CanIssue reports whether role may create credentials.
func CanIssue(role identity.Role) bool {
	return role == identity.RoleAdmin
}

// CanAdjudicate reports whether role may approve or reject a record in
// the given status. Views use this to avoid offering approve/reject
// actions on terminal records at all, rather than letting the server
// reject the attempt.
func CanAdjudicate(role identity.Role, status Status) bool {
	return role == identity.RoleAdmin && status == StatusPending
}
