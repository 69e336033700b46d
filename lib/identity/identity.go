// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

// Package identity defines the user profile and role types shared by the
// API client, the session store, and the view gate.
package identity

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of account categories on the platform. The wire
// representation is the upper-case name ("ADMIN", "STUDENT", "EMPLOYER").
//
// Code that branches on Role must switch exhaustively over the three
// constants so that adding a role surfaces every decision point.
type Role string

const (
	// RoleAdmin issues credentials and adjudicates their status.
	RoleAdmin Role = "ADMIN"
	// RoleStudent is the target of issued credentials and sees only
	// their own records.
	RoleStudent Role = "STUDENT"
	// RoleEmployer has read-only access to the full credential
	// collection for verification.
	RoleEmployer Role = "EMPLOYER"
)

// Roles lists all valid roles in display order.
var Roles = []Role{RoleAdmin, RoleStudent, RoleEmployer}

// ParseRole converts a wire or CLI string into a Role. Matching is
// case-insensitive so CLI flags can use lowercase.
func ParseRole(s string) (Role, error) {
	switch role := Role(strings.ToUpper(s)); role {
	case RoleAdmin, RoleStudent, RoleEmployer:
		return role, nil
	}
	return "", fmt.Errorf("identity: unknown role %q (valid: ADMIN, STUDENT, EMPLOYER)", s)
}

// Valid reports whether r is one of the three defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStudent, RoleEmployer:
		return true
	}
	return false
}

// String returns the wire name.
func (r Role) String() string { return string(r) }

// UnmarshalJSON enforces the closed set on decode. A server response
// carrying an unknown role is a contract violation and fails loudly
// rather than propagating an impossible value into role checks.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// User is the authenticated account profile returned by GET /users/me
// and GET /users.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName returns the full name when set, falling back to the email
// address. Used by CLI output and the dashboard header.
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Email
}
