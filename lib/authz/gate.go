// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

// Package authz decides whether the current session may enter a view.
//
// The gate is a pure function from a session snapshot and a view's
// role requirement to a decision. It performs no I/O and never
// mutates session state: ending a session and navigating away from a
// protected view are separate concerns, and the gate only ever does
// the latter.
package authz

import (
	"github.com/altrium-foundation/altrium/lib/identity"
	"github.com/altrium-foundation/altrium/lib/session"
)

// Decision is the gate's verdict for a view entry.
type Decision int

const (
	// DecisionPending means the session is still resolving. The caller
	// must render a neutral waiting state; redirecting now would bounce
	// users with valid persisted sessions through the login screen on
	// every start.
	DecisionPending Decision = iota
	// DecisionAllow admits the session to the view.
	DecisionAllow
	// DecisionRedirect denies entry and names the route to go to
	// instead.
	DecisionRedirect
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionRedirect:
		return "redirect"
	default:
		return "pending"
	}
}

// Result is a gate verdict. Target is set only for DecisionRedirect.
type Result struct {
	Decision Decision
	Target   string
}

// Routes the gate redirects to.
const (
	LoginRoute     = "/login"
	DashboardRoute = "/dashboard"
)

// Decide evaluates entry to a view. required is the role the view
// demands, or nil for views open to any authenticated user.
//
// An unresolved session is pending, never a redirect. An anonymous
// session is sent to the login screen. An authenticated session with
// the wrong role is sent to its own dashboard rather than login:
// logging in again would not change the answer.
func Decide(snapshot session.Snapshot, required *identity.Role) Result {
	switch snapshot.Status {
	case session.StatusAuthenticated:
	case session.StatusAnonymous:
		return Result{Decision: DecisionRedirect, Target: LoginRoute}
	default:
		return Result{Decision: DecisionPending}
	}
	if required != nil && snapshot.User.Role != *required {
		return Result{Decision: DecisionRedirect, Target: DashboardRoute}
	}
	return Result{Decision: DecisionAllow}
}

// RequireRole is a convenience for building a view's role requirement.
func RequireRole(role identity.Role) *identity.Role { return &role }
