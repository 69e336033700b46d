// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"github.com/altrium-foundation/altrium/lib/identity"
)

// TokenPair is the bearer credential pair issued by login and refresh.
// Both tokens are opaque to the client.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Empty reports whether no access token is present.
func (p TokenPair) Empty() bool { return p.AccessToken == "" }

// loginRequest is the POST /auth/login body.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the POST /auth/register body.
type RegisterRequest struct {
	Email    string        `json:"email"`
	Password string        `json:"password"`
	FullName string        `json:"full_name"`
	Role     identity.Role `json:"role"`
}

// refreshRequest is the POST /auth/refresh body.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// statusRequest is the PATCH /credentials/{id}/status body.
type statusRequest struct {
	Status string `json:"status"`
}
