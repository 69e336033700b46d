// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiresWithin reports whether token is a JWT whose exp claim
// falls within window of now. The platform mints JWT access tokens, so
// a client that can read exp skips a round trip it knows will 401.
//
// This is an optimization only: the signature is never verified here
// (the client has no key and no business checking it), and a token
// that is opaque, unparseable, or missing exp reports false and takes
// the ordinary 401-renewal path. Correctness never depends on this
// function.
func tokenExpiresWithin(token string, window time.Duration, now time.Time) bool {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return false
	}
	return expiry.Time.Before(now.Add(window))
}
