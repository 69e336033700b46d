// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/altrium-foundation/altrium/lib/credential"
	"github.com/altrium-foundation/altrium/lib/identity"
)

// TokenSource supplies the current access token and performs token
// renewal. Implemented by the session store; a Session never holds
// tokens itself, so a renewal performed through any Session is visible
// to all of them.
type TokenSource interface {
	// AccessToken returns the current access token, or "" when the
	// session is anonymous.
	AccessToken() string

	// Refresh renews the token pair. staleToken is the access token
	// the failing request carried: implementations use it to collapse
	// concurrent renewal attempts into one network call — if the
	// current token already differs from staleToken, another caller's
	// renewal has completed and Refresh returns nil immediately.
	Refresh(ctx context.Context, staleToken string) error
}

// Session is an authenticated view of the Altrium API. It wraps a
// Client with a TokenSource and carries the retry-once renewal logic
// that makes token expiry transparent to callers.
//
// Sessions are lightweight and safe for concurrent use.
type Session struct {
	client *Client
	tokens TokenSource
}

// NewSession creates an authenticated session over client.
func NewSession(client *Client, tokens TokenSource) *Session {
	return &Session{client: client, tokens: tokens}
}

// do performs one logical authenticated request. On a 401 it renews
// the token pair through the TokenSource and replays the request once
// with the new token. The retried state is a local of this call — a
// logical request is replayed at most once, never recursively, even
// when the replay itself yields 401.
//
// On renewal failure the original 401 propagates unmodified; the
// TokenSource has already torn the session down, and reacting to that
// (showing a login screen) is the front end's job, not this layer's.
// Non-401 failures are returned as-is and never retried.
func (s *Session) do(ctx context.Context, method, path string, requestBody any, query ...url.Values) ([]byte, error) {
	staleToken := s.tokens.AccessToken()
	body, err := s.client.doRequest(ctx, method, path, staleToken, requestBody, query...)
	if !hasStatus(err, http.StatusUnauthorized) {
		return body, err
	}

	if refreshErr := s.tokens.Refresh(ctx, staleToken); refreshErr != nil {
		s.client.logger.Debug("token renewal failed", "error", refreshErr)
		return body, err
	}
	return s.client.doRequest(ctx, method, path, s.tokens.AccessToken(), requestBody, query...)
}

// Me fetches the authenticated user's profile.
func (s *Session) Me(ctx context.Context) (identity.User, error) {
	body, err := s.do(ctx, http.MethodGet, "/users/me", nil)
	if err != nil {
		return identity.User{}, fmt.Errorf("api: fetching current user: %w", err)
	}
	var user identity.User
	if err := json.Unmarshal(body, &user); err != nil {
		return identity.User{}, fmt.Errorf("api: failed to parse user: %w", err)
	}
	return user, nil
}

// Users lists all accounts. Admin only; other roles receive 403.
func (s *Session) Users(ctx context.Context) ([]identity.User, error) {
	body, err := s.do(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		return nil, fmt.Errorf("api: listing users: %w", err)
	}
	var users []identity.User
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("api: failed to parse user list: %w", err)
	}
	return users, nil
}

// Credentials fetches the caller's visible credential collection: the
// full collection for admins and employers, the owned subset for
// students. The server scopes the result; the client never filters
// visibility locally.
func (s *Session) Credentials(ctx context.Context) ([]credential.Credential, error) {
	body, err := s.do(ctx, http.MethodGet, "/credentials", nil)
	if err != nil {
		return nil, fmt.Errorf("api: listing credentials: %w", err)
	}
	var records []credential.Credential
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("api: failed to parse credential list: %w", err)
	}
	return records, nil
}

// Credential fetches a single record by ID. 404 (IsNotFound) for a
// missing record, 403 for a student reading someone else's record.
func (s *Session) Credential(ctx context.Context, id uuid.UUID) (credential.Credential, error) {
	body, err := s.do(ctx, http.MethodGet, "/credentials/"+id.String(), nil)
	if err != nil {
		return credential.Credential{}, fmt.Errorf("api: fetching credential %s: %w", id, err)
	}
	var record credential.Credential
	if err := json.Unmarshal(body, &record); err != nil {
		return credential.Credential{}, fmt.Errorf("api: failed to parse credential: %w", err)
	}
	return record, nil
}

// CreateCredential issues a new credential for a student. Admin only.
// The record always starts PENDING; the server assigns ID, issuer, and
// timestamps.
func (s *Session) CreateCredential(ctx context.Context, request credential.NewRequest) (credential.Credential, error) {
	if err := request.Validate(); err != nil {
		return credential.Credential{}, err
	}
	body, err := s.do(ctx, http.MethodPost, "/credentials", request)
	if err != nil {
		return credential.Credential{}, fmt.Errorf("api: creating credential: %w", err)
	}
	var record credential.Credential
	if err := json.Unmarshal(body, &record); err != nil {
		return credential.Credential{}, fmt.Errorf("api: failed to parse created credential: %w", err)
	}
	return record, nil
}

// SetCredentialStatus adjudicates a PENDING record to APPROVED or
// REJECTED. Admin only. The target must be a terminal status — PENDING
// is not a valid target, and the server additionally rejects
// transitions out of terminal states.
func (s *Session) SetCredentialStatus(ctx context.Context, id uuid.UUID, target credential.Status) (credential.Credential, error) {
	if !credential.StatusPending.CanTransitionTo(target) {
		return credential.Credential{}, fmt.Errorf("api: %s is not a valid adjudication target", target)
	}
	body, err := s.do(ctx, http.MethodPatch, "/credentials/"+id.String()+"/status", statusRequest{
		Status: target.String(),
	})
	if err != nil {
		return credential.Credential{}, fmt.Errorf("api: updating credential %s status: %w", id, err)
	}
	var record credential.Credential
	if err := json.Unmarshal(body, &record); err != nil {
		return credential.Credential{}, fmt.Errorf("api: failed to parse updated credential: %w", err)
	}
	return record, nil
}

// DeleteCredential removes a record. Admin only; 404 for a record
// already gone.
func (s *Session) DeleteCredential(ctx context.Context, id uuid.UUID) error {
	if _, err := s.do(ctx, http.MethodDelete, "/credentials/"+id.String(), nil); err != nil {
		return fmt.Errorf("api: deleting credential %s: %w", id, err)
	}
	return nil
}
