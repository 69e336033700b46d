// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/altrium-foundation/altrium/lib/credential"
	"github.com/altrium-foundation/altrium/lib/identity"
)

// fakeBackend is an in-memory Altrium server covering the credential
// workflow: role-scoped listing, admin-only issue and adjudication,
// terminal-state enforcement.
type fakeBackend struct {
	mu      sync.Mutex
	users   map[string]identity.User // token → authenticated user
	records []credential.Credential
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{users: make(map[string]identity.User)}
}

func (b *fakeBackend) addUser(token string, role identity.Role) identity.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	user := identity.User{
		ID:        uuid.New(),
		Email:     strings.ToLower(string(role)) + "@example.edu",
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	b.users[token] = user
	return user
}

func (b *fakeBackend) handler(t *testing.T) http.Handler {
	writeJSON := func(writer http.ResponseWriter, status int, v any) {
		writer.WriteHeader(status)
		json.NewEncoder(writer).Encode(v)
	}
	fail := func(writer http.ResponseWriter, status int, detail string) {
		writeJSON(writer, status, map[string]string{"detail": detail})
	}

	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		token := strings.TrimPrefix(request.Header.Get("Authorization"), "Bearer ")
		caller, authenticated := b.users[token]
		if !authenticated {
			fail(writer, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		path := request.URL.Path
		switch {
		case path == "/users/me":
			writeJSON(writer, http.StatusOK, caller)

		case path == "/credentials" && request.Method == http.MethodGet:
			visible := b.records
			if caller.Role == identity.RoleStudent {
				visible = nil
				for _, record := range b.records {
					if record.IssuedToID == caller.ID {
						visible = append(visible, record)
					}
				}
			}
			writeJSON(writer, http.StatusOK, visible)

		case path == "/credentials" && request.Method == http.MethodPost:
			if caller.Role != identity.RoleAdmin {
				fail(writer, http.StatusForbidden, "Not authorized")
				return
			}
			var input credential.NewRequest
			if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
				fail(writer, http.StatusUnprocessableEntity, "invalid body")
				return
			}
			record := credential.Credential{
				ID:          uuid.New(),
				Title:       input.Title,
				Description: input.Description,
				Status:      credential.StatusPending,
				IssuedToID:  input.IssuedToID,
				IssuedByID:  caller.ID,
				CreatedAt:   time.Now().UTC(),
				UpdatedAt:   time.Now().UTC(),
			}
			b.records = append(b.records, record)
			writeJSON(writer, http.StatusOK, record)

		case strings.HasSuffix(path, "/status") && request.Method == http.MethodPatch:
			if caller.Role != identity.RoleAdmin {
				fail(writer, http.StatusForbidden, "Not authorized")
				return
			}
			id := strings.TrimSuffix(strings.TrimPrefix(path, "/credentials/"), "/status")
			var body struct {
				Status credential.Status `json:"status"`
			}
			if err := json.NewDecoder(request.Body).Decode(&body); err != nil {
				fail(writer, http.StatusUnprocessableEntity, "invalid body")
				return
			}
			for i := range b.records {
				if b.records[i].ID.String() != id {
					continue
				}
				if !b.records[i].Status.CanTransitionTo(body.Status) {
					fail(writer, http.StatusForbidden, "Credential is not pending")
					return
				}
				b.records[i].Status = body.Status
				b.records[i].UpdatedAt = time.Now().UTC()
				writeJSON(writer, http.StatusOK, b.records[i])
				return
			}
			fail(writer, http.StatusNotFound, "Credential not found")

		default:
			t.Errorf("unhandled request: %s %s", request.Method, path)
			fail(writer, http.StatusNotFound, "Not found")
		}
	})
}

// staticTokens is a TokenSource with a fixed token and no renewal.
type staticTokens string

func (s staticTokens) AccessToken() string                    { return string(s) }
func (s staticTokens) Refresh(context.Context, string) error { return nil }

func TestCredentialWorkflow(t *testing.T) {
	backend := newFakeBackend()
	backend.addUser("admin-token", identity.RoleAdmin)
	student := backend.addUser("student-token", identity.RoleStudent)
	backend.addUser("employer-token", identity.RoleEmployer)

	server := httptest.NewServer(backend.handler(t))
	defer server.Close()

	client := testClient(t, server.URL)
	admin := NewSession(client, staticTokens("admin-token"))
	studentSession := NewSession(client, staticTokens("student-token"))
	employer := NewSession(client, staticTokens("employer-token"))
	ctx := context.Background()

	// Admin issues a credential for the student; it starts PENDING.
	issued, err := admin.CreateCredential(ctx, credential.NewRequest{
		Title:      "BSc Computer Science",
		IssuedToID: student.ID,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if issued.Status != credential.StatusPending {
		t.Fatalf("new credential status = %s, want PENDING", issued.Status)
	}

	// Admin approves it.
	approved, err := admin.SetCredentialStatus(ctx, issued.ID, credential.StatusApproved)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != credential.StatusApproved {
		t.Fatalf("status = %s after approval", approved.Status)
	}

	// The student's fetched list shows exactly one APPROVED entry.
	mine, err := studentSession.Credentials(ctx)
	if err != nil {
		t.Fatalf("student list: %v", err)
	}
	if len(mine) != 1 || mine[0].Status != credential.StatusApproved {
		t.Fatalf("student sees %+v, want one APPROVED entry", mine)
	}

	// Employer aggregate counts reflect the approval.
	all, err := employer.Credentials(ctx)
	if err != nil {
		t.Fatalf("employer list: %v", err)
	}
	stats := credential.Tally(all)
	if stats.Total != 1 || stats.Approved != 1 || stats.Pending != 0 {
		t.Fatalf("employer stats = %+v", stats)
	}

	// A second adjudication of the same record is rejected server-side.
	if _, err := admin.SetCredentialStatus(ctx, issued.ID, credential.StatusRejected); !IsForbidden(err) {
		t.Fatalf("re-adjudication should be forbidden, got %v", err)
	}

	// And the client refuses PENDING as an adjudication target without
	// a network call.
	if _, err := admin.SetCredentialStatus(ctx, issued.ID, credential.StatusPending); err == nil {
		t.Fatal("PENDING must not be a valid adjudication target")
	}

	// Non-admin roles cannot issue.
	if _, err := employer.CreateCredential(ctx, credential.NewRequest{
		Title:      "Fake Degree",
		IssuedToID: student.ID,
	}); !IsForbidden(err) {
		t.Fatalf("employer create should be forbidden, got %v", err)
	}
}
