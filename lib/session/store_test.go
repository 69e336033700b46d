// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/altrium-foundation/altrium/api"
	"github.com/altrium-foundation/altrium/lib/identity"
)

// fakeAuth is an in-memory authentication backend: one admin account,
// rotating token pairs, and counters for asserting how often each
// endpoint was hit.
type fakeAuth struct {
	t *testing.T

	mu           sync.Mutex
	email        string
	password     string
	validAccess  string
	validRefresh string
	counter      int
	loginCalls   int
	refreshCalls int
	meCalls      int
	sawTokens    []string

	// refreshGate, when non-nil, blocks renewal until rejectTarget
	// unauthorized /users/me requests have been served.
	refreshGate  chan struct{}
	rejectTarget int
	rejected     int
	gateOnce     sync.Once
}

func newFakeAuth(t *testing.T) *fakeAuth {
	return &fakeAuth{t: t, email: "admin@example.edu", password: "hunter2"}
}

// issue rotates the valid pair. Callers must hold mu.
func (f *fakeAuth) issue() api.TokenPair {
	f.counter++
	f.validAccess = fmt.Sprintf("acc-%d", f.counter)
	f.validRefresh = fmt.Sprintf("ref-%d", f.counter)
	return api.TokenPair{AccessToken: f.validAccess, RefreshToken: f.validRefresh}
}

func (f *fakeAuth) handler() http.Handler {
	writeJSON := func(writer http.ResponseWriter, status int, v any) {
		writer.WriteHeader(status)
		json.NewEncoder(writer).Encode(v)
	}
	fail := func(writer http.ResponseWriter, status int, detail string) {
		writeJSON(writer, status, map[string]string{"detail": detail})
	}

	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		switch request.URL.Path {
		case "/auth/login":
			var body struct{ Email, Password string }
			json.NewDecoder(request.Body).Decode(&body)
			f.mu.Lock()
			f.loginCalls++
			if body.Email != f.email || body.Password != f.password {
				f.mu.Unlock()
				fail(writer, http.StatusUnauthorized, "Invalid credentials")
				return
			}
			pair := f.issue()
			f.mu.Unlock()
			writeJSON(writer, http.StatusOK, pair)

		case "/auth/refresh":
			if f.refreshGate != nil {
				<-f.refreshGate
			}
			var body struct {
				RefreshToken string `json:"refresh_token"`
			}
			json.NewDecoder(request.Body).Decode(&body)
			f.mu.Lock()
			f.refreshCalls++
			if body.RefreshToken == "" || body.RefreshToken != f.validRefresh {
				f.mu.Unlock()
				fail(writer, http.StatusUnauthorized, "Invalid refresh token")
				return
			}
			pair := f.issue()
			f.mu.Unlock()
			writeJSON(writer, http.StatusOK, pair)

		case "/users/me":
			token := strings.TrimPrefix(request.Header.Get("Authorization"), "Bearer ")
			f.mu.Lock()
			f.meCalls++
			f.sawTokens = append(f.sawTokens, token)
			valid := token != "" && token == f.validAccess
			if !valid && f.refreshGate != nil {
				f.rejected++
				if f.rejected >= f.rejectTarget {
					f.gateOnce.Do(func() { close(f.refreshGate) })
				}
			}
			f.mu.Unlock()
			if !valid {
				fail(writer, http.StatusUnauthorized, "Could not validate credentials")
				return
			}
			writeJSON(writer, http.StatusOK, map[string]any{
				"id":         "7f9c24e5-2f1b-4c3a-9d6e-0a1b2c3d4e5f",
				"email":      f.email,
				"full_name":  "Site Admin",
				"role":       "ADMIN",
				"is_active":  true,
				"created_at": "2026-01-01T00:00:00Z",
			})

		case "/auth/register":
			var body struct{ Email, Password string }
			json.NewDecoder(request.Body).Decode(&body)
			if body.Email == f.email {
				fail(writer, http.StatusBadRequest, "Email already registered")
				return
			}
			f.mu.Lock()
			f.email = body.Email
			f.password = body.Password
			f.mu.Unlock()
			writeJSON(writer, http.StatusOK, map[string]any{
				"id":         "0a1b2c3d-4e5f-6789-abcd-ef0123456789",
				"email":      body.Email,
				"role":       "STUDENT",
				"is_active":  true,
				"created_at": "2026-01-01T00:00:00Z",
			})

		default:
			f.t.Errorf("unhandled request: %s %s", request.Method, request.URL.Path)
			fail(writer, http.StatusNotFound, "Not found")
		}
	})
}

// newTestStore wires a Store against backend with an in-memory token
// store.
func newTestStore(t *testing.T, backend *fakeAuth) (*Store, *MemoryTokenStore) {
	t.Helper()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	client, err := api.NewClient(api.ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	tokens := NewMemoryTokenStore()
	return New(client, StoreConfig{Tokens: tokens}), tokens
}

// checkInvariant asserts user != nil ⇔ status == AUTHENTICATED.
func checkInvariant(t *testing.T, snapshot Snapshot) {
	t.Helper()
	if (snapshot.User != nil) != (snapshot.Status == StatusAuthenticated) {
		t.Fatalf("invariant violated: status=%s user=%v", snapshot.Status, snapshot.User)
	}
}

func TestBootstrapWithoutTokenIsOffline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Error("bootstrap without a persisted token must not touch the network")
	}))
	defer server.Close()

	client, err := api.NewClient(api.ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	store := New(client, StoreConfig{})

	if got := store.Snapshot().Status; got != StatusLoading {
		t.Errorf("pre-bootstrap status = %s, want loading", got)
	}

	snapshot := store.Bootstrap(context.Background())
	if snapshot.Status != StatusAnonymous {
		t.Errorf("status = %s, want anonymous", snapshot.Status)
	}
	checkInvariant(t, snapshot)

	// Bootstrap runs once; a second call returns the resolved state.
	if again := store.Bootstrap(context.Background()); again.Status != StatusAnonymous {
		t.Errorf("second bootstrap status = %s", again.Status)
	}
}

func TestBootstrapWithValidToken(t *testing.T) {
	backend := newFakeAuth(t)
	store, tokens := newTestStore(t, backend)

	backend.mu.Lock()
	pair := backend.issue()
	backend.mu.Unlock()
	tokens.Save(pair)

	snapshot := store.Bootstrap(context.Background())
	if snapshot.Status != StatusAuthenticated {
		t.Fatalf("status = %s, want authenticated", snapshot.Status)
	}
	checkInvariant(t, snapshot)
	if snapshot.User.Role != identity.RoleAdmin {
		t.Errorf("role = %s", snapshot.User.Role)
	}
}

func TestBootstrapWithRejectedTokens(t *testing.T) {
	backend := newFakeAuth(t)
	store, tokens := newTestStore(t, backend)

	// Persisted pair the server no longer recognizes.
	tokens.Save(api.TokenPair{AccessToken: "stale-acc", RefreshToken: "stale-ref"})

	snapshot := store.Bootstrap(context.Background())
	if snapshot.Status != StatusAnonymous {
		t.Fatalf("status = %s, want anonymous", snapshot.Status)
	}
	checkInvariant(t, snapshot)

	// The unusable pair must be gone from durable storage.
	if pair, _ := tokens.Load(); !pair.Empty() {
		t.Errorf("rejected tokens were not cleared: %+v", pair)
	}
}

func TestBootstrapRenewsExpiredJWTUpFront(t *testing.T) {
	backend := newFakeAuth(t)
	store, tokens := newTestStore(t, backend)

	// The stored access token is a JWT that expired an hour ago; the
	// refresh token is still valid.
	backend.mu.Lock()
	backend.issue()
	expiredJWT := makeJWT(t, time.Now().Add(-time.Hour))
	validRefresh := backend.validRefresh
	backend.mu.Unlock()
	tokens.Save(api.TokenPair{AccessToken: expiredJWT, RefreshToken: validRefresh})

	snapshot := store.Bootstrap(context.Background())
	if snapshot.Status != StatusAuthenticated {
		t.Fatalf("status = %s, want authenticated", snapshot.Status)
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want 1", backend.refreshCalls)
	}
	for _, token := range backend.sawTokens {
		if token == expiredJWT {
			t.Error("known-expired access token was spent on a doomed request")
		}
	}
}

func TestLoginScenario(t *testing.T) {
	backend := newFakeAuth(t)
	store, tokens := newTestStore(t, backend)
	ctx := context.Background()

	if err := store.Login(ctx, "admin@example.edu", "hunter2"); err != nil {
		t.Fatalf("login: %v", err)
	}

	snapshot := store.Snapshot()
	checkInvariant(t, snapshot)
	if snapshot.Status != StatusAuthenticated {
		t.Fatalf("status = %s", snapshot.Status)
	}
	if snapshot.User.Role != identity.RoleAdmin {
		t.Errorf("role = %s", snapshot.User.Role)
	}

	pair, err := tokens.Load()
	if err != nil || pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Errorf("both tokens must be persisted, got %+v (%v)", pair, err)
	}
}

func TestLoginFailureLeavesSessionUntouched(t *testing.T) {
	backend := newFakeAuth(t)
	store, _ := newTestStore(t, backend)
	ctx := context.Background()

	if err := store.Login(ctx, "admin@example.edu", "hunter2"); err != nil {
		t.Fatalf("login: %v", err)
	}
	before := store.Snapshot()

	err := store.Login(ctx, "admin@example.edu", "wrong")
	if !api.IsAuth(err) {
		t.Fatalf("expected auth error, got %v", err)
	}

	after := store.Snapshot()
	checkInvariant(t, after)
	if after.Status != StatusAuthenticated || after.User.Email != before.User.Email {
		t.Errorf("failed login mutated session: %+v", after)
	}
}

func TestRegisterContinuesIntoLogin(t *testing.T) {
	backend := newFakeAuth(t)
	store, _ := newTestStore(t, backend)
	ctx := context.Background()

	err := store.Register(ctx, "new@example.edu", "pw", "New Student", identity.RoleStudent)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	snapshot := store.Snapshot()
	if snapshot.Status != StatusAuthenticated {
		t.Fatalf("status = %s after register", snapshot.Status)
	}
	checkInvariant(t, snapshot)
}

func TestRegisterDuplicateEmailHasNoSideEffects(t *testing.T) {
	backend := newFakeAuth(t)
	store, tokens := newTestStore(t, backend)

	err := store.Register(context.Background(), "admin@example.edu", "pw", "", identity.RoleStudent)
	if !api.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if pair, _ := tokens.Load(); !pair.Empty() {
		t.Errorf("failed register persisted tokens: %+v", pair)
	}
}

func TestLogout(t *testing.T) {
	backend := newFakeAuth(t)
	store, tokens := newTestStore(t, backend)
	ctx := context.Background()

	if err := store.Login(ctx, "admin@example.edu", "hunter2"); err != nil {
		t.Fatalf("login: %v", err)
	}

	store.Logout()

	snapshot := store.Snapshot()
	checkInvariant(t, snapshot)
	if snapshot.Status != StatusAnonymous {
		t.Errorf("status = %s after logout", snapshot.Status)
	}
	if pair, _ := tokens.Load(); !pair.Empty() {
		t.Errorf("logout left persisted tokens: %+v", pair)
	}
	if store.AccessToken() != "" {
		t.Error("logout left an access token in memory")
	}
}

func TestRefreshRotatesAndPersists(t *testing.T) {
	backend := newFakeAuth(t)
	store, tokens := newTestStore(t, backend)
	ctx := context.Background()

	if err := store.Login(ctx, "admin@example.edu", "hunter2"); err != nil {
		t.Fatalf("login: %v", err)
	}
	before, _ := tokens.Load()

	if err := store.Refresh(ctx, ""); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	after, _ := tokens.Load()
	if after.AccessToken == before.AccessToken || after.RefreshToken == before.RefreshToken {
		t.Errorf("pair not rotated: before=%+v after=%+v", before, after)
	}
	if store.AccessToken() != after.AccessToken {
		t.Error("in-memory token does not match persisted token")
	}
}

func TestRefreshRejectionEndsSession(t *testing.T) {
	backend := newFakeAuth(t)
	store, tokens := newTestStore(t, backend)
	ctx := context.Background()

	if err := store.Login(ctx, "admin@example.edu", "hunter2"); err != nil {
		t.Fatalf("login: %v", err)
	}

	// The server forgets the refresh token (revocation).
	backend.mu.Lock()
	backend.validRefresh = "revoked"
	backend.mu.Unlock()

	err := store.Refresh(ctx, "")
	if !api.IsAuth(err) {
		t.Fatalf("expected auth error, got %v", err)
	}

	snapshot := store.Snapshot()
	checkInvariant(t, snapshot)
	if snapshot.Status != StatusAnonymous {
		t.Errorf("status = %s, want anonymous after fatal refresh", snapshot.Status)
	}
	if pair, _ := tokens.Load(); !pair.Empty() {
		t.Errorf("fatal refresh left persisted tokens: %+v", pair)
	}
}

func TestConcurrentFailuresCollapseToOneRefresh(t *testing.T) {
	const workers = 8

	backend := newFakeAuth(t)
	backend.refreshGate = make(chan struct{})
	backend.rejectTarget = workers

	store, tokens := newTestStore(t, backend)
	ctx := context.Background()

	// Establish an authenticated session, then revoke its access token
	// server-side. Every worker's first request will 401 at once, and
	// renewal stays gated until all of them have.
	backend.mu.Lock()
	pair := backend.issue()
	backend.mu.Unlock()
	tokens.Save(pair)
	if snapshot := store.Bootstrap(ctx); snapshot.Status != StatusAuthenticated {
		t.Fatalf("bootstrap status = %s", snapshot.Status)
	}
	backend.mu.Lock()
	backend.validAccess = "revoked"
	startMe := backend.meCalls
	backend.mu.Unlock()

	session := store.API()
	var group sync.WaitGroup
	errs := make([]error, workers)
	for i := range workers {
		group.Add(1)
		go func() {
			defer group.Done()
			_, errs[i] = session.Me(ctx)
		}()
	}
	group.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("worker %d: %v", i, err)
		}
	}

	backend.mu.Lock()
	defer backend.mu.Unlock()
	if backend.refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want exactly 1", backend.refreshCalls)
	}
	// Each worker pays one failed and one successful request, no more.
	if got := backend.meCalls - startMe; got != 2*workers {
		t.Errorf("user lookups = %d, want %d", got, 2*workers)
	}
}

func TestTransientRefreshFailureKeepsSession(t *testing.T) {
	backend := newFakeAuth(t)
	server := httptest.NewServer(backend.handler())
	client, err := api.NewClient(api.ClientConfig{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	tokens := NewMemoryTokenStore()
	store := New(client, StoreConfig{Tokens: tokens})
	ctx := context.Background()

	if err := store.Login(ctx, "admin@example.edu", "hunter2"); err != nil {
		t.Fatalf("login: %v", err)
	}

	// The server goes away: renewal now fails at the transport layer
	// rather than being rejected.
	server.Close()

	refreshErr := store.Refresh(ctx, "")
	if refreshErr == nil || !api.IsTransient(refreshErr) {
		t.Fatalf("expected transient error, got %v", refreshErr)
	}

	// An unreachable server is not a revoked session: both the
	// in-memory state and the persisted pair survive for a retry.
	snapshot := store.Snapshot()
	checkInvariant(t, snapshot)
	if snapshot.Status != StatusAuthenticated {
		t.Errorf("status = %s, want authenticated after transient failure", snapshot.Status)
	}
	if pair, _ := tokens.Load(); pair.Empty() {
		t.Error("transient refresh failure cleared persisted tokens")
	}
}

func TestSubscribeDeliversTransitions(t *testing.T) {
	backend := newFakeAuth(t)
	store, _ := newTestStore(t, backend)
	ctx := context.Background()

	updates, cancel := store.Subscribe()
	defer cancel()

	store.Bootstrap(ctx)
	if snapshot := <-updates; snapshot.Status != StatusAnonymous {
		t.Fatalf("first update status = %s, want anonymous", snapshot.Status)
	}

	if err := store.Login(ctx, "admin@example.edu", "hunter2"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if snapshot := <-updates; snapshot.Status != StatusAuthenticated {
		t.Fatalf("second update status = %s, want authenticated", snapshot.Status)
	}

	cancel()
	if _, open := <-updates; open {
		t.Error("channel still open after cancel")
	}
	// A second cancel and further transitions must not panic.
	cancel()
	store.Logout()
}

func TestInvariantHoldsAcrossOperationSequence(t *testing.T) {
	backend := newFakeAuth(t)
	store, _ := newTestStore(t, backend)
	ctx := context.Background()

	steps := []struct {
		name string
		run  func()
	}{
		{"bootstrap", func() { store.Bootstrap(ctx) }},
		{"bad login", func() { store.Login(ctx, "admin@example.edu", "nope") }},
		{"login", func() { store.Login(ctx, "admin@example.edu", "hunter2") }},
		{"refresh", func() { store.Refresh(ctx, "") }},
		{"logout", func() { store.Logout() }},
		{"refresh anonymous", func() { store.Refresh(ctx, "") }},
		{"login again", func() { store.Login(ctx, "admin@example.edu", "hunter2") }},
		{"logout again", func() { store.Logout() }},
	}
	for _, step := range steps {
		step.run()
		snapshot := store.Snapshot()
		if (snapshot.User != nil) != (snapshot.Status == StatusAuthenticated) {
			t.Fatalf("after %q: status=%s user=%v", step.name, snapshot.Status, snapshot.User)
		}
	}
}
