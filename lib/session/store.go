// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/altrium-foundation/altrium/api"
	"github.com/altrium-foundation/altrium/lib/identity"
)

// Status is the session lifecycle state.
type Status int

const (
	// StatusUninitialized is the zero value; a constructed Store never
	// reports it.
	StatusUninitialized Status = iota
	// StatusLoading means Bootstrap has not yet resolved. Views must
	// render a neutral pending state, not a redirect.
	StatusLoading
	// StatusAuthenticated means a user profile is loaded.
	StatusAuthenticated
	// StatusAnonymous means there is no usable session.
	StatusAnonymous
)

// String returns the lifecycle state name.
func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "uninitialized"
	}
}

// Snapshot is an immutable view of session state handed to the gate
// and the views. User is non-nil exactly when Status is
// StatusAuthenticated.
type Snapshot struct {
	Status Status
	User   *identity.User
}

// Authenticated reports whether the snapshot carries a logged-in user.
func (s Snapshot) Authenticated() bool { return s.Status == StatusAuthenticated }

// ErrNotAuthenticated is returned by Refresh when no refresh token is
// stored.
var ErrNotAuthenticated = errors.New("session: not authenticated")

// refreshExpiryWindow is how close to its exp claim an access token is
// treated as already stale during Bootstrap, avoiding a doomed
// round trip before the inevitable renewal.
const refreshExpiryWindow = time.Minute

// StoreConfig holds configuration for creating a Store.
type StoreConfig struct {
	// Tokens persists the token pair. If nil, an in-memory store is
	// used and the session does not survive the process.
	Tokens TokenStore
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Store is the single-writer container for session state. All methods
// are safe for concurrent use. The Store implements api.TokenSource,
// which is how the transport layer triggers transparent renewal.
type Store struct {
	client *api.Client
	tokens TokenStore
	logger *slog.Logger

	// flight collapses concurrent renewals into one network call.
	flight singleflight.Group

	mu           sync.Mutex
	status       Status
	user         *identity.User
	pair         api.TokenPair
	bootstrapped bool

	subMu   sync.Mutex
	subs    map[int]chan Snapshot
	nextSub int
}

// New creates a Store in StatusLoading. Call Bootstrap to resolve it.
func New(client *api.Client, config StoreConfig) *Store {
	tokens := config.Tokens
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client: client,
		tokens: tokens,
		logger: logger,
		status: StatusLoading,
		subs:   make(map[int]chan Snapshot),
	}
}

// API returns an authenticated api.Session backed by this store.
func (s *Store) API() *api.Session {
	return api.NewSession(s.client, s)
}

// Snapshot returns a consistent copy of the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snapshot := Snapshot{Status: s.status}
	if s.user != nil {
		user := *s.user
		snapshot.User = &user
	}
	return snapshot
}

// AccessToken implements api.TokenSource.
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pair.AccessToken
}

// Bootstrap resolves the initial session state. It runs its work at
// most once; later calls return the already-resolved snapshot. With no
// persisted access token the session resolves ANONYMOUS without any
// network traffic. With a token, the user profile is fetched (renewing
// transparently if the access token has expired); any failure clears
// the persisted pair and resolves ANONYMOUS. Bootstrap never returns
// an error — failure is a state, not an exception.
func (s *Store) Bootstrap(ctx context.Context) Snapshot {
	s.mu.Lock()
	if s.bootstrapped {
		defer s.mu.Unlock()
		return s.snapshotLocked()
	}
	s.bootstrapped = true
	s.mu.Unlock()

	pair, err := s.tokens.Load()
	if err != nil {
		s.logger.Warn("could not read persisted session", "error", err)
		return s.resolve(StatusAnonymous, nil, api.TokenPair{})
	}
	if pair.Empty() {
		return s.resolve(StatusAnonymous, nil, api.TokenPair{})
	}

	s.mu.Lock()
	s.pair = pair
	s.mu.Unlock()

	// A token known to be moments from expiry gets renewed up front
	// instead of burning a guaranteed 401 round trip. Opaque tokens
	// skip this and rely on the 401 path.
	if tokenExpiresWithin(pair.AccessToken, refreshExpiryWindow, time.Now()) {
		if err := s.Refresh(ctx, ""); err != nil {
			s.logger.Debug("bootstrap renewal failed", "error", err)
		}
	}

	user, err := s.API().Me(ctx)
	if err != nil {
		s.logger.Info("persisted session rejected, starting anonymous", "error", err)
		if clearErr := s.tokens.Clear(); clearErr != nil {
			s.logger.Warn("could not clear persisted session", "error", clearErr)
		}
		return s.resolve(StatusAnonymous, nil, api.TokenPair{})
	}
	return s.resolve(StatusAuthenticated, &user, s.currentPair())
}

// Login exchanges credentials for a session. On failure the prior
// session state is left untouched and a typed error is returned for
// the form to display. On success both tokens are persisted and the
// user profile is loaded.
func (s *Store) Login(ctx context.Context, email, password string) error {
	pair, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := s.tokens.Save(pair); err != nil {
		return fmt.Errorf("session: persisting tokens: %w", err)
	}
	s.mu.Lock()
	s.pair = pair
	s.bootstrapped = true
	s.mu.Unlock()

	user, err := s.API().Me(ctx)
	if err != nil {
		return fmt.Errorf("session: loading profile after login: %w", err)
	}
	s.resolve(StatusAuthenticated, &user, pair)
	s.logger.Info("logged in", "email", user.Email, "role", user.Role)
	return nil
}

// Register creates an account and, as a convenience continuation, logs
// in with the same credentials. Validation failures surface with no
// side effects on the current session.
func (s *Store) Register(ctx context.Context, email, password, fullName string, role identity.Role) error {
	_, err := s.client.Register(ctx, api.RegisterRequest{
		Email:    email,
		Password: password,
		FullName: fullName,
		Role:     role,
	})
	if err != nil {
		return err
	}
	return s.Login(ctx, email, password)
}

// Refresh implements api.TokenSource: it exchanges the stored refresh
// token for a new pair and persists it.
//
// Concurrent callers collapse onto a single in-flight renewal and all
// receive its result. staleToken is the access token the caller's
// failing request carried; when the current token already differs, a
// renewal has happened within this refresh window and the call is a
// no-op. Pass "" to force a renewal unconditionally.
//
// A server rejection of the refresh token is fatal: the session is
// cleared (ANONYMOUS) and the error returned. Transport-level failures
// return an error but leave the session intact for a manual retry.
func (s *Store) Refresh(ctx context.Context, staleToken string) error {
	s.mu.Lock()
	current := s.pair.AccessToken
	s.mu.Unlock()
	if staleToken != "" && current != staleToken {
		return nil
	}

	_, err, _ := s.flight.Do("refresh", func() (any, error) {
		return nil, s.renew(ctx, staleToken)
	})
	return err
}

func (s *Store) renew(ctx context.Context, staleToken string) error {
	s.mu.Lock()
	refreshToken := s.pair.RefreshToken
	current := s.pair.AccessToken
	s.mu.Unlock()

	// Re-check under the flight: a queued caller whose window closed
	// while it waited must not spend the fresh refresh token again.
	if staleToken != "" && current != staleToken {
		return nil
	}
	if refreshToken == "" {
		return ErrNotAuthenticated
	}

	pair, err := s.client.Refresh(ctx, refreshToken)
	if err != nil {
		if api.IsTransient(err) {
			return err
		}
		// The server rejected the refresh token: the session is over.
		s.logger.Info("session expired", "error", err)
		s.clear()
		return err
	}

	if err := s.tokens.Save(pair); err != nil {
		s.logger.Warn("could not persist renewed tokens", "error", err)
	}
	s.mu.Lock()
	s.pair = pair
	s.mu.Unlock()
	return nil
}

// Logout clears persisted tokens and in-memory state synchronously. It
// performs no network traffic and cannot fail: a filesystem error
// removing the token file is logged, and the in-memory session is gone
// either way.
func (s *Store) Logout() {
	s.clear()
	s.logger.Info("logged out")
}

// clear drops persisted tokens and user state and resolves ANONYMOUS.
func (s *Store) clear() {
	if err := s.tokens.Clear(); err != nil {
		s.logger.Warn("could not clear persisted session", "error", err)
	}
	s.resolve(StatusAnonymous, nil, api.TokenPair{})
}

func (s *Store) currentPair() api.TokenPair {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pair
}

// resolve applies a state transition and notifies subscribers. It is
// the only writer of status/user and maintains the invariant that user
// is non-nil exactly when status is StatusAuthenticated.
func (s *Store) resolve(status Status, user *identity.User, pair api.TokenPair) Snapshot {
	s.mu.Lock()
	s.status = status
	s.pair = pair
	if status == StatusAuthenticated {
		s.user = user
	} else {
		s.user = nil
	}
	s.bootstrapped = true
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(snapshot)
	return snapshot
}

// Subscribe returns a channel that receives a Snapshot after every
// state transition, plus a cancel function. Sends never block: a
// subscriber that stopped draining misses intermediate snapshots but
// always eventually observes the latest. After cancel, the channel is
// closed and further transitions are a no-op for this subscriber, so
// an unmounted view cannot be mutated by a late event.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	channel := make(chan Snapshot, 8)
	s.subs[id] = channel
	s.subMu.Unlock()

	cancel := func() {
		s.subMu.Lock()
		if existing, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(existing)
		}
		s.subMu.Unlock()
	}
	return channel, cancel
}

func (s *Store) notify(snapshot Snapshot) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, channel := range s.subs {
		select {
		case channel <- snapshot:
		default:
		}
	}
}
