// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/altrium-foundation/altrium/api"
)

// TokenStore persists the token pair — the client's only durable
// state. Load on a store with nothing saved returns an empty pair and
// no error.
type TokenStore interface {
	Load() (api.TokenPair, error)
	Save(api.TokenPair) error
	Clear() error
}

// DefaultTokenFilePath returns the path of the persisted session file.
// Checks the ALTRIUM_SESSION_FILE environment variable first, then
// falls back to $XDG_CONFIG_HOME/altrium/session.json or
// ~/.config/altrium/session.json.
func DefaultTokenFilePath() string {
	if envPath := os.Getenv("ALTRIUM_SESSION_FILE"); envPath != "" {
		return envPath
	}

	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			// Fallback — this should rarely happen.
			return filepath.Join(os.TempDir(), "altrium-session.json")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "altrium", "session.json")
}

// FileTokenStore persists the pair as JSON at a fixed path. The file
// is written with mode 0600 (owner-only read/write) since it contains
// bearer tokens; the parent directory is created with mode 0700.
type FileTokenStore struct {
	path string
}

// NewFileTokenStore creates a store at path, or at
// DefaultTokenFilePath() when path is empty.
func NewFileTokenStore(path string) *FileTokenStore {
	if path == "" {
		path = DefaultTokenFilePath()
	}
	return &FileTokenStore{path: path}
}

// Path returns the session file location.
func (f *FileTokenStore) Path() string { return f.path }

// Load reads the persisted pair. A missing file is not an error — it
// means no session is saved.
func (f *FileTokenStore) Load() (api.TokenPair, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return api.TokenPair{}, nil
		}
		return api.TokenPair{}, fmt.Errorf("reading session file %s: %w", f.path, err)
	}

	var pair api.TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return api.TokenPair{}, fmt.Errorf("parsing session file %s: %w", f.path, err)
	}
	return pair, nil
}

// Save writes the pair, creating the parent directory if needed.
func (f *FileTokenStore) Save(pair api.TokenPair) error {
	data, err := json.MarshalIndent(pair, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	data = append(data, '\n')

	directory := filepath.Dir(f.path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("creating session directory %s: %w", directory, err)
	}
	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return fmt.Errorf("writing session file %s: %w", f.path, err)
	}
	return nil
}

// Clear removes the session file. Idempotent.
func (f *FileTokenStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing session file %s: %w", f.path, err)
	}
	return nil
}

// MemoryTokenStore keeps the pair in memory. Used by tests and by
// callers that explicitly opt out of durable sessions.
type MemoryTokenStore struct {
	mu   sync.Mutex
	pair api.TokenPair
	set  bool
}

// NewMemoryTokenStore creates an empty in-memory store.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

// Load returns the stored pair, or an empty pair when nothing is
// saved.
func (m *MemoryTokenStore) Load() (api.TokenPair, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return api.TokenPair{}, nil
	}
	return m.pair, nil
}

// Save stores the pair.
func (m *MemoryTokenStore) Save(pair api.TokenPair) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = pair
	m.set = true
	return nil
}

// Clear drops the stored pair.
func (m *MemoryTokenStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pair = api.TokenPair{}
	m.set = false
	return nil
}
