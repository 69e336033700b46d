// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/term"

	"github.com/altrium-foundation/altrium/api"
	"github.com/altrium-foundation/altrium/lib/authz"
	"github.com/altrium-foundation/altrium/lib/config"
	"github.com/altrium-foundation/altrium/lib/identity"
	"github.com/altrium-foundation/altrium/lib/session"
)

// ConfigPath is the --config value shared by every subcommand. Empty
// means ALTRIUM_CONFIG or defaults.
var ConfigPath string

// App bundles the wired client stack for a command invocation.
type App struct {
	Config *config.Config
	Store  *session.Store
}

// NewApp loads configuration and wires the client and session store.
// The session is not bootstrapped; call Connect for that.
func NewApp() (*App, error) {
	var cfg *config.Config
	var err error
	if ConfigPath != "" {
		cfg, err = config.LoadFile(ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, Internal("loading config: %w", err)
	}

	client, err := api.NewClient(api.ClientConfig{
		BaseURL:    cfg.Server.URL,
		HTTPClient: &http.Client{Timeout: cfg.RequestTimeout()},
	})
	if err != nil {
		return nil, Internal("creating client: %w", err)
	}

	var tokens session.TokenStore
	if cfg.PersistSession() {
		tokens = session.NewFileTokenStore(cfg.Session.File)
	} else {
		tokens = session.NewMemoryTokenStore()
	}

	return &App{
		Config: cfg,
		Store:  session.New(client, session.StoreConfig{Tokens: tokens}),
	}, nil
}

// Connect wires the stack and resolves the persisted session. Commands
// that require a session should use ConnectAuthenticated instead.
func Connect(ctx context.Context) (*App, session.Snapshot, error) {
	app, err := NewApp()
	if err != nil {
		return nil, session.Snapshot{}, err
	}
	return app, app.Store.Bootstrap(ctx), nil
}

// ConnectAuthenticated wires the stack and requires a live session,
// optionally with a specific role. The gate's verdict maps onto
// command errors: no session means "log in first", a role mismatch is
// forbidden.
func ConnectAuthenticated(ctx context.Context, required *identity.Role) (*App, *identity.User, error) {
	app, snapshot, err := Connect(ctx)
	if err != nil {
		return nil, nil, err
	}

	switch result := authz.Decide(snapshot, required); result.Decision {
	case authz.DecisionAllow:
		return app, snapshot.User, nil
	case authz.DecisionRedirect:
		if result.Target == authz.LoginRoute {
			return nil, nil, Auth("not logged in (run 'altrium login')")
		}
		return nil, nil, Forbidden("this command requires the %s role (you are %s)",
			*required, snapshot.User.Role)
	default:
		return nil, nil, Internal("session did not resolve")
	}
}

// ReadPassword reads a password for login and register. If
// passwordFile is empty or "-", prompts interactively on the terminal
// with echo disabled. Otherwise, reads from the file path, stripping
// trailing newlines (common with echo/printf pipelines).
func ReadPassword(passwordFile, prompt string) (string, error) {
	if passwordFile != "" && passwordFile != "-" {
		data, err := os.ReadFile(passwordFile)
		if err != nil {
			return "", Internal("reading %s: %w", passwordFile, err)
		}
		for len(data) > 0 && (data[len(data)-1] == '\n' || data[len(data)-1] == '\r') {
			data = data[:len(data)-1]
		}
		if len(data) == 0 {
			return "", Validation("file %s is empty (after stripping trailing newlines)", passwordFile)
		}
		return string(data), nil
	}

	stdinFileDescriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFileDescriptor) {
		return "", Validation("no terminal available for interactive password prompt (use --password-file)")
	}

	fmt.Fprintf(os.Stderr, "%s: ", prompt)
	passwordBytes, err := term.ReadPassword(stdinFileDescriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", Internal("reading password: %w", err)
	}
	if len(passwordBytes) == 0 {
		return "", Validation("empty password")
	}
	return string(passwordBytes), nil
}
