// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/altrium-foundation/altrium/lib/session"
)

// LoginCommand returns the "login" command for authenticating against
// the platform. On success both tokens are saved to the session file
// and subsequent commands (credential, whoami, dashboard) use the
// saved session transparently.
func LoginCommand() *Command {
	var passwordFile string

	return &Command{
		Name:    "login",
		Summary: "Authenticate against the platform",
		Description: `Log in to the credential platform and save the session locally.

After login, commands like "altrium credential list" and "altrium
dashboard" use the saved session transparently — no flags needed.
When the access token expires mid-command, it is renewed with the
saved refresh token automatically.

The session file is stored at ~/.config/altrium/session.json (or
$ALTRIUM_SESSION_FILE if set, or $XDG_CONFIG_HOME/altrium/session.json).
The file is written with mode 0600 (owner-only read/write) since it
contains bearer tokens.

The password can be provided via --password-file (a path to a file
containing the password) or prompted interactively if --password-file
is "-" or omitted.`,
		Usage: "altrium login <email> [flags]",
		Examples: []Example{
			{
				Description: "Log in interactively (prompts for password)",
				Command:     "altrium login registrar@university.edu",
			},
			{
				Description: "Log in with password from file",
				Command:     "altrium login registrar@university.edu --password-file /path/to/password",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("login", pflag.ContinueOnError)
			flagSet.StringVar(&passwordFile, "password-file", "", "path to file containing password, or - to prompt interactively (default: prompt)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) < 1 {
				return Validation("email is required\n\nUsage: altrium login <email> [flags]")
			}
			email := args[0]
			if len(args) > 1 {
				return Validation("unexpected argument: %s", args[1])
			}

			password, err := ReadPassword(passwordFile, "Password")
			if err != nil {
				return err
			}

			app, err := NewApp()
			if err != nil {
				return err
			}

			if err := app.Store.Login(ctx, email, password); err != nil {
				return FromAPI(err, "login failed")
			}

			user := app.Store.Snapshot().User
			fmt.Fprintf(os.Stderr, "Logged in as %s (%s)\n", user.Email, user.Role)
			if fileStore, ok := sessionFile(app); ok {
				fmt.Fprintf(os.Stderr, "Session saved to %s\n", fileStore)
			}
			return nil
		},
	}
}

// sessionFile reports where the session was persisted, when it was.
func sessionFile(app *App) (string, bool) {
	if !app.Config.PersistSession() {
		return "", false
	}
	if app.Config.Session.File != "" {
		return app.Config.Session.File, true
	}
	return session.DefaultTokenFilePath(), true
}
