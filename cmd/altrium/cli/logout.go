// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// LogoutCommand returns the "logout" command. Logout is local and
// synchronous: it deletes the saved token pair and performs no network
// traffic, so it works offline and cannot fail against a dead server.
func LogoutCommand() *Command {
	return &Command{
		Name:    "logout",
		Summary: "End the saved session",
		Description: `Delete the locally saved session.

The token pair is removed from disk; no request is sent to the
platform. Logging out while offline works.`,
		Usage: "altrium logout",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return Validation("unexpected argument: %s", args[0])
			}

			app, err := NewApp()
			if err != nil {
				return err
			}
			app.Store.Logout()
			fmt.Fprintln(os.Stderr, "Logged out")
			return nil
		},
	}
}
