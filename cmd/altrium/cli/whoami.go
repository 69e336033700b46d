// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// WhoAmICommand returns the "whoami" command for displaying the
// current identity. The saved session is resolved against the
// platform, renewing the access token if needed, so a successful
// whoami also confirms the session is still valid.
func WhoAmICommand() *Command {
	return &Command{
		Name:    "whoami",
		Summary: "Show the current identity",
		Description: `Display the currently logged-in user.

The saved session is verified against the platform (the profile is
fetched), so success confirms the session is valid. An expired access
token is renewed transparently with the saved refresh token.`,
		Usage: "altrium whoami",
		Examples: []Example{
			{
				Description: "Show current identity",
				Command:     "altrium whoami",
			},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return Validation("unexpected argument: %s", args[0])
			}

			app, user, err := ConnectAuthenticated(ctx, nil)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "User ID:  %s\n", user.ID)
			fmt.Fprintf(os.Stdout, "Email:    %s\n", user.Email)
			if user.FullName != "" {
				fmt.Fprintf(os.Stdout, "Name:     %s\n", user.FullName)
			}
			fmt.Fprintf(os.Stdout, "Role:     %s\n", user.Role)
			if path, ok := sessionFile(app); ok {
				fmt.Fprintf(os.Stdout, "Session:  %s\n", path)
			}
			return nil
		},
	}
}
