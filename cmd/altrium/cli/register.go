// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/altrium-foundation/altrium/lib/identity"
)

// RegisterCommand returns the "register" command for creating an
// account. Registration continues straight into login: on success the
// new session is saved locally.
func RegisterCommand() *Command {
	var (
		role         string
		fullName     string
		passwordFile string
	)

	return &Command{
		Name:    "register",
		Summary: "Create an account and log in",
		Description: `Create an account on the credential platform.

Students request credentials for their achievements; employers verify
credentials presented to them. Administrator accounts are provisioned
server-side and cannot be self-registered.

On success the command logs in with the new credentials and saves the
session, so no separate "altrium login" is needed.`,
		Usage: "altrium register <email> [flags]",
		Examples: []Example{
			{
				Description: "Register as a student",
				Command:     "altrium register casey@university.edu --full-name 'Casey Nguyen'",
			},
			{
				Description: "Register an employer account",
				Command:     "altrium register hr@acme.example --role employer",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("register", pflag.ContinueOnError)
			flagSet.StringVar(&role, "role", "student", "account role: student or employer")
			flagSet.StringVar(&fullName, "full-name", "", "display name for the account")
			flagSet.StringVar(&passwordFile, "password-file", "", "path to file containing password, or - to prompt interactively (default: prompt)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) < 1 {
				return Validation("email is required\n\nUsage: altrium register <email> [flags]")
			}
			email := args[0]
			if len(args) > 1 {
				return Validation("unexpected argument: %s", args[1])
			}

			parsedRole, err := identity.ParseRole(role)
			if err != nil {
				return Validation("--role must be student or employer")
			}
			if parsedRole == identity.RoleAdmin {
				return Forbidden("administrator accounts cannot be self-registered")
			}

			password, err := ReadPassword(passwordFile, "Password")
			if err != nil {
				return err
			}

			app, err := NewApp()
			if err != nil {
				return err
			}

			if err := app.Store.Register(ctx, email, password, fullName, parsedRole); err != nil {
				return FromAPI(err, "registration failed")
			}

			user := app.Store.Snapshot().User
			fmt.Fprintf(os.Stderr, "Registered and logged in as %s (%s)\n", user.Email, user.Role)
			return nil
		},
	}
}
