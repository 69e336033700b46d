// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

// Package user implements the "altrium user" subcommand group for
// administering platform accounts.
package user

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/altrium-foundation/altrium/cmd/altrium/cli"
	"github.com/altrium-foundation/altrium/lib/authz"
	"github.com/altrium-foundation/altrium/lib/identity"
)

// Command returns the "user" subcommand group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "user",
		Summary: "User administration commands",
		Subcommands: []*cli.Command{
			listCommand(),
		},
	}
}

func listCommand() *cli.Command {
	var role string

	return &cli.Command{
		Name:    "list",
		Summary: "List platform accounts (admin)",
		Usage:   "altrium user list [flags]",
		Examples: []cli.Example{
			{
				Description: "List every account",
				Command:     "altrium user list",
			},
			{
				Description: "List student accounts only",
				Command:     "altrium user list --role student",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.StringVar(&role, "role", "", "filter by role (admin, student, employer)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			var roleFilter identity.Role
			if role != "" {
				parsed, err := identity.ParseRole(role)
				if err != nil {
					return cli.Validation("--role must be admin, student, or employer")
				}
				roleFilter = parsed
			}

			app, _, err := cli.ConnectAuthenticated(ctx, authz.RequireRole(identity.RoleAdmin))
			if err != nil {
				return err
			}

			users, err := app.Store.API().Users(ctx)
			if err != nil {
				return cli.FromAPI(err, "listing users")
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tROLE\tEMAIL\tNAME\tACTIVE")
			shown := 0
			for _, account := range users {
				if roleFilter != "" && account.Role != roleFilter {
					continue
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%t\n",
					account.ID, account.Role, account.Email, account.FullName, account.IsActive)
				shown++
			}
			writer.Flush()
			if shown == 0 {
				logger.Info("no users matched")
			}
			return nil
		},
	}
}
