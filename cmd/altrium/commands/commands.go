// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the complete altrium CLI command tree.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/altrium-foundation/altrium/cmd/altrium/cli"
	credentialcmd "github.com/altrium-foundation/altrium/cmd/altrium/credential"
	dashboardcmd "github.com/altrium-foundation/altrium/cmd/altrium/dashboard"
	usercmd "github.com/altrium-foundation/altrium/cmd/altrium/user"
	"github.com/altrium-foundation/altrium/lib/version"
)

// Root builds and returns the complete altrium CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "altrium",
		Description: `Altrium: verified credential platform client.

Authenticate once with "altrium login"; after that every command uses
the saved session, renewing expired access tokens transparently.`,
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("altrium", pflag.ContinueOnError)
			flagSet.StringVar(&cli.ConfigPath, "config", "", "path to config file (default: $ALTRIUM_CONFIG or built-in defaults)")
			return flagSet
		},
		Subcommands: []*cli.Command{
			cli.LoginCommand(),
			cli.RegisterCommand(),
			cli.LogoutCommand(),
			cli.WhoAmICommand(),
			credentialcmd.Command(),
			usercmd.Command(),
			dashboardcmd.Command(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Printf("altrium %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Authenticate (saves the session locally)",
				Command:     "altrium login registrar@university.edu",
			},
			{
				Description: "See who you are logged in as",
				Command:     "altrium whoami",
			},
			{
				Description: "List your credentials",
				Command:     "altrium credential list",
			},
			{
				Description: "Open the interactive dashboard",
				Command:     "altrium dashboard",
			},
		},
	}
}
