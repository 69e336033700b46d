// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

// Package credential implements the "altrium credential" subcommand
// group: listing, inspecting, issuing, and adjudicating credentials.
package credential

import "github.com/altrium-foundation/altrium/cmd/altrium/cli"

// Command returns the "credential" subcommand group.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "credential",
		Summary: "Credential management commands",
		Description: `View and manage verified credentials.

What you see depends on your role: students see credentials issued to
them, employers see approved credentials, administrators see
everything and can issue, approve, reject, and delete.`,
		Subcommands: []*cli.Command{
			listCommand(),
			showCommand(),
			createCommand(),
			approveCommand(),
			rejectCommand(),
			deleteCommand(),
		},
	}
}
