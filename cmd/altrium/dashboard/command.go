// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

// Package dashboard implements the "altrium dashboard" command: an
// interactive terminal view of the credential registry.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/altrium-foundation/altrium/cmd/altrium/cli"
	"github.com/altrium-foundation/altrium/lib/dashui"
)

// Command returns the "dashboard" command.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "dashboard",
		Summary: "Interactive credential dashboard",
		Description: `Open the interactive credential dashboard.

The table shows the credentials your role can see, with filter tabs
(1-4) slicing the current snapshot by status and a tally in the
header. Administrators can approve (a) and reject (x) pending rows
in place. Press r to refetch, q to quit.`,
		Usage: "altrium dashboard",
		Examples: []cli.Example{
			{
				Description: "Open the dashboard with the saved session",
				Command:     "altrium dashboard",
			},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			app, err := cli.NewApp()
			if err != nil {
				return err
			}

			model := dashui.New(app.Store, logger)
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("dashboard: %w", err)
			}
			return nil
		},
	}
}
