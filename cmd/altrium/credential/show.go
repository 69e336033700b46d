// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/altrium-foundation/altrium/cmd/altrium/cli"
)

func showCommand() *cli.Command {
	return &cli.Command{
		Name:    "show",
		Summary: "Show one credential in detail",
		Usage:   "altrium credential show <id>",
		Examples: []cli.Example{
			{
				Description: "Inspect a credential by ID",
				Command:     "altrium credential show 7f9c24e5-2f1b-4c3a-9d6e-0a1b2c3d4e5f",
			},
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("exactly one credential ID is required\n\nUsage: altrium credential show <id>")
			}
			id, err := uuid.Parse(args[0])
			if err != nil {
				return cli.Validation("invalid credential ID %q: %v", args[0], err)
			}

			app, _, err := cli.ConnectAuthenticated(ctx, nil)
			if err != nil {
				return err
			}

			record, err := app.Store.API().Credential(ctx, id)
			if err != nil {
				return cli.FromAPI(err, "fetching credential")
			}

			fmt.Fprintf(os.Stdout, "ID:          %s\n", record.ID)
			fmt.Fprintf(os.Stdout, "Title:       %s\n", record.Title)
			if record.Description != "" {
				fmt.Fprintf(os.Stdout, "Description: %s\n", record.Description)
			}
			fmt.Fprintf(os.Stdout, "Status:      %s\n", record.Status)
			fmt.Fprintf(os.Stdout, "Issued to:   %s\n", record.IssuedToID)
			fmt.Fprintf(os.Stdout, "Issued by:   %s\n", record.IssuedByID)
			fmt.Fprintf(os.Stdout, "Created:     %s\n", record.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(os.Stdout, "Updated:     %s\n", record.UpdatedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}
