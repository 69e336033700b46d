// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/altrium-foundation/altrium/cmd/altrium/cli"
	"github.com/altrium-foundation/altrium/lib/authz"
	"github.com/altrium-foundation/altrium/lib/credential"
	"github.com/altrium-foundation/altrium/lib/identity"
)

func createCommand() *cli.Command {
	var (
		description string
		issuedTo    string
	)

	return &cli.Command{
		Name:    "create",
		Summary: "Issue a new credential (admin)",
		Description: `Issue a credential to a student. The credential starts PENDING and
must be approved before employers can see it.`,
		Usage: "altrium credential create <title> --to <student-id> [flags]",
		Examples: []cli.Example{
			{
				Description: "Issue a degree credential",
				Command:     "altrium credential create 'BSc Computer Science' --to 0a1b2c3d-4e5f-6789-abcd-ef0123456789",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("create", pflag.ContinueOnError)
			flagSet.StringVar(&description, "description", "", "free-form description of the achievement")
			flagSet.StringVar(&issuedTo, "to", "", "ID of the student the credential is issued to")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("exactly one title is required\n\nUsage: altrium credential create <title> --to <student-id>")
			}
			if issuedTo == "" {
				return cli.Validation("--to is required")
			}
			studentID, err := uuid.Parse(issuedTo)
			if err != nil {
				return cli.Validation("invalid --to ID %q: %v", issuedTo, err)
			}

			app, _, err := cli.ConnectAuthenticated(ctx, authz.RequireRole(identity.RoleAdmin))
			if err != nil {
				return err
			}

			record, err := app.Store.API().CreateCredential(ctx, credential.NewRequest{
				Title:       args[0],
				Description: description,
				IssuedToID:  studentID,
			})
			if err != nil {
				return cli.FromAPI(err, "creating credential")
			}

			logger.Info("credential created", "credential", record.ID, "status", record.Status)
			fmt.Fprintf(os.Stdout, "%s\n", record.ID)
			return nil
		},
	}
}
