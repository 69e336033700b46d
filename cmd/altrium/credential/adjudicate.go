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
	"github.com/altrium-foundation/altrium/lib/authz"
	"github.com/altrium-foundation/altrium/lib/credential"
	"github.com/altrium-foundation/altrium/lib/identity"
)

func approveCommand() *cli.Command {
	return adjudicateCommand("approve", credential.StatusApproved,
		"Approve a pending credential (admin)",
		"Approval is final: an approved credential cannot be re-adjudicated.")
}

func rejectCommand() *cli.Command {
	return adjudicateCommand("reject", credential.StatusRejected,
		"Reject a pending credential (admin)",
		"Rejection is final: a rejected credential cannot be re-adjudicated.")
}

// adjudicateCommand builds approve and reject, which differ only in
// the target status.
func adjudicateCommand(name string, target credential.Status, summary, note string) *cli.Command {
	return &cli.Command{
		Name:    name,
		Summary: summary,
		Description: fmt.Sprintf(`%s a pending credential.

%s`, capitalize(name), note),
		Usage: fmt.Sprintf("altrium credential %s <id>", name),
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("exactly one credential ID is required\n\nUsage: altrium credential %s <id>", name)
			}
			id, err := uuid.Parse(args[0])
			if err != nil {
				return cli.Validation("invalid credential ID %q: %v", args[0], err)
			}

			app, _, err := cli.ConnectAuthenticated(ctx, authz.RequireRole(identity.RoleAdmin))
			if err != nil {
				return err
			}

			record, err := app.Store.API().SetCredentialStatus(ctx, id, target)
			if err != nil {
				return cli.FromAPI(err, name+" failed")
			}

			logger.Info("credential adjudicated", "credential", record.ID, "status", record.Status)
			fmt.Fprintf(os.Stdout, "%s %s\n", record.ID, record.Status)
			return nil
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:    "delete",
		Summary: "Delete a credential (admin)",
		Description: `Remove a credential from the registry entirely.

Unlike rejection, deletion erases the record. Prefer reject for
credentials that were reviewed and found wanting; delete is for
records created in error.`,
		Usage: "altrium credential delete <id>",
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return cli.Validation("exactly one credential ID is required\n\nUsage: altrium credential delete <id>")
			}
			id, err := uuid.Parse(args[0])
			if err != nil {
				return cli.Validation("invalid credential ID %q: %v", args[0], err)
			}

			app, _, err := cli.ConnectAuthenticated(ctx, authz.RequireRole(identity.RoleAdmin))
			if err != nil {
				return err
			}

			if err := app.Store.API().DeleteCredential(ctx, id); err != nil {
				return cli.FromAPI(err, "deleting credential")
			}

			logger.Info("credential deleted", "credential", id)
			return nil
		},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
