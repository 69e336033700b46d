// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package credential

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/altrium-foundation/altrium/cmd/altrium/cli"
	"github.com/altrium-foundation/altrium/lib/credential"
)

func listCommand() *cli.Command {
	var status string

	return &cli.Command{
		Name:    "list",
		Summary: "List visible credentials",
		Description: `List the credentials your role can see.

Students see their own credentials in every status. Employers see
approved credentials only. Administrators see the full registry.`,
		Usage: "altrium credential list [flags]",
		Examples: []cli.Example{
			{
				Description: "List everything visible to you",
				Command:     "altrium credential list",
			},
			{
				Description: "List only pending credentials",
				Command:     "altrium credential list --status pending",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.StringVarP(&status, "status", "s", "", "filter by status (pending, approved, rejected)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return cli.Validation("unexpected argument: %s", args[0])
			}

			filter := credential.FilterAll
			if status != "" {
				parsed, err := credential.ParseStatus(status)
				if err != nil {
					return cli.Validation("--status must be pending, approved, or rejected")
				}
				filter = credential.FilterFor(parsed)
			}

			app, _, err := cli.ConnectAuthenticated(ctx, nil)
			if err != nil {
				return err
			}

			records, err := app.Store.API().Credentials(ctx)
			if err != nil {
				return cli.FromAPI(err, "listing credentials")
			}
			stats := credential.Tally(records)
			records = credential.Partition(records, filter)

			if len(records) == 0 {
				logger.Info("no credentials found")
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "ID\tSTATUS\tTITLE\tUPDATED")
			for _, record := range records {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
					record.ID, record.Status, record.Title,
					record.UpdatedAt.Format("2006-01-02 15:04"))
			}
			writer.Flush()
			fmt.Fprintf(os.Stdout, "\n%d total: %d pending, %d approved, %d rejected\n",
				stats.Total, stats.Pending, stats.Approved, stats.Rejected)
			return nil
		},
	}
}
