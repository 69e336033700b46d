// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestCommand_Execute_DispatchesToSubcommand(t *testing.T) {
	var called string

	root := &Command{
		Name: "altrium",
		Subcommands: []*Command{
			{
				Name: "version",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					called = "version"
					return nil
				},
			},
			{
				Name: "credential",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					called = "credential"
					return nil
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"credential"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "credential" {
		t.Errorf("dispatched to %q, want %q", called, "credential")
	}
}

func TestCommand_Execute_NestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name: "altrium",
		Subcommands: []*Command{
			{
				Name: "credential",
				Subcommands: []*Command{
					{
						Name: "approve",
						Run: func(_ context.Context, args []string, _ *slog.Logger) error {
							called = "credential approve"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute(context.Background(), []string{"credential", "approve", "some-id"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if called != "credential approve" {
		t.Errorf("dispatched to %q, want %q", called, "credential approve")
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "some-id" {
		t.Errorf("args = %v, want [some-id]", receivedArgs)
	}
}

func TestCommand_Execute_FlagParsing(t *testing.T) {
	var status string
	var target string

	command := &Command{
		Name: "list",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.StringVar(&status, "status", "all", "status filter")
			return flagSet
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) > 0 {
				target = args[0]
			}
			return nil
		},
	}

	if err := command.Execute(context.Background(), []string{"--status", "pending", "extra"}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if status != "pending" {
		t.Errorf("status = %q, want %q", status, "pending")
	}
	if target != "extra" {
		t.Errorf("target = %q, want %q", target, "extra")
	}
}

func TestCommand_Execute_UnknownSubcommandSuggestion(t *testing.T) {
	root := &Command{
		Name: "altrium",
		Subcommands: []*Command{
			{Name: "credential", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
			{Name: "login", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
		},
	}

	err := root.Execute(context.Background(), []string{"credental"})
	if err == nil {
		t.Fatal("expected error for unknown subcommand")
	}
	if !strings.Contains(err.Error(), `did you mean "credential"`) {
		t.Errorf("error missing suggestion: %v", err)
	}
}

func TestCommand_Execute_UnknownFlagSuggestion(t *testing.T) {
	command := &Command{
		Name: "list",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("list", pflag.ContinueOnError)
			flagSet.String("status", "all", "status filter")
			return flagSet
		},
		Run: func(context.Context, []string, *slog.Logger) error { return nil },
	}

	err := command.Execute(context.Background(), []string{"--staus", "pending"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "--status") {
		t.Errorf("error missing flag suggestion: %v", err)
	}
}

func TestCommand_Execute_SubcommandRequired(t *testing.T) {
	root := &Command{
		Name: "altrium",
		Subcommands: []*Command{
			{Name: "login", Run: func(context.Context, []string, *slog.Logger) error { return nil }},
		},
	}

	err := root.Execute(context.Background(), nil)
	if err == nil || !strings.Contains(err.Error(), "subcommand required") {
		t.Errorf("Execute() = %v, want subcommand required", err)
	}
}

func TestCommand_PrintHelp_ListsSubcommands(t *testing.T) {
	var buffer strings.Builder
	root := &Command{
		Name:    "altrium",
		Summary: "Credential platform client",
		Subcommands: []*Command{
			{Name: "login", Summary: "Authenticate"},
			{Name: "credential", Summary: "Manage credentials"},
		},
	}
	root.PrintHelp(&buffer)

	help := buffer.String()
	for _, want := range []string{"login", "Authenticate", "credential", "Manage credentials", "altrium <command>"} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}
}
