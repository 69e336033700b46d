// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the altrium
// unified CLI.
//
// The central type is [Command], which represents a named subcommand
// with optional nested [Command.Subcommands], a [pflag.FlagSet]
// factory, and a Run function. Commands are assembled into a tree in
// cmd/altrium/commands and dispatched via [Command.Execute], which
// handles flag parsing, subcommand routing, and structured help output
// with examples.
//
// When a user types an unknown subcommand or flag, the framework
// computes Levenshtein edit distance against all known names and
// suggests the closest match (threshold: distance <= 3). This is
// implemented in suggest.go.
//
// Subcommand packages wire themselves to the platform through [App]:
// [Connect] loads configuration, builds the HTTP client, and resolves
// the persisted session; [ConnectAuthenticated] additionally requires
// a live session, optionally with a specific role, mapping the
// authorization gate's verdict onto categorized command errors.
// Commands return [ToolError] values so scripts can branch on the
// category instead of parsing message text, and [ExitError] when a
// non-zero exit is an answer rather than a failure.
package cli
