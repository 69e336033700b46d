// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the dashboard TUI.
type KeyMap struct {
	// Navigation.
	Up   key.Binding
	Down key.Binding
	Home key.Binding
	End  key.Binding

	// Filter tabs.
	TabAll      key.Binding
	TabPending  key.Binding
	TabApproved key.Binding
	TabRejected key.Binding

	// Data.
	Refetch key.Binding

	// Adjudication (admin, pending rows only).
	Approve key.Binding
	Reject  key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set. Vim-style navigation
// (j/k) alongside standard arrow keys.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Home: key.NewBinding(
		key.WithKeys("g", "home"),
		key.WithHelp("g", "top"),
	),
	End: key.NewBinding(
		key.WithKeys("G", "end"),
		key.WithHelp("G", "bottom"),
	),
	TabAll: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "all"),
	),
	TabPending: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "pending"),
	),
	TabApproved: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "approved"),
	),
	TabRejected: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "rejected"),
	),
	Refetch: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Approve: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "approve"),
	),
	Reject: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "reject"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
