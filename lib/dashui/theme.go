// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

package dashui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/altrium-foundation/altrium/lib/credential"
)

// Theme defines the color palette for the dashboard. All colors use
// lipgloss ANSI 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Credential status colors.
	StatusPending  lipgloss.Color
	StatusApproved lipgloss.Color
	StatusRejected lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color
	ErrorText        lipgloss.Color

	// Active filter tab.
	TabActiveBackground lipgloss.Color
	TabActiveForeground lipgloss.Color
}

// StatusColor returns the color for a credential status. Unknown
// values return FaintText.
func (theme Theme) StatusColor(status credential.Status) lipgloss.Color {
	switch status {
	case credential.StatusPending:
		return theme.StatusPending
	case credential.StatusApproved:
		return theme.StatusApproved
	case credential.StatusRejected:
		return theme.StatusRejected
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme. Designed
// for 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	StatusPending:  lipgloss.Color("220"), // yellow/amber
	StatusApproved: lipgloss.Color("114"), // green
	StatusRejected: lipgloss.Color("196"), // red

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),
	ErrorText:        lipgloss.Color("203"),

	TabActiveBackground: lipgloss.Color("25"),
	TabActiveForeground: lipgloss.Color("255"),
}
