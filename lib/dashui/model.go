// Copyright 2026 The Altrium Authors
// SPDX-License-Identifier: Apache-2.0

// Package dashui implements the interactive credential dashboard.
//
// The dashboard renders one fetched credential snapshot at a time.
// Filter tabs slice that snapshot locally; the totals in the header
// are tallied from it. Data changes only on explicit refresh or after
// an adjudication, never by background polling.
package dashui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/altrium-foundation/altrium/lib/authz"
	"github.com/altrium-foundation/altrium/lib/credential"
	"github.com/altrium-foundation/altrium/lib/session"
)

// sessionResolvedMsg delivers the bootstrap result.
type sessionResolvedMsg struct {
	snapshot session.Snapshot
}

// credentialsMsg delivers a fetched credential snapshot, or the error
// that prevented one.
type credentialsMsg struct {
	records []credential.Credential
	err     error
}

// adjudicatedMsg is sent when an asynchronous status change completes.
// On success err is nil and a refetch follows.
type adjudicatedMsg struct {
	err error
}

// Model is the bubbletea model for the credential dashboard.
type Model struct {
	store  *session.Store
	logger *slog.Logger
	keys   KeyMap
	theme  Theme

	width  int
	height int

	snapshot session.Snapshot
	records  []credential.Credential
	filter   credential.Filter
	cursor   int
	loading  bool
	notice   string
}

// New creates a dashboard model. The session store may be resolved or
// not; Init bootstraps it either way.
func New(store *session.Store, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	return Model{
		store:   store,
		logger:  logger,
		keys:    DefaultKeyMap,
		theme:   DefaultTheme,
		loading: true,
	}
}

// Init resolves the session. Credential data is fetched only after
// the session resolves authenticated.
func (m Model) Init() tea.Cmd {
	store := m.store
	return func() tea.Msg {
		return sessionResolvedMsg{snapshot: store.Bootstrap(context.Background())}
	}
}

// fetch loads the credential snapshot for the current session.
func (m Model) fetch() tea.Cmd {
	api := m.store.API()
	return func() tea.Msg {
		records, err := api.Credentials(context.Background())
		return credentialsMsg{records: records, err: err}
	}
}

// adjudicate moves the credential to target asynchronously.
func (m Model) adjudicate(record credential.Credential, target credential.Status) tea.Cmd {
	api := m.store.API()
	return func() tea.Msg {
		_, err := api.SetCredentialStatus(context.Background(), record.ID, target)
		return adjudicatedMsg{err: err}
	}
}

// visible returns the records passing the active filter tab.
func (m Model) visible() []credential.Credential {
	return credential.Partition(m.records, m.filter)
}

// clampCursor keeps the cursor inside the visible slice after filter
// changes and refetches.
func (m *Model) clampCursor() {
	visible := len(m.visible())
	if visible == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= visible {
		m.cursor = visible - 1
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case sessionResolvedMsg:
		m.snapshot = msg.snapshot
		if m.snapshot.Authenticated() {
			m.loading = true
			return m, m.fetch()
		}
		m.loading = false
		return m, nil

	case credentialsMsg:
		m.loading = false
		if msg.err != nil {
			m.notice = fmt.Sprintf("fetch failed: %v", msg.err)
			m.logger.Warn("credential fetch failed", "error", msg.err)
			// A failed fetch keeps the previous snapshot on screen.
			return m, nil
		}
		m.notice = ""
		m.records = msg.records
		m.clampCursor()
		return m, nil

	case adjudicatedMsg:
		if msg.err != nil {
			m.notice = fmt.Sprintf("update failed: %v", msg.err)
			m.logger.Warn("adjudication failed", "error", msg.err)
			return m, nil
		}
		m.notice = ""
		return m, m.fetch()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
	case key.Matches(msg, m.keys.End):
		if visible := len(m.visible()); visible > 0 {
			m.cursor = visible - 1
		}

	case key.Matches(msg, m.keys.TabAll):
		m.filter = credential.FilterAll
		m.clampCursor()
	case key.Matches(msg, m.keys.TabPending):
		m.filter = credential.FilterPending
		m.clampCursor()
	case key.Matches(msg, m.keys.TabApproved):
		m.filter = credential.FilterApproved
		m.clampCursor()
	case key.Matches(msg, m.keys.TabRejected):
		m.filter = credential.FilterRejected
		m.clampCursor()

	case key.Matches(msg, m.keys.Refetch):
		if m.snapshot.Authenticated() {
			m.loading = true
			return m, m.fetch()
		}

	case key.Matches(msg, m.keys.Approve):
		return m.tryAdjudicate(credential.StatusApproved)
	case key.Matches(msg, m.keys.Reject):
		return m.tryAdjudicate(credential.StatusRejected)
	}
	return m, nil
}

// tryAdjudicate starts an adjudication of the selected row when the
// current role and the row's status permit one. Ineligible presses
// are ignored rather than reported: the help line only advertises
// a/x to admins.
func (m Model) tryAdjudicate(target credential.Status) (tea.Model, tea.Cmd) {
	if !m.snapshot.Authenticated() {
		return m, nil
	}
	visible := m.visible()
	if m.cursor >= len(visible) {
		return m, nil
	}
	selected := visible[m.cursor]
	if !credential.CanAdjudicate(m.snapshot.User.Role, selected.Status) {
		return m, nil
	}
	return m, m.adjudicate(selected, target)
}

func (m Model) View() string {
	switch authz.Decide(m.snapshot, nil).Decision {
	case authz.DecisionPending:
		return "Resolving session...\n"
	case authz.DecisionRedirect:
		return "Not logged in. Run 'altrium login' first. (q to quit)\n"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.renderRows())
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.ErrorText).Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(m.renderHelp())
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderHeader() string {
	user := m.snapshot.User
	title := fmt.Sprintf("Altrium Credentials — %s (%s)", user.DisplayName(), user.Role)
	return lipgloss.NewStyle().
		Foreground(m.theme.HeaderForeground).
		Bold(true).
		Render(m.truncate(title))
}

func (m Model) renderTabs() string {
	stats := credential.Tally(m.records)
	counts := map[credential.Filter]int{
		credential.FilterAll:      stats.Total,
		credential.FilterPending:  stats.Pending,
		credential.FilterApproved: stats.Approved,
		credential.FilterRejected: stats.Rejected,
	}

	active := lipgloss.NewStyle().
		Background(m.theme.TabActiveBackground).
		Foreground(m.theme.TabActiveForeground).
		Padding(0, 1)
	inactive := lipgloss.NewStyle().
		Foreground(m.theme.FaintText).
		Padding(0, 1)

	var tabs []string
	for i, filter := range credential.Filters {
		label := fmt.Sprintf("%d:%s %d", i+1, filter, counts[filter])
		if filter == m.filter {
			tabs = append(tabs, active.Render(label))
		} else {
			tabs = append(tabs, inactive.Render(label))
		}
	}
	return strings.Join(tabs, " ")
}

func (m Model) renderRows() string {
	visible := m.visible()
	if m.loading && len(visible) == 0 {
		return lipgloss.NewStyle().Foreground(m.theme.FaintText).Render("Loading...")
	}
	if len(visible) == 0 {
		return lipgloss.NewStyle().Foreground(m.theme.FaintText).Render("No credentials.")
	}

	normal := lipgloss.NewStyle().Foreground(m.theme.NormalText)
	selected := lipgloss.NewStyle().
		Background(m.theme.SelectedBackground).
		Foreground(m.theme.SelectedForeground)

	var rows []string
	for i, record := range visible {
		status := lipgloss.NewStyle().
			Foreground(m.theme.StatusColor(record.Status)).
			Render(fmt.Sprintf("%-8s", record.Status))
		line := fmt.Sprintf("%s  %s  %s",
			status, record.UpdatedAt.Format("2006-01-02"), record.Title)
		line = m.truncate(line)
		if i == m.cursor {
			rows = append(rows, selected.Render(line))
		} else {
			rows = append(rows, normal.Render(line))
		}
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderHelp() string {
	bindings := []key.Binding{
		m.keys.Up, m.keys.Down,
		m.keys.TabAll, m.keys.TabPending, m.keys.TabApproved, m.keys.TabRejected,
		m.keys.Refetch,
	}
	if m.snapshot.Authenticated() && credential.CanIssue(m.snapshot.User.Role) {
		bindings = append(bindings, m.keys.Approve, m.keys.Reject)
	}
	bindings = append(bindings, m.keys.Quit)

	var parts []string
	for _, binding := range bindings {
		help := binding.Help()
		parts = append(parts, fmt.Sprintf("%s %s", help.Key, help.Desc))
	}
	return lipgloss.NewStyle().
		Foreground(m.theme.HelpText).
		Render(m.truncate(strings.Join(parts, " · ")))
}

// truncate clips a rendered line to the terminal width, accounting
// for escape sequences and wide runes.
func (m Model) truncate(line string) string {
	if m.width <= 0 {
		return line
	}
	return ansi.Truncate(line, m.width, "…")
}
