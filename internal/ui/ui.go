package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pollsterfm/pollster/internal/catalog"
)

// ViewState identifies the active screen.
type ViewState int

const (
	QueryView ViewState = iota
	ResolveView
	DetailView
)

// Model is the root bubbletea model for the catalog browser.
type Model struct {
	ctx      context.Context
	resolver *catalog.Resolver

	view    ViewState
	input   textinput.Model
	results list.Model
	chain   *catalog.ChainResult
	err     error

	keys   keyMap
	help   help.Model
	width  int
	height int
}

// NewModel creates the TUI model. An optional initial query (same syntax as
// the input field) starts resolution immediately.
func NewModel(ctx context.Context, resolver *catalog.Resolver, initialQuery string) *Model {
	input := textinput.New()
	input.Placeholder = "artist / album / track"
	input.Focus()
	input.CharLimit = 200
	input.Width = 60

	results := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	results.Title = "Resolved records"
	results.SetShowStatusBar(false)
	results.SetFilteringEnabled(false)

	m := &Model{
		ctx:      ctx,
		resolver: resolver,
		view:     QueryView,
		input:    input,
		results:  results,
		keys:     newKeyMap(),
		help:     help.New(),
	}

	if initialQuery != "" {
		m.input.SetValue(initialQuery)
		m.view = ResolveView
	}

	return m
}

func (m *Model) Init() tea.Cmd {
	if m.view == ResolveView {
		return tea.Batch(textinput.Blink, m.resolveCmd(m.input.Value()))
	}
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) && m.view != QueryView {
			return m, tea.Quit
		}
		switch m.view {
		case QueryView:
			return m.handleQueryKeys(msg)
		case DetailView:
			return m.handleDetailKeys(msg)
		}
		return m, nil

	case chainResolvedMsg:
		m.chain = msg.chain
		m.err = msg.err
		m.results.SetItems(chainItems(msg.chain))
		m.view = DetailView
		return m, nil

	case errMsg:
		m.err = msg.err
		m.view = QueryView
		return m, nil
	}

	var cmd tea.Cmd
	switch m.view {
	case QueryView:
		m.input, cmd = m.input.Update(msg)
	case DetailView:
		m.results, cmd = m.results.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleQueryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			return m, nil
		}
		m.err = nil
		m.view = ResolveView
		return m, m.resolveCmd(query)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.back) {
		m.view = QueryView
		m.input.Focus()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

// resolveCmd resolves a query off the update loop.
//
// Queries use slash-separated segments: "artist", "artist / album", or
// "artist / album / track".
func (m *Model) resolveCmd(query string) tea.Cmd {
	artistName, albumName, trackName := splitQuery(query)

	return func() tea.Msg {
		chain, err := m.resolver.ResolveChain(m.ctx, artistName, albumName, trackName)
		return chainResolvedMsg{chain: chain, err: err}
	}
}

func splitQuery(query string) (artist, album, track string) {
	parts := strings.SplitN(query, "/", 3)
	artist = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		album = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		track = strings.TrimSpace(parts[2])
	}
	return artist, album, track
}

func (m *Model) View() string {
	switch m.view {
	case QueryView:
		return m.renderQuery()
	case ResolveView:
		return m.renderResolving()
	case DetailView:
		return m.renderDetail()
	}
	return ""
}

func (m *Model) renderQuery() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Pollster Catalog Browser"))
	b.WriteString("\n\n")
	b.WriteString("Enter a query (artist / album / track):\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n\n")
	}

	b.WriteString(styles.help.Render("enter: resolve, ctrl+c: quit"))
	return b.String()
}

func (m *Model) renderResolving() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Pollster Catalog Browser"))
	b.WriteString("\n\n")
	b.WriteString(styles.warn.Render("Resolving..."))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderDetail() string {
	var b strings.Builder
	b.WriteString(styles.title.Render("Pollster Catalog Browser"))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(styles.warn.Render(fmt.Sprintf("Partial result: %v", m.err)))
		b.WriteString("\n\n")
	} else {
		b.WriteString(styles.ok.Render("Chain resolved"))
		b.WriteString("\n\n")
	}

	b.WriteString(m.results.View())
	b.WriteString("\n")
	b.WriteString(styles.help.Render("esc: new query, q: quit"))
	return b.String()
}

// Run starts the TUI program and blocks until it exits.
func Run(ctx context.Context, resolver *catalog.Resolver, initialQuery string) error {
	program := tea.NewProgram(NewModel(ctx, resolver, initialQuery), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui exited: %w", err)
	}
	return nil
}
