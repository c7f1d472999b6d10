// Package tui is the terminal sticker picker.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/hpungsan/stickerpack/internal/errors"
	"github.com/hpungsan/stickerpack/internal/ops"
	"github.com/hpungsan/stickerpack/internal/settings"
	"github.com/hpungsan/stickerpack/internal/sticker"
)

// sessionOpenedMsg is sent when the sticker index has been built.
type sessionOpenedMsg struct {
	session *ops.Session
}

// errMsg is sent when the session cannot be opened.
type errMsg struct {
	err error
}

// Model is the bubbletea model for one picker session.
type Model struct {
	ctx      context.Context
	resolver sticker.Resolver
	settings settings.Settings
	keys     KeyMap

	session *ops.Session
	input   textinput.Model
	items   []sticker.Entry
	total   int
	cursor  int

	width  int
	height int

	err       *errors.StickerError
	chosen    string
	cancelled bool
}

// New creates a picker for the given settings. The index is built by Init.
func New(ctx context.Context, resolver sticker.Resolver, s settings.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "Search stickers..."
	ti.Prompt = "/ "
	ti.CharLimit = ops.MaxQueryLength
	ti.Focus()

	return Model{
		ctx:      ctx,
		resolver: resolver,
		settings: s,
		keys:     Keys,
		input:    ti,
		width:    80,
	}
}

// Init starts building the index.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.openSession())
}

func (m Model) openSession() tea.Cmd {
	return func() tea.Msg {
		session, err := ops.OpenSession(m.ctx, m.resolver, m.settings)
		if err != nil {
			return errMsg{err: err}
		}
		return sessionOpenedMsg{session: session}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, msg.Width-4)
		return m, nil

	case sessionOpenedMsg:
		m.session = msg.session
		m.refresh()
		return m, nil

	case errMsg:
		m.err = errors.As(msg.err)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.cancelled = true
			if m.session != nil {
				m.session.Close()
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Choose):
			return m.choose()
		case key.Matches(msg, m.keys.Left):
			m.move(-1)
			return m, nil
		case key.Matches(msg, m.keys.Right):
			m.move(1)
			return m, nil
		case key.Matches(msg, m.keys.Up):
			m.move(-m.columns())
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.move(m.columns())
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.cursor = 0
		m.refresh()
	}
	return m, cmd
}

// refresh re-runs the query against the open session.
func (m *Model) refresh() {
	if m.session == nil {
		return
	}
	out, err := m.session.Filter(m.input.Value())
	if err != nil {
		m.err = errors.As(err)
		m.items = nil
		m.total = 0
		return
	}
	m.err = nil
	m.items = out.Items
	m.total = out.Total
	if m.cursor >= len(m.items) {
		m.cursor = max(0, len(m.items)-1)
	}
}

func (m Model) choose() (tea.Model, tea.Cmd) {
	if m.session == nil || len(m.items) == 0 {
		return m, nil
	}
	ref, err := m.session.Choose(m.items[m.cursor].Path)
	if err != nil {
		m.err = errors.As(err)
		return m, nil
	}
	m.chosen = ref
	return m, tea.Quit
}

// move shifts the selection by delta, staying inside the grid.
func (m *Model) move(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.items) {
		return
	}
	m.cursor = next
}

// columns is the number of tiles per grid row at the current width.
func (m Model) columns() int {
	return max(1, m.width/tileOuterWidth())
}

// Chosen returns the formatted reference, if a sticker was picked.
func (m Model) Chosen() (string, bool) {
	return m.chosen, m.chosen != ""
}

// Cancelled reports whether the picker was dismissed without a choice.
func (m Model) Cancelled() bool {
	return m.cancelled
}

// View renders the picker.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorView(m.err))
	case m.session == nil:
		b.WriteString(mutedStyle.Render("Loading stickers..."))
	case len(m.items) == 0:
		b.WriteString(mutedStyle.Render("No stickers match."))
	default:
		b.WriteString(m.grid())
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%s of %s stickers",
			humanize.Comma(int64(len(m.items))), humanize.Comma(int64(m.total)))))
	}

	b.WriteString("\n\n")
	b.WriteString(m.helpView())
	return b.String()
}

func (m Model) header() string {
	folder := m.settings.StickerFolder
	if folder == "" {
		folder = "(none)"
	}
	size := m.settings.Size()
	if m.session != nil {
		size = m.session.Size()
	}
	return titleStyle.Render("Stickers") + "  " +
		mutedStyle.Render(fmt.Sprintf("folder: %s  size: %d", folder, size))
}

func (m Model) grid() string {
	cols := m.columns()
	var rows []string
	for start := 0; start < len(m.items); start += cols {
		end := min(start+cols, len(m.items))
		tiles := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			tiles = append(tiles, tile(m.items[i], i == m.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func tile(e sticker.Entry, selected bool) string {
	style := tileStyle
	if selected {
		style = selectedTileStyle
	}
	detail := strings.ToLower(e.Extension)
	if e.Size > 0 {
		detail += " " + humanize.Bytes(uint64(e.Size))
	}
	return style.Render(truncate(e.Basename, tileWidth) + "\n" + mutedStyle.Render(truncate(detail, tileWidth)))
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

func errorView(err *errors.StickerError) string {
	switch err.Code {
	case errors.ErrFolderUnset:
		return errorStyle.Render("No sticker folder set.") + "\n" +
			mutedStyle.Render("Choose one with: stickerpack settings set --folder <path>")
	case errors.ErrFolderNotFound:
		return errorStyle.Render(err.Message) + "\n" +
			mutedStyle.Render("Check the folder in settings.")
	}
	return errorStyle.Render(err.Message)
}

func (m Model) helpView() string {
	parts := make([]string, 0, len(m.keys.ShortHelp()))
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return mutedStyle.Render(strings.Join(parts, " • "))
}

// Run shows the picker on the terminal and returns the chosen reference.
// ok is false when the user cancels.
func Run(ctx context.Context, resolver sticker.Resolver, s settings.Settings) (string, bool, error) {
	p := tea.NewProgram(
		New(ctx, resolver, s),
		tea.WithAltScreen(),
		tea.WithOutput(os.Stderr),
		tea.WithContext(ctx),
	)
	final, err := p.Run()
	if err != nil {
		return "", false, err
	}
	m, ok := final.(Model)
	if !ok {
		return "", false, nil
	}
	if m.session != nil && !m.session.Closed() {
		m.session.Close()
	}
	ref, chosen := m.Chosen()
	return ref, chosen, nil
}
