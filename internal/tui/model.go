// Package tui is the interactive worktree picker shown by a bare `yati`.
// The picker only chooses; the chosen lifecycle operation runs after the
// program exits so that tmux attach gets the terminal.
package tui

import (
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simon/yati/internal/workspace"
)

const (
	pollInterval = 1500 * time.Millisecond
	newCommand   = "/new"
)

// Action is what the user picked.
type Action int

const (
	NoAction Action = iota
	Activate
	Teardown
	Create
)

// Item is one worktree row.
type Item struct {
	Identity   workspace.Identity
	Session    string
	Path       string
	HasSession bool
	Attached   bool
	LastActive time.Time
}

// Loader returns the current worktrees. It is polled while the picker runs.
type Loader func() ([]Item, error)

type tickMsg time.Time

type itemsMsg []Item

type Model struct {
	items         []Item
	filtered      []Item
	cursor        int
	scrollOffset  int
	input         textinput.Model
	confirm       *Item
	load          Loader
	width, height int
	quitting      bool
	err           error

	// Set when the picker exits with a choice.
	Action Action
	Target workspace.Identity
	Branch string
}

func NewModel(load Loader) Model {
	ti := textinput.New()
	ti.Placeholder = "Type to filter, or /new <branch>"
	ti.Prompt = ""
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	return Model{
		input: ti,
		load:  load,
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.refresh, tickCmd())
}

func (m Model) refresh() tea.Msg {
	items, err := m.load()
	if err != nil {
		return err
	}
	return itemsMsg(items)
}

// SortItems orders items by most recent activity, then by session name.
func SortItems(items []Item) {
	slices.SortStableFunc(items, func(a, b Item) int {
		if c := b.LastActive.Compare(a.LastActive); c != 0 {
			return c
		}
		return strings.Compare(a.Session, b.Session)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case itemsMsg:
		m.items = []Item(msg)
		SortItems(m.items)
		m.applyFilter()
		return m, nil

	case error:
		m.err = msg
		return m, nil

	case tickMsg:
		return m, tea.Batch(tickCmd(), m.refresh)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		m.ensureCursorVisible()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// choose records the picked action and ends the program.
func (m Model) choose(action Action, target workspace.Identity) (tea.Model, tea.Cmd) {
	m.Action = action
	m.Target = target
	m.quitting = true
	return m, tea.Quit
}

// move shifts the cursor by delta, clamped to the filtered list.
func (m *Model) move(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.filtered) {
		return
	}
	m.cursor = next
	m.ensureCursorVisible()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.CtrlC) {
		m.quitting = true
		return m, tea.Quit
	}

	// Only Enter confirms a pending teardown; any other key cancels it.
	if pending := m.confirm; pending != nil {
		m.confirm = nil
		if key.Matches(msg, keys.Enter) {
			return m.choose(Teardown, pending.Identity)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Escape):
		if m.input.Value() == "" {
			m.quitting = true
			return m, tea.Quit
		}
		m.input.Reset()
		m.applyFilter()
		return m, nil

	case key.Matches(msg, keys.Teardown):
		m.confirm = m.selected()
		return m, nil

	case key.Matches(msg, keys.Up):
		m.move(-1)
		return m, nil

	case key.Matches(msg, keys.Down):
		m.move(1)
		return m, nil

	case key.Matches(msg, keys.Enter):
		if branch, ok := parseNewCommand(m.input.Value()); ok {
			m.Branch = branch
			return m.choose(Create, workspace.Identity{})
		}
		if sel := m.selected(); sel != nil {
			return m.choose(Activate, sel.Identity)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.move(-1)
	case tea.MouseButtonWheelDown:
		m.move(1)
	}
	return m, nil
}

// applyFilter narrows items to sessions containing the query,
// case-insensitively. Input starting with "/" is a command, not a filter.
func (m *Model) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.input.Value()))
	m.filtered = m.items
	if query != "" && !strings.HasPrefix(query, "/") {
		m.filtered = slices.DeleteFunc(slices.Clone(m.items), func(it Item) bool {
			return !strings.Contains(strings.ToLower(it.Session), query)
		})
	}
	m.cursor = min(m.cursor, max(0, len(m.filtered)-1))
	m.ensureCursorVisible()
}

// maxVisibleRows is the number of rows that fit next to the title, header,
// input and help lines.
func (m Model) maxVisibleRows() int {
	if m.height == 0 {
		return len(m.filtered)
	}
	return min(len(m.filtered), max(3, m.height-8))
}

// ensureCursorVisible scrolls the window so the cursor row is shown.
func (m *Model) ensureCursorVisible() {
	rows := m.maxVisibleRows()
	if rows <= 0 {
		m.scrollOffset = 0
		return
	}
	lo := max(0, m.cursor-rows+1)
	hi := min(m.cursor, len(m.filtered)-rows)
	m.scrollOffset = max(lo, min(m.scrollOffset, hi))
}

func (m Model) selected() *Item {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return nil
	}
	it := m.filtered[m.cursor]
	return &it
}

// parseNewCommand extracts the branch from "/new <branch>".
func parseNewCommand(text string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(text), newCommand+" ")
	if !ok {
		return "", false
	}
	fields := strings.Fields(rest)
	if len(fields) != 1 {
		return "", false
	}
	return fields[0], true
}
