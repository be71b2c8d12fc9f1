package tui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/simon/yati/internal/ui"
)

const (
	nameColMax = 48
	pathColMax = 40
)

var (
	selectionBg = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#1F2937"}

	theme = struct {
		title, header, cursor, selected lipgloss.Style
		live, faint, prompt             lipgloss.Style
		danger, key, hint               lipgloss.Style
	}{
		title:    lipgloss.NewStyle().Foreground(ui.Blue).Bold(true).PaddingLeft(1),
		header:   lipgloss.NewStyle().Foreground(ui.DimGray).Underline(true),
		cursor:   lipgloss.NewStyle().Foreground(ui.Blue).Bold(true),
		selected: lipgloss.NewStyle().Background(selectionBg),
		live:     lipgloss.NewStyle().Foreground(ui.Green),
		faint:    lipgloss.NewStyle().Foreground(ui.DimGray),
		prompt:   lipgloss.NewStyle().Foreground(ui.Blue).Bold(true),
		danger:   lipgloss.NewStyle().Foreground(ui.Red).Bold(true),
		key:      lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(ui.Red).Padding(0, 1),
		hint:     lipgloss.NewStyle().Foreground(ui.DimGray),
	}
)

// padTo fills s with spaces up to a visual width of n.
func padTo(s string, n int) string {
	if w := lipgloss.Width(s); w < n {
		return s + strings.Repeat(" ", n-w)
	}
	return s
}

// tildePath replaces the home directory with ~ and keeps the tail of paths
// longer than limit.
func tildePath(p string, limit int) string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		if rest, ok := strings.CutPrefix(p, home); ok {
			p = "~" + rest
		}
	}
	r := []rune(p)
	if len(r) <= limit {
		return p
	}
	return "…" + string(r[len(r)-limit+1:])
}

// formatAge renders a coarse age like "5m", "3h" or "2d".
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	lines := []string{theme.title.Render("yati"), ""}
	switch {
	case m.err != nil:
		lines = append(lines, "  Error: "+m.err.Error(), "")
	case len(m.items) == 0:
		lines = append(lines, "  No worktrees. Run: yati create <branch>", "")
	default:
		lines = append(lines, m.table(time.Now())...)
		lines = append(lines, "")
	}
	lines = append(lines, theme.prompt.Render(" > ")+m.input.View(), m.footer())

	return strings.Join(lines, "\n") + "\n"
}

// footer is either the teardown confirmation or a context help line, so the
// layout does not jump when one replaces the other.
func (m Model) footer() string {
	switch {
	case m.confirm != nil:
		return " " + theme.danger.Render(fmt.Sprintf("Tear down '%s'?", m.confirm.Session)) +
			"  " + theme.key.Render("Enter") + " " + theme.hint.Render("confirm") +
			"  " + theme.key.Render("Esc") + " " + theme.hint.Render("cancel")
	case strings.HasPrefix(m.input.Value(), newCommand):
		return theme.hint.Render(" /new <branch>  create a worktree in the current project")
	default:
		return theme.hint.Render(" enter activate · type to filter · ↑/↓ move · ctrl+k tear down · esc quit")
	}
}

// table renders the visible window of filtered items with a header and
// scroll indicators.
func (m Model) table(now time.Time) []string {
	first := m.scrollOffset
	last := min(first+m.maxVisibleRows(), len(m.filtered))
	visible := m.filtered[first:last]

	nameW := len("WORKTREE")
	for _, it := range visible {
		nameW = max(nameW, lipgloss.Width(it.Session))
	}
	nameW = min(nameW, nameColMax)

	cols := func(name, tmux, active, path string) string {
		return padTo(name, nameW) + "  " + padTo(tmux, 4) + "  " + padTo(active, 6) + "  " + path
	}

	out := []string{"    " + theme.header.Render(cols("WORKTREE", "TMUX", "ACTIVE", "PATH"))}
	if first > 0 {
		out = append(out, theme.hint.Render(fmt.Sprintf("    ↑ %d more", first)))
	}
	for i, it := range visible {
		row := cols(
			truncate(it.Session, nameW),
			sessionMarker(it),
			theme.faint.Render(activeLabel(it.LastActive, now)),
			theme.faint.Render(tildePath(it.Path, pathColMax)),
		)
		if first+i == m.cursor {
			out = append(out, theme.cursor.Render(" > ")+theme.selected.Render(row))
		} else {
			out = append(out, "   "+row)
		}
	}
	if rest := len(m.filtered) - last; rest > 0 {
		out = append(out, theme.hint.Render(fmt.Sprintf("    ↓ %d more", rest)))
	}
	return out
}

// sessionMarker is ● for a session a client is showing, ○ for a detached
// session and · when there is none.
func sessionMarker(it Item) string {
	switch {
	case it.Attached:
		return theme.live.Render("●")
	case it.HasSession:
		return theme.live.Render("○")
	default:
		return theme.faint.Render("·")
	}
}

func activeLabel(at, now time.Time) string {
	if at.IsZero() {
		return "-"
	}
	return formatAge(now.Sub(at))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
