// Package ui prints user-facing messages: progress, warnings and results.
// Diagnostics go through charmbracelet/log instead.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	Green   = lipgloss.Color("#22C55E")
	Amber   = lipgloss.Color("#F59E0B")
	Red     = lipgloss.Color("#EF4444")
	Blue    = lipgloss.Color("#60A5FA")
	DimGray = lipgloss.Color("#9CA3AF")
)

type styles struct {
	success lipgloss.Style
	warn    lipgloss.Style
	err     lipgloss.Style
	info    lipgloss.Style
	dim     lipgloss.Style
	accent  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		success: r.NewStyle().Foreground(Green).Bold(true),
		warn:    r.NewStyle().Foreground(Amber),
		err:     r.NewStyle().Foreground(Red).Bold(true),
		info:    r.NewStyle(),
		dim:     r.NewStyle().Foreground(DimGray),
		accent:  r.NewStyle().Foreground(Blue).Bold(true),
	}
}
