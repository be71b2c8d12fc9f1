package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Printer writes styled messages. Styling is dropped when the output is not
// a terminal.
type Printer struct {
	out    io.Writer
	styles styles
}

// NewPrinter returns a Printer writing to out.
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	if !IsTerminal(out) {
		r.SetColorProfile(termenv.Ascii)
	}
	return &Printer{out: out, styles: newStyles(r)}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) println(style lipgloss.Style, msg string) {
	fmt.Fprintln(p.out, style.Render(msg))
}

// Info prints a plain progress message.
func (p *Printer) Info(format string, args ...interface{}) {
	p.println(p.styles.info, fmt.Sprintf(format, args...))
}

// Success prints a success message.
func (p *Printer) Success(format string, args ...interface{}) {
	p.println(p.styles.success, "✓ "+fmt.Sprintf(format, args...))
}

// Warn prints a warning. Used for best-effort steps that failed.
func (p *Printer) Warn(format string, args ...interface{}) {
	p.println(p.styles.warn, "Warning: "+fmt.Sprintf(format, args...))
}

// Error prints an error message.
func (p *Printer) Error(format string, args ...interface{}) {
	p.println(p.styles.err, "Error: "+fmt.Sprintf(format, args...))
}

// Dim prints a de-emphasised line.
func (p *Printer) Dim(format string, args ...interface{}) {
	p.println(p.styles.dim, fmt.Sprintf(format, args...))
}

// Accent renders s highlighted without printing it.
func (p *Printer) Accent(s string) string {
	return p.styles.accent.Render(s)
}

// Faint renders s de-emphasised without printing it.
func (p *Printer) Faint(s string) string {
	return p.styles.dim.Render(s)
}
