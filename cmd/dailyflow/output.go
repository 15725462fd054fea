package main

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// isTerminal reports whether w (or r) is an interactive terminal.
func isTerminal(v any) bool {
	if f, ok := v.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// printer styles plain command output. Colour is dropped when the output
// is not a terminal or --no-color is set.
type printer struct {
	ok    lipgloss.Style
	warn  lipgloss.Style
	muted lipgloss.Style
	bold  lipgloss.Style
}

func newPrinter(w io.Writer, color bool) *printer {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}
	return &printer{
		ok:    r.NewStyle().Foreground(lipgloss.Color("#6CCB7E")),
		warn:  r.NewStyle().Foreground(lipgloss.Color("#D9534F")).Bold(true),
		muted: r.NewStyle().Foreground(lipgloss.Color("#8A8A8A")),
		bold:  r.NewStyle().Bold(true),
	}
}

// printerFor picks colour from the terminal check and the global flag.
func (a *cliApp) printerFor(w io.Writer) *printer {
	return newPrinter(w, !a.noColor && isTerminal(w))
}

// pad left-aligns s in width display cells; emoji count as two.
func pad(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}
