package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// HelpOverlay lists the active key bindings.
type HelpOverlay struct {
	width  int
	height int
	styles *Styles
	keys   KeyMap
}

func NewHelpOverlay(styles *Styles, keys KeyMap) *HelpOverlay {
	return &HelpOverlay{styles: styles, keys: keys}
}

func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

func (h *HelpOverlay) View() string {
	s := h.styles
	keyStyle := lipgloss.NewStyle().Foreground(s.ColorAccent).Width(14)
	section := func(b *strings.Builder, title string, bindings ...key.Binding) {
		b.WriteString("\n")
		b.WriteString(s.SectionStyle.Render(title))
		b.WriteString("\n")
		for _, kb := range bindings {
			b.WriteString(keyStyle.Render(kb.Help().Key) + kb.Help().Desc + "\n")
		}
	}

	var b strings.Builder
	b.WriteString(s.OverlayTitle.Render("📖 DailyFlow+ — Keyboard Shortcuts"))
	b.WriteString("\n")
	k := h.keys
	section(&b, "Habits", k.AddHabit, k.MarkHabit, k.DeleteHabit, k.Up, k.Down, k.Top, k.Bottom)
	section(&b, "Views", k.Report, k.Trend, k.Calendar, k.Export, k.PrevMonth, k.NextMonth)
	section(&b, "General", k.Undo, k.Redo, k.Help, k.Quit)
	b.WriteString("\n")
	b.WriteString(s.HintStyle.Render("In the mood picker 1-4 choose a mood and 5 clears today."))
	b.WriteString("\n\n")
	b.WriteString(s.HintStyle.Render("Press ? or Esc to close"))

	return overlay(s, h.width, h.height, b.String())
}

// overlay boxes content and centres it in the terminal. The box grows
// with its content but never past the terminal width.
func overlay(s *Styles, width, height int, content string) string {
	boxWidth := max(40, lipgloss.Width(content)) + 4
	if width > 0 {
		boxWidth = min(boxWidth, max(24, width-2))
	}
	box := s.OverlayStyle.Width(boxWidth).Render(content)
	if width <= 0 || height <= 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
