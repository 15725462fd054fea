package ui

import (
	"strings"

	"dailyflow/internal/config"
	"dailyflow/internal/storage"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Styles holds every style the views use, derived from the theme.
type Styles struct {
	ColorPrimary   lipgloss.Color
	ColorAccent    lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorDanger    lipgloss.Color
	ColorBg        lipgloss.Color
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color

	TitleStyle lipgloss.Style
	DateStyle  lipgloss.Style

	CardStyle         lipgloss.Style
	CardSelectedStyle lipgloss.Style
	CardNameStyle     lipgloss.Style
	CardLineStyle     lipgloss.Style

	PanelStyle     lipgloss.Style
	SectionStyle   lipgloss.Style
	HintStyle      lipgloss.Style
	EncourageStyle lipgloss.Style
	OverlayStyle   lipgloss.Style
	OverlayTitle   lipgloss.Style
	OptionStyle    lipgloss.Style
	OptionActive   lipgloss.Style
	MonospaceBlock lipgloss.Style

	HelpStyle    lipgloss.Style
	HelpKeyStyle lipgloss.Style
	StatusStyle  lipgloss.Style
	ErrorStyle   lipgloss.Style
}

// NewStyles builds styles from cfg's theme.
func NewStyles(cfg *config.Config) *Styles {
	return NewStylesFromTheme(&cfg.Theme)
}

// NewStylesFromTheme builds styles, using stock colours for empty fields.
func NewStylesFromTheme(theme *config.ThemeConfig) *Styles {
	s := &Styles{
		ColorPrimary:   colorOrDefault(theme.Primary, "#6CCB7E"),
		ColorAccent:    colorOrDefault(theme.Accent, "#A76A86"),
		ColorMuted:     colorOrDefault(theme.Muted, "#7E8A93"),
		ColorDanger:    lipgloss.Color("#D9534F"),
		ColorBg:        colorOrDefault(theme.Background, "#FAF7F2"),
		ColorText:      colorOrDefault(theme.Text, "#262626"),
		ColorTextMuted: lipgloss.Color("#8A8A8A"),
	}

	s.TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(s.ColorBg).Background(s.ColorPrimary).Padding(0, 1)
	s.DateStyle = lipgloss.NewStyle().Foreground(s.ColorTextMuted)

	s.CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorMuted).
		Padding(0, 1)
	s.CardSelectedStyle = s.CardStyle.
		Border(lipgloss.ThickBorder()).
		BorderForeground(s.ColorPrimary)
	s.CardNameStyle = lipgloss.NewStyle().Bold(true).Foreground(s.ColorText)
	s.CardLineStyle = lipgloss.NewStyle().Foreground(s.ColorText)

	s.PanelStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(s.ColorMuted).
		PaddingLeft(1)
	s.SectionStyle = lipgloss.NewStyle().Bold(true).Foreground(s.ColorText)
	s.HintStyle = lipgloss.NewStyle().Foreground(s.ColorTextMuted)
	s.EncourageStyle = lipgloss.NewStyle().Italic(true).Foreground(s.ColorAccent)

	s.OverlayStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.ColorPrimary).
		Padding(1, 2)
	s.OverlayTitle = lipgloss.NewStyle().Bold(true).Foreground(s.ColorPrimary)
	s.OptionStyle = lipgloss.NewStyle().Foreground(s.ColorText).Padding(0, 1)
	s.OptionActive = lipgloss.NewStyle().Bold(true).Foreground(s.ColorBg).Background(s.ColorPrimary).Padding(0, 1)
	s.MonospaceBlock = lipgloss.NewStyle().Foreground(s.ColorText)

	s.HelpStyle = lipgloss.NewStyle().Foreground(s.ColorTextMuted)
	s.HelpKeyStyle = lipgloss.NewStyle().Foreground(s.ColorAccent).Bold(true)
	s.StatusStyle = lipgloss.NewStyle().Foreground(s.ColorPrimary).Italic(true)
	s.ErrorStyle = lipgloss.NewStyle().Foreground(s.ColorDanger).Bold(true)
	return s
}

func colorOrDefault(hex, def string) lipgloss.Color {
	if hex != "" {
		return lipgloss.Color(hex)
	}
	return lipgloss.Color(def)
}

// Dot renders one mood dot in the mood's outline colour; "○" when empty.
func (s *Styles) Dot(m storage.Mood) string {
	a := m.Appearance()
	glyph := "●"
	if !m.Valid() {
		glyph = "○"
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(a.Outline)).Render(glyph)
}

// MoodCell renders a glyph on the mood's fill colour, padded to width
// display cells.
func (s *Styles) MoodCell(m storage.Mood, text string, width int) string {
	a := m.Appearance()
	return lipgloss.NewStyle().
		Background(lipgloss.Color(a.Fill)).
		Foreground(lipgloss.Color("#262626")).
		Render(padCell(text, width))
}

// RenderHelp renders "[key] desc" pairs.
func (s *Styles) RenderHelp(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, s.HelpKeyStyle.Render("["+pairs[i]+"]")+" "+s.HelpStyle.Render(pairs[i+1]))
	}
	return strings.Join(parts, "  ")
}

// truncateText shortens text to maxLen display cells.
func truncateText(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return runewidth.Truncate(text, maxLen, "…")
}

// padCell left-aligns text in exactly width display cells.
func padCell(text string, width int) string {
	text = runewidth.Truncate(text, width, "")
	return runewidth.FillRight(text, width)
}
