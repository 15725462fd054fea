package ui

import (
	"fmt"
	"strings"

	"dailyflow/internal/reports"
	"dailyflow/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// HabitsPane lists one card per habit and owns the cursor.
type HabitsPane struct {
	summary *reports.TodaySummary
	weeks   map[string]*reports.RangeReport
	cursor  int
	offset  int
	width   int
	height  int
	styles  *Styles
	keys    KeyMap
}

func NewHabitsPane(styles *Styles, keys KeyMap) *HabitsPane {
	return &HabitsPane{
		summary: &reports.TodaySummary{},
		weeks:   map[string]*reports.RangeReport{},
		styles:  styles,
		keys:    keys,
	}
}

// SetData refreshes the cards from a summary and per-habit 7-day windows.
// The cursor follows selected when it names a habit.
func (p *HabitsPane) SetData(summary *reports.TodaySummary, weeks map[string]*reports.RangeReport, selected string) {
	p.summary = summary
	p.weeks = weeks
	for i, h := range summary.Habits {
		if h.Name == selected {
			p.cursor = i
			p.clampOffset()
			return
		}
	}
	p.cursor = max(0, min(p.cursor, len(summary.Habits)-1))
	p.clampOffset()
}

func (p *HabitsPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.clampOffset()
}

// Selected returns the habit under the cursor, or "" when there are none.
func (p *HabitsPane) Selected() string {
	if len(p.summary.Habits) == 0 {
		return ""
	}
	return p.summary.Habits[p.cursor].Name
}

// Len returns the number of cards.
func (p *HabitsPane) Len() int {
	return len(p.summary.Habits)
}

// Update moves the cursor. It reports whether the selection changed.
func (p *HabitsPane) Update(msg tea.Msg) bool {
	km, ok := msg.(tea.KeyMsg)
	if !ok || len(p.summary.Habits) == 0 {
		return false
	}
	prev := p.cursor
	last := len(p.summary.Habits) - 1
	switch {
	case key.Matches(km, p.keys.Down):
		p.cursor = min(p.cursor+1, last)
	case key.Matches(km, p.keys.Up):
		p.cursor = max(p.cursor-1, 0)
	case key.Matches(km, p.keys.Top):
		p.cursor = 0
	case key.Matches(km, p.keys.Bottom):
		p.cursor = last
	}
	p.clampOffset()
	return p.cursor != prev
}

// cardHeight is four content lines plus the border.
const cardHeight = 6

func (p *HabitsPane) visibleCards() int {
	if p.height <= 0 {
		return max(1, len(p.summary.Habits))
	}
	return max(1, p.height/cardHeight)
}

func (p *HabitsPane) clampOffset() {
	n := p.visibleCards()
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+n {
		p.offset = p.cursor - n + 1
	}
	p.offset = max(0, p.offset)
}

func (p *HabitsPane) View() string {
	if len(p.summary.Habits) == 0 {
		return p.styles.HintStyle.Render("(no habits yet, press a to add one)")
	}
	end := min(len(p.summary.Habits), p.offset+p.visibleCards())
	cards := make([]string, 0, end-p.offset)
	for i := p.offset; i < end; i++ {
		cards = append(cards, p.renderCard(p.summary.Habits[i], i == p.cursor))
	}
	out := lipgloss.JoinVertical(lipgloss.Left, cards...)
	if more := len(p.summary.Habits) - end; more > 0 {
		out += "\n" + p.styles.HintStyle.Render(fmt.Sprintf("  ↓ %d more", more))
	}
	return out
}

func (p *HabitsPane) renderCard(h reports.HabitStatus, selected bool) string {
	style := p.styles.CardStyle
	if selected {
		style = p.styles.CardSelectedStyle
	}
	inner := max(20, p.width-4)

	var dots []string
	if week := p.weeks[h.Name]; week != nil {
		for _, d := range week.Days {
			dots = append(dots, p.styles.Dot(d.Mood))
		}
	}

	lines := []string{
		p.styles.CardNameStyle.Render(truncateText(h.Name, inner)),
		p.styles.CardLineStyle.Render(reports.StreakLabel(h.Streak)),
		p.styles.CardLineStyle.Render(currentMoodLine(h)),
		strings.Join(dots, " ") + p.styles.HintStyle.Render("  last: "+h.Last.Label()),
	}
	return style.Width(inner).Render(strings.Join(lines, "\n"))
}

// currentMoodLine is "Current Mood: 😊 happy", or the empty glyph and
// dash when today is not done.
func currentMoodLine(h reports.HabitStatus) string {
	var m storage.Mood
	if h.DoneToday {
		m = h.TodayMood
	}
	return fmt.Sprintf("Current Mood: %s %s", m.Glyph(), m.Label())
}
