package ui

import (
	"fmt"
	"strings"
	"time"

	"dailyflow/internal/dates"
	"dailyflow/internal/reports"
	"dailyflow/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// Report
// =============================================================================

// reportView shows the text report with scrolling; the export key writes
// it to the export directory.
type reportView struct {
	report *reports.RangeReport
	lines  []string
	offset int
}

func newReportView(r *reports.RangeReport) *reportView {
	return &reportView{report: r, lines: strings.Split(reports.FormatText(r), "\n")}
}

func (v *reportView) scroll(msg tea.KeyMsg, keys KeyMap, visible int) {
	maxOffset := max(0, len(v.lines)-visible)
	switch {
	case key.Matches(msg, keys.Down):
		v.offset = min(v.offset+1, maxOffset)
	case key.Matches(msg, keys.Up):
		v.offset = max(v.offset-1, 0)
	case key.Matches(msg, keys.Top):
		v.offset = 0
	case key.Matches(msg, keys.Bottom):
		v.offset = maxOffset
	}
}

func (v *reportView) view(s *Styles, visible int) string {
	var b strings.Builder
	b.WriteString(s.OverlayTitle.Render("Report — " + truncateText(v.report.Habit, 40)))
	b.WriteString("\n")
	b.WriteString(s.HintStyle.Render(dates.FormatDisplay(v.report.Start) + " to " + dates.FormatDisplay(v.report.End)))
	b.WriteString("\n\n")

	end := len(v.lines)
	if visible > 0 {
		end = min(end, v.offset+visible)
	}
	b.WriteString(s.MonospaceBlock.Render(strings.Join(v.lines[v.offset:end], "\n")))
	b.WriteString("\n\n")
	b.WriteString(s.RenderHelp("j/k", "scroll", "e", "export", "esc", "close"))
	return b.String()
}

// =============================================================================
// Trend
// =============================================================================

// trendView is the dot strip for a range of at most the trend cap.
type trendView struct {
	report *reports.RangeReport
}

// trendCell is the width of one day in the strip.
const trendCell = 3

func (v *trendView) view(s *Styles, width int) string {
	r := v.report
	var b strings.Builder
	b.WriteString(s.OverlayTitle.Render(fmt.Sprintf("Mood Trend — %s  (%s → %s)",
		truncateText(r.Habit, 30), dates.FormatDisplay(r.Start), dates.FormatDisplay(r.End))))
	b.WriteString("\n\n")

	perRow := max(7, width/trendCell)
	for i := 0; i < len(r.Days); i += perRow {
		row := r.Days[i:min(len(r.Days), i+perRow)]
		var dayNums, dots, glyphs strings.Builder
		for _, d := range row {
			dayNums.WriteString(padCell(d.Date.Format("02"), trendCell))
			dots.WriteString(s.Dot(d.Mood) + strings.Repeat(" ", trendCell-1))
			glyphs.WriteString(padCell(d.Mood.Glyph(), trendCell))
		}
		b.WriteString(s.HintStyle.Render(dayNums.String()))
		b.WriteString("\n" + dots.String() + "\n" + glyphs.String() + "\n\n")
	}

	fmt.Fprintf(&b, "Completion: %d/%d days (%d%%)\n", r.CompletedCount, r.TotalDays, r.Percent())
	b.WriteString(reports.TallyLine(r.MoodTally))
	b.WriteString("\n\n")
	b.WriteString(s.RenderHelp("esc", "close"))
	return b.String()
}

// =============================================================================
// Calendar
// =============================================================================

// calendarView is the month grid with habit cycling and month paging.
type calendarView struct {
	habits   []string
	habitIdx int
	year     int
	month    time.Month
}

func newCalendarView(habits []string, selected string, today time.Time) *calendarView {
	v := &calendarView{habits: habits, year: today.Year(), month: today.Month()}
	for i, h := range habits {
		if h == selected {
			v.habitIdx = i
		}
	}
	return v
}

func (v *calendarView) habit() string {
	return v.habits[v.habitIdx]
}

// update pages months and cycles habits. It reports whether the habit
// changed so the app can follow the selection.
func (v *calendarView) update(msg tea.KeyMsg, keys KeyMap) bool {
	switch {
	case key.Matches(msg, keys.PrevMonth):
		v.year, v.month = reports.Prev(v.year, v.month)
	case key.Matches(msg, keys.NextMonth):
		v.year, v.month = reports.Next(v.year, v.month)
	case key.Matches(msg, keys.Down), msg.String() == "tab":
		v.habitIdx = (v.habitIdx + 1) % len(v.habits)
		return true
	case key.Matches(msg, keys.Up), msg.String() == "shift+tab":
		v.habitIdx = (v.habitIdx + len(v.habits) - 1) % len(v.habits)
		return true
	}
	return false
}

// calendarCell is the width of one grid cell: day number plus glyph.
const calendarCell = 7

func (v *calendarView) view(s *Styles, cal *reports.Calendar) string {
	var b strings.Builder
	b.WriteString(s.OverlayTitle.Render(fmt.Sprintf("◀ %s ▶", cal.Title())))
	b.WriteString("   Habit: " + s.CardNameStyle.Render(truncateText(cal.Habit, 30)))
	if len(v.habits) > 1 {
		b.WriteString(s.HintStyle.Render(fmt.Sprintf("  (%d/%d)", v.habitIdx+1, len(v.habits))))
	}
	b.WriteString("\n\n")

	var header []string
	for _, wd := range reports.WeekdayHeaders {
		header = append(header, s.SectionStyle.Render(padCell(wd, calendarCell)))
	}
	b.WriteString(strings.Join(header, " "))
	b.WriteString("\n")

	for _, week := range cal.Weeks {
		cells := make([]string, 0, 7)
		for _, c := range week {
			if !c.InMonth {
				cells = append(cells, strings.Repeat(" ", calendarCell))
				continue
			}
			cells = append(cells, s.MoodCell(c.Mood, fmt.Sprintf("%2d %s", c.Date.Day(), c.Mood.Glyph()), calendarCell))
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	var legend []string
	for _, m := range append(append([]storage.Mood{}, storage.Moods...), "") {
		name := string(m)
		if name == "" {
			name = "none"
		}
		legend = append(legend, s.Dot(m)+" "+m.Glyph()+" "+name)
	}
	b.WriteString(s.HintStyle.Render(fmt.Sprintf("%d day(s) recorded", cal.Recorded())))
	b.WriteString("\n")
	b.WriteString(strings.Join(legend, "   "))
	b.WriteString("\n\n")
	b.WriteString(s.RenderHelp("←/→", "month", "j/k", "habit", "t", "trend", "esc", "close"))
	return b.String()
}
