package ui

import (
	"fmt"
	"strings"

	"dailyflow/internal/reports"
	"dailyflow/internal/storage"
)

// recentShown is how many recent entries the side panel lists.
const recentShown = 5

// sidePanel is the right-hand column: encouragement, today summary,
// recent activity and the selected habit's last seven days.
type sidePanel struct {
	summary   *reports.TodaySummary
	recent    []storage.RecentEntry
	selected  string
	week      *reports.RangeReport
	encourage string
	showTip   bool
}

func (a *App) renderSidePanel(width int) string {
	s := a.styles
	p := a.panel
	var b strings.Builder

	if p.showTip && p.encourage != "" {
		b.WriteString(s.EncourageStyle.Render(truncateText("✨ "+p.encourage, width)))
		b.WriteString("\n\n")
	}

	b.WriteString(s.SectionStyle.Render("🌿 Today Summary"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  %d/%d habits\n\n",
		reports.MiniBar(p.summary.Done, p.summary.Total), p.summary.Done, p.summary.Total)

	b.WriteString(s.SectionStyle.Render("📅 Recent Activity"))
	b.WriteString("\n")
	if len(p.recent) == 0 {
		b.WriteString(s.HintStyle.Render("(no recent activity)"))
		b.WriteString("\n")
	}
	for _, e := range p.recent {
		b.WriteString(s.HintStyle.Render(truncateText(reports.RecentLine(e), width)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	title := "📊 7-Day Mood Dots"
	if p.selected != "" {
		title += " — " + p.selected
	}
	b.WriteString(s.SectionStyle.Render(truncateText(title, width)))
	b.WriteString("\n")
	if p.week == nil {
		b.WriteString(s.HintStyle.Render("(select a habit on the left)"))
		return s.PanelStyle.Width(width).Render(b.String())
	}
	var dots, glyphs []string
	for _, d := range p.week.Days {
		dots = append(dots, s.Dot(d.Mood)+" ")
		glyphs = append(glyphs, padCell(d.Mood.Glyph(), 2))
	}
	b.WriteString(strings.Join(dots, " "))
	b.WriteString("\n")
	b.WriteString(strings.Join(glyphs, " "))
	b.WriteString("\n")
	b.WriteString(s.HintStyle.Render(fmt.Sprintf("(%d/7 days complete)", p.week.CompletedCount)))

	return s.PanelStyle.Width(width).Render(b.String())
}
