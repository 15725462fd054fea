package reports

import (
	"fmt"
	"path/filepath"
	"strings"

	"dailyflow/internal/dates"
	"dailyflow/internal/fsutil"
	"dailyflow/internal/storage"
)

const separator = "----------------------------------------"

// FormatText renders the plain-text report shown in the report view.
// Export writes the same text plus a trailing newline.
func FormatText(r *RangeReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Report — %s\n", r.Habit)
	fmt.Fprintf(&b, "Range  — %s to %s\n", dates.FormatDisplay(r.Start), dates.FormatDisplay(r.End))
	b.WriteString(separator + "\n")
	for _, d := range r.Days {
		stamp := "—"
		if d.Done {
			stamp = "✓"
		}
		fmt.Fprintf(&b, "%s: %s  %s %s\n", dates.FormatDisplay(d.Date), stamp, d.Mood.Glyph(), d.Mood.Label())
	}
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "Completion: [%s] %d/%d days\n", Bar(r.CompletedCount, r.TotalDays, "█", "░"), r.CompletedCount, r.TotalDays)
	b.WriteString(TallyLine(r.MoodTally))
	return b.String()
}

// TallyLine renders the per-tag totals in display order.
func TallyLine(tally map[storage.Mood]int) string {
	parts := make([]string, 0, len(storage.Moods))
	for _, m := range storage.Moods {
		parts = append(parts, fmt.Sprintf("%s %d", m.Glyph(), tally[m]))
	}
	return strings.Join(parts, "  ")
}

// RecentLine renders one recent-activity entry as "DD-MM  name  glyph".
func RecentLine(e storage.RecentEntry) string {
	day := "--"
	if d, ok := dates.Parse(e.Day()); ok {
		day = d.Format(dates.ShortLayout)
	}
	if e.Cleared() {
		return fmt.Sprintf("%s  %s  🧽 clear", day, e.Habit)
	}
	return fmt.Sprintf("%s  %s  %s", day, e.Habit, storage.Mood(e.Mood).Glyph())
}

// StreakLabel renders "Streak: N day(s)".
func StreakLabel(n int) string {
	if n == 1 {
		return "Streak: 1 day"
	}
	return fmt.Sprintf("Streak: %d days", n)
}

// filenameReplacer keeps a habit name inside a single path element.
var filenameReplacer = strings.NewReplacer(" ", "_", "/", "_", `\`, "_", string(filepath.Separator), "_")

// ExportFilename names the export artifact for a report.
func ExportFilename(habit string, r *RangeReport) string {
	return fmt.Sprintf("report_%s_%s_to_%s.txt",
		filenameReplacer.Replace(habit),
		dates.FormatDisplay(r.Start),
		dates.FormatDisplay(r.End))
}

// Export writes the text report into dir, replacing any existing file of
// the same name, and returns the path written.
func Export(dir string, r *RangeReport) (string, error) {
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, ExportFilename(r.Habit, r))
	if err := fsutil.WriteFileAtomic(path, []byte(FormatText(r)+"\n"), 0644); err != nil {
		return "", fmt.Errorf("export report: %w", err)
	}
	return path, nil
}
