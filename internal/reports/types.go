// Package reports derives streaks, completion summaries, range reports
// and calendar grids from the habit document.
package reports

import (
	"time"

	"dailyflow/internal/storage"
)

// DayEntry is one day of a range report. Mood is empty when nothing was
// recorded; Done applies the history fallback.
type DayEntry struct {
	Date time.Time
	Mood storage.Mood
	Done bool
}

// RangeReport aggregates one habit over an inclusive day range.
type RangeReport struct {
	Habit          string
	Start          time.Time
	End            time.Time
	Days           []DayEntry
	CompletedCount int
	TotalDays      int
	// MoodTally always carries all four tags; unknown tags are not counted.
	MoodTally map[storage.Mood]int
}

// Percent returns the completion ratio as a rounded percentage.
func (r *RangeReport) Percent() int {
	return Percent(r.CompletedCount, r.TotalDays)
}

// CalendarCell is one slot of a month grid. Slots outside the month have
// InMonth false and a zero Date.
type CalendarCell struct {
	Date    time.Time
	Mood    storage.Mood
	InMonth bool
}

// Calendar is a Monday-first month grid for one habit.
type Calendar struct {
	Habit string
	Year  int
	Month time.Month
	Weeks [][7]CalendarCell
}

// HabitStatus is the per-habit line of the today view.
type HabitStatus struct {
	Name      string
	TodayMood storage.Mood // set only when today counts as done
	DoneToday bool
	Streak    int
	Last      storage.Mood
}

// TodaySummary is the "Today Summary" panel.
type TodaySummary struct {
	Date   time.Time
	Done   int
	Total  int
	Habits []HabitStatus
}
