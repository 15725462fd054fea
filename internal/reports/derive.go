package reports

import (
	"math"
	"strings"
	"time"

	"dailyflow/internal/dates"
	"dailyflow/internal/storage"
)

// IsDone is the single completion predicate: an explicit done marker or,
// for records written before done existed, any mood in history.
func IsDone(h *storage.Habit, day string) bool {
	if h == nil {
		return false
	}
	if h.Done[day] {
		return true
	}
	_, ok := h.History[day]
	return ok
}

// Streak counts consecutive done days ending today. It is 0 when today
// is not done.
func Streak(h *storage.Habit, today time.Time) int {
	n := 0
	for day := dates.Of(today); IsDone(h, dates.ISO(day)); day = day.AddDate(0, 0, -1) {
		n++
	}
	return n
}

// CompletionSummary counts how many of names are done on day.
func CompletionSummary(doc *storage.Document, names []string, day time.Time) (done, total int) {
	key := dates.ISO(dates.Of(day))
	for _, name := range names {
		h, ok := doc.Habits.Get(name)
		if !ok {
			continue
		}
		total++
		if IsDone(h, key) {
			done++
		}
	}
	return done, total
}

// BuildRange builds the per-day report for [start, end].
func BuildRange(name string, h *storage.Habit, start, end time.Time) *RangeReport {
	r := &RangeReport{
		Habit:     name,
		Start:     dates.Of(start),
		End:       dates.Of(end),
		MoodTally: make(map[storage.Mood]int, len(storage.Moods)),
	}
	for _, m := range storage.Moods {
		r.MoodTally[m] = 0
	}

	for _, day := range dates.Range(start, end) {
		key := dates.ISO(day)
		entry := DayEntry{Date: day, Done: IsDone(h, key)}
		if h != nil {
			entry.Mood = h.History[key]
		}
		if entry.Done {
			r.CompletedCount++
		}
		if entry.Mood.Valid() {
			r.MoodTally[entry.Mood]++
		}
		r.Days = append(r.Days, entry)
	}
	r.TotalDays = len(r.Days)
	return r
}

// WeekDots is the 7-day window ending today.
func WeekDots(name string, h *storage.Habit, today time.Time) *RangeReport {
	start, end := dates.LastDays(today, 7)
	return BuildRange(name, h, start, end)
}

// BuildCalendar lays out year/month in Monday-first weeks. Cells carry
// the history mood only; the done fallback does not apply here.
func BuildCalendar(name string, h *storage.Habit, year int, month time.Month) *Calendar {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(first.Weekday()) + 6) % 7
	daysIn := first.AddDate(0, 1, -1).Day()

	cal := &Calendar{Habit: name, Year: first.Year(), Month: first.Month()}
	var week [7]CalendarCell
	col := offset
	for d := 1; d <= daysIn; d++ {
		day := first.AddDate(0, 0, d-1)
		cell := CalendarCell{Date: day, InMonth: true}
		if h != nil {
			cell.Mood = h.History[dates.ISO(day)]
		}
		week[col] = cell
		col++
		if col == 7 {
			cal.Weeks = append(cal.Weeks, week)
			week = [7]CalendarCell{}
			col = 0
		}
	}
	if col > 0 {
		cal.Weeks = append(cal.Weeks, week)
	}
	return cal
}

// RecentEvents returns up to limit entries (newest first) whose habit
// still exists. limit <= 0 means no limit.
func RecentEvents(doc *storage.Document, limit int) []storage.RecentEntry {
	var out []storage.RecentEntry
	for _, e := range doc.Recent {
		if !doc.Habits.Has(e.Habit) {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Today builds the summary panel and per-habit status for day.
func Today(doc *storage.Document, day time.Time) *TodaySummary {
	day = dates.Of(day)
	key := dates.ISO(day)
	names := doc.Habits.Names()

	s := &TodaySummary{Date: day}
	s.Done, s.Total = CompletionSummary(doc, names, day)
	for _, name := range names {
		h, _ := doc.Habits.Get(name)
		st := HabitStatus{Name: name, DoneToday: IsDone(h, key), Streak: Streak(h, day)}
		if st.DoneToday {
			st.TodayMood = h.History[key]
		}
		if h.Last != nil {
			st.Last = *h.Last
		}
		s.Habits = append(s.Habits, st)
	}
	return s
}

// fillCells is round(done/total*10) with ties to even, clamped to [0,10].
func fillCells(done, total int) int {
	if total <= 0 {
		return 0
	}
	n := int(math.RoundToEven(float64(done) / float64(total) * 10))
	return max(0, min(10, n))
}

// Bar renders a 10-cell progress bar.
func Bar(done, total int, full, empty string) string {
	n := fillCells(done, total)
	return strings.Repeat(full, n) + strings.Repeat(empty, 10-n)
}

// MiniBar is the side-panel style bar.
func MiniBar(done, total int) string {
	return Bar(done, total, "■", "·")
}

// Percent is done/total as a rounded percentage, 0 when total is 0.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.RoundToEven(float64(done) / float64(total) * 100))
}
