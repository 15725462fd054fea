package reports

import (
	"encoding/json"

	"dailyflow/internal/dates"
)

type dayJSON struct {
	Date string `json:"date"`
	Mood string `json:"mood,omitempty"`
	Done bool   `json:"done"`
}

type rangeJSON struct {
	Habit          string         `json:"habit"`
	Start          string         `json:"start"`
	End            string         `json:"end"`
	CompletedCount int            `json:"completed_count"`
	TotalDays      int            `json:"total_days"`
	CompletionPct  int            `json:"completion_pct"`
	MoodTally      map[string]int `json:"mood_tally"`
	Days           []dayJSON      `json:"days"`
}

// FormatJSON formats a range report as JSON with ISO dates.
func FormatJSON(r *RangeReport) ([]byte, error) {
	out := rangeJSON{
		Habit:          r.Habit,
		Start:          dates.ISO(r.Start),
		End:            dates.ISO(r.End),
		CompletedCount: r.CompletedCount,
		TotalDays:      r.TotalDays,
		CompletionPct:  r.Percent(),
		MoodTally:      make(map[string]int, len(r.MoodTally)),
		Days:           make([]dayJSON, 0, len(r.Days)),
	}
	for m, n := range r.MoodTally {
		out.MoodTally[string(m)] = n
	}
	for _, d := range r.Days {
		out.Days = append(out.Days, dayJSON{Date: dates.ISO(d.Date), Mood: string(d.Mood), Done: d.Done})
	}
	return json.MarshalIndent(out, "", "  ")
}

type calendarJSON struct {
	Habit string            `json:"habit"`
	Month string            `json:"month"`
	Days  map[string]string `json:"days"`
}

// FormatCalendarJSON lists the recorded moods of a calendar month.
func FormatCalendarJSON(c *Calendar) ([]byte, error) {
	out := calendarJSON{
		Habit: c.Habit,
		Month: firstInMonth(c).Format("2006-01"),
		Days:  map[string]string{},
	}
	for _, week := range c.Weeks {
		for _, cell := range week {
			if cell.InMonth && cell.Mood != "" {
				out.Days[dates.ISO(cell.Date)] = string(cell.Mood)
			}
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
