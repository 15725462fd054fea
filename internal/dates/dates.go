// Package dates converts between the storage form of a calendar day
// (YYYY-MM-DD) and the display form (DD-MM-YYYY), and validates
// user-supplied date ranges.
package dates

import (
	"strconv"
	"strings"
	"time"
)

const (
	// ISOLayout is the canonical storage form used as map keys on disk.
	ISOLayout = "2006-01-02"
	// DisplayLayout is the user-facing form.
	DisplayLayout = "02-01-2006"
	// ShortLayout drops the year (recent activity lines).
	ShortLayout = "02-01"
	// TimestampLayout is the second-precision local timestamp of recent entries.
	TimestampLayout = "2006-01-02T15:04:05"
)

// Of returns the calendar day containing t (in t's own location),
// normalized to midnight UTC so that day arithmetic never crosses a DST edge.
func Of(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today is Of(now).
func Today(now time.Time) time.Time {
	return Of(now)
}

// ISO formats a day as YYYY-MM-DD.
func ISO(day time.Time) string {
	return day.Format(ISOLayout)
}

// FormatDisplay formats a day as DD-MM-YYYY.
func FormatDisplay(day time.Time) string {
	return day.Format(DisplayLayout)
}

// FormatDisplayFromISO converts a stored YYYY-MM-DD key to display form.
// Text that does not parse is returned unchanged.
func FormatDisplayFromISO(text string) string {
	day, ok := Parse(text)
	if !ok {
		return text
	}
	return FormatDisplay(day)
}

// Parse accepts YYYY-MM-DD or DD-MM-YYYY. Whitespace around the text and
// around each segment is ignored. The result is midnight UTC.
func Parse(text string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(text), "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if !isDigits(parts[i]) {
			return time.Time{}, false
		}
	}

	var ys, ms, ds string
	switch {
	case len(parts[0]) == 4:
		ys, ms, ds = parts[0], parts[1], parts[2]
	case len(parts[2]) == 4:
		ds, ms, ys = parts[0], parts[1], parts[2]
	default:
		return time.Time{}, false
	}

	y, err := strconv.Atoi(ys)
	if err != nil {
		return time.Time{}, false
	}
	m, err := strconv.Atoi(ms)
	if err != nil {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(ds)
	if err != nil {
		return time.Time{}, false
	}
	return fromParts(y, m, d)
}

// ParseISO parses only the canonical storage form.
func ParseISO(text string) (time.Time, bool) {
	day, err := time.Parse(ISOLayout, text)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

func fromParts(y, m, d int) (time.Time, bool) {
	if y < 1 || y > 9999 || m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	day := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes 31-02 into March; reject anything that moved.
	if day.Year() != y || int(day.Month()) != m || day.Day() != d {
		return time.Time{}, false
	}
	return day, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Range returns every day from start to end inclusive, ascending.
// It is empty when start is after end.
func Range(start, end time.Time) []time.Time {
	start, end = Of(start), Of(end)
	if start.After(end) {
		return nil
	}
	days := make([]time.Time, 0, DaysBetween(start, end)+1)
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		days = append(days, cur)
	}
	return days
}

// DaysBetween counts whole days from a to b (negative when b precedes a).
func DaysBetween(a, b time.Time) int {
	return int(Of(b).Sub(Of(a)).Hours() / 24)
}

// LastDays is the preset window of n days ending today, inclusive.
func LastDays(today time.Time, n int) (time.Time, time.Time) {
	today = Of(today)
	if n < 1 {
		n = 1
	}
	return today.AddDate(0, 0, -(n - 1)), today
}
