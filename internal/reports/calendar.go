package reports

import (
	"fmt"
	"time"
)

// WeekdayHeaders are the Monday-first column titles.
var WeekdayHeaders = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Title is e.g. "June 2024".
func (c *Calendar) Title() string {
	return fmt.Sprintf("%s %d", c.Month, c.Year)
}

// Prev and Next return the neighbouring months.
func Prev(year int, month time.Month) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return t.Year(), t.Month()
}

func Next(year int, month time.Month) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return t.Year(), t.Month()
}

// Recorded counts in-month cells that carry a mood.
func (c *Calendar) Recorded() int {
	n := 0
	for _, week := range c.Weeks {
		for _, cell := range week {
			if cell.InMonth && cell.Mood != "" {
				n++
			}
		}
	}
	return n
}

func firstInMonth(c *Calendar) time.Time {
	return time.Date(c.Year, c.Month, 1, 0, 0, 0, 0, time.UTC)
}
