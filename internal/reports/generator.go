package reports

import (
	"fmt"
	"time"

	"dailyflow/internal/dates"
	"dailyflow/internal/storage"
)

// Generator answers report queries against a live store.
type Generator struct {
	store *storage.Storage
}

// NewGenerator creates a new report generator.
func NewGenerator(store *storage.Storage) *Generator {
	return &Generator{store: store}
}

func (g *Generator) habit(name string) (*storage.Habit, error) {
	h, ok := g.store.Habit(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrHabitNotFound, name)
	}
	return h, nil
}

// Range builds the report for name over [start, end].
func (g *Generator) Range(name string, start, end time.Time) (*RangeReport, error) {
	h, err := g.habit(name)
	if err != nil {
		return nil, err
	}
	return BuildRange(name, h, start, end), nil
}

// LastDays builds the report for the n days ending today.
func (g *Generator) LastDays(name string, n int) (*RangeReport, error) {
	start, end := dates.LastDays(g.store.Today(), n)
	return g.Range(name, start, end)
}

// Calendar builds the month grid for name.
func (g *Generator) Calendar(name string, year int, month time.Month) (*Calendar, error) {
	h, err := g.habit(name)
	if err != nil {
		return nil, err
	}
	return BuildCalendar(name, h, year, month), nil
}

// Today summarizes every habit for the store's current day.
func (g *Generator) Today() *TodaySummary {
	return Today(g.store.Snapshot(), g.store.Today())
}

// Recent returns the newest live recent-activity entries.
func (g *Generator) Recent(limit int) []storage.RecentEntry {
	return RecentEvents(g.store.Snapshot(), limit)
}
