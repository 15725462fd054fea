// Package reminder schedules the daily "habits still open" notification.
package reminder

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"dailyflow/internal/dates"
	"dailyflow/internal/notify"
	"dailyflow/internal/reports"
	"dailyflow/internal/storage"

	"github.com/robfig/cron/v3"
)

// Title heads every reminder notification.
const Title = "DailyFlow+"

// maxListed bounds how many habit names go into one notification body.
const maxListed = 5

// Scheduler fires Check once a day at the configured time.
type Scheduler struct {
	store    *storage.Storage
	notifier notify.Notifier
	sound    bool
	cron     *cron.Cron
	log      *slog.Logger
}

// New builds a scheduler that reads from store and sends through n.
func New(store *storage.Storage, n notify.Notifier, sound bool) *Scheduler {
	if n == nil {
		n = notify.Noop{}
	}
	return &Scheduler{
		store:    store,
		notifier: n,
		sound:    sound,
		cron:     cron.New(),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// SetLogger replaces the discard logger.
func (s *Scheduler) SetLogger(l *slog.Logger) {
	if l != nil {
		s.log = l.With("component", "reminder")
	}
}

// CronExpr returns the cron expression for a daily run at hour:minute.
func CronExpr(hour, minute int) string {
	return fmt.Sprintf("%d %d * * *", minute, hour)
}

// Schedule registers the daily check. It may be called before or after
// Start.
func (s *Scheduler) Schedule(hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return fmt.Errorf("invalid reminder time %02d:%02d", hour, minute)
	}
	_, err := s.cron.AddFunc(CronExpr(hour, minute), func() {
		if _, err := s.Check(); err != nil {
			s.log.Warn("reminder failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	s.log.Info("reminder scheduled", "at", fmt.Sprintf("%02d:%02d", hour, minute))
	return nil
}

// Next reports when the scheduled check runs next, or the zero time when
// nothing is scheduled or the scheduler is not running.
func (s *Scheduler) Next() time.Time {
	if entries := s.cron.Entries(); len(entries) > 0 {
		return entries[0].Next
	}
	return time.Time{}
}

// Run starts the scheduler and blocks until ctx is done, then waits for
// a running check to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	return nil
}

// Check rereads the document and notifies about habits not done today.
// It returns the pending names; nothing is sent when the list is empty.
// An unreadable document is left where it is for its owner to recover.
func (s *Scheduler) Check() ([]string, error) {
	doc := s.store.Peek()
	pending := Pending(doc, s.store.Today())
	if len(pending) == 0 {
		s.log.Debug("all habits done, no reminder")
		return nil, nil
	}
	if err := notify.Deliver(s.notifier, s.sound, Title, Message(pending)); err != nil {
		return pending, fmt.Errorf("send reminder: %w", err)
	}
	s.log.Info("reminder sent", "pending", len(pending))
	return pending, nil
}

// Pending lists, in document order, the habits not done on day.
func Pending(doc *storage.Document, day time.Time) []string {
	key := dates.ISO(dates.Of(day))
	var out []string
	for _, name := range doc.Habits.Names() {
		h, _ := doc.Habits.Get(name)
		if !reports.IsDone(h, key) {
			out = append(out, name)
		}
	}
	return out
}

// Message formats the notification body for pending habits.
func Message(pending []string) string {
	noun := "habits"
	if len(pending) == 1 {
		noun = "habit"
	}
	shown := pending
	if len(shown) > maxListed {
		shown = shown[:maxListed]
	}
	body := fmt.Sprintf("%d %s left today: %s", len(pending), noun, strings.Join(shown, ", "))
	if extra := len(pending) - len(shown); extra > 0 {
		body += fmt.Sprintf(" and %d more", extra)
	}
	return body
}
