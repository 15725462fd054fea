// Package storage owns the habit document: loading it tolerantly,
// applying mutations and persisting the whole document after each one.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"dailyflow/internal/dates"
	"dailyflow/internal/fsutil"
)

var (
	ErrEmptyName     = errors.New("please enter a habit name")
	ErrNameTooLong   = errors.New("habit name too long")
	ErrHabitExists   = errors.New("this habit already exists")
	ErrHabitNotFound = errors.New("habit not found")
	ErrInvalidMood   = errors.New("invalid mood")
)

const (
	// MaxRecent caps the recent-activity log.
	MaxRecent = 50

	maxHabitNameLen = 60
)

// SaveContext describes the mutation that triggered a save.
type SaveContext struct {
	Operation string // "create", "mark", "clear", "delete", "replace", ...
	Habit     string
	Event     string // mood tag or "cleared" where relevant
}

// Storage is the single owner of the in-memory document. All methods are
// safe for concurrent use; each mutation holds the lock until the
// document has been written.
type Storage struct {
	mu       sync.Mutex
	backend  Backend
	doc      *Document
	selected string

	now    func() time.Time
	log    *slog.Logger
	onSave func(SaveContext)
}

// New wraps backend without loading it. Call Load before use.
func New(backend Backend) *Storage {
	return &Storage{
		backend: backend,
		doc:     NewDocument(),
		now:     time.Now,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// Option configures a Storage before its first load.
type Option func(*Storage)

// WithLogger routes load warnings and save failures to l.
func WithLogger(l *slog.Logger) Option {
	return func(s *Storage) {
		if l != nil {
			s.log = l.With("component", "storage")
		}
	}
}

// WithNowFunc sets the clock used for recent entries and quarantine names.
func WithNowFunc(now func() time.Time) Option {
	return func(s *Storage) {
		if now != nil {
			s.now = now
		}
	}
}

// Open creates dataDir if needed and loads habits.json from it. Options
// apply before the load, so a warning about an unreadable file reaches
// the configured logger.
func Open(dataDir string, opts ...Option) (*Storage, error) {
	if err := os.MkdirAll(dataDir, fsutil.DirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	s := New(NewFileBackend(filepath.Join(dataDir, DataFile)))
	for _, opt := range opts {
		opt(s)
	}
	s.Load()
	return s, nil
}

// SetNowFunc overrides the clock. Passing nil resets it to time.Now.
func (s *Storage) SetNowFunc(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now == nil {
		now = time.Now
	}
	s.now = now
}

// SetLogger replaces the (discarding) default logger.
func (s *Storage) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = l.With("component", "storage")
}

// SetOnSave registers a callback run after every successful write.
func (s *Storage) SetOnSave(fn func(SaveContext)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSave = fn
}

// Now returns the current time according to the storage clock.
func (s *Storage) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now()
}

// Today returns the current calendar day.
func (s *Storage) Today() time.Time {
	return dates.Today(s.Now())
}

// Location describes where the document is persisted.
func (s *Storage) Location() string {
	return s.backend.Location()
}

// Load replaces the in-memory document with the persisted one. It never
// fails: a missing document yields an empty one, and an unreadable one
// yields an empty one plus a warning.
func (s *Storage) Load() *Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = s.readLocked()
	if s.selected != "" && !s.doc.Habits.Has(s.selected) {
		s.selected = ""
	}
	return s.doc.Clone()
}

// Peek decodes the persisted document without adopting it and without
// moving an unreadable copy aside. Readers in other processes use it so
// they never disturb the owner's file.
func (s *Storage) Peek() *Document {
	data, err := s.backend.Read()
	if err != nil || len(bytes.TrimSpace(data)) == 0 {
		return NewDocument()
	}
	doc, err := Decode(data)
	if err != nil {
		s.mu.Lock()
		log := s.log
		s.mu.Unlock()
		log.Warn("could not parse habits, skipping", "location", s.backend.Location(), "error", err)
		return NewDocument()
	}
	return doc
}

func (s *Storage) readLocked() *Document {
	data, err := s.backend.Read()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("could not read habits, starting empty", "location", s.backend.Location(), "error", err)
		}
		return NewDocument()
	}
	if len(bytes.TrimSpace(data)) == 0 {
		s.log.Warn("habits file is empty, starting empty", "location", s.backend.Location())
		return NewDocument()
	}

	doc, err := Decode(data)
	if err != nil {
		attrs := []any{"location", s.backend.Location(), "error", err}
		if q, ok := s.backend.(quarantiner); ok {
			if moved := q.Quarantine(s.now()); moved != "" {
				attrs = append(attrs, "moved_to", moved)
			}
		}
		s.log.Warn("could not parse habits, starting empty", attrs...)
		return NewDocument()
	}
	return doc
}

// Save writes the current document.
func (s *Storage) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(SaveContext{Operation: "save"})
}

func (s *Storage) persistLocked(ctx SaveContext) error {
	data, err := Encode(s.doc)
	if err != nil {
		return fmt.Errorf("serialize habits: %w", err)
	}
	if err := s.backend.Write(data); err != nil {
		s.log.Error("save failed", "operation", ctx.Operation, "habit", ctx.Habit, "error", err)
		return fmt.Errorf("save habits: %w", err)
	}
	if s.onSave != nil {
		s.onSave(ctx)
	}
	return nil
}

// Snapshot returns a deep copy of the document.
func (s *Storage) Snapshot() *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Replace swaps in doc wholesale and persists it. Used by undo and restore.
func (s *Storage) Replace(doc *Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc.Clone()
	if s.selected != "" && !s.doc.Habits.Has(s.selected) {
		s.selected = ""
	}
	return s.persistLocked(SaveContext{Operation: "replace"})
}

// Names returns habit names in insertion order.
func (s *Storage) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Habits.Names()
}

// Habit returns a copy of the named habit.
func (s *Storage) Habit(name string) (*Habit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.doc.Habits.Get(name)
	if !ok {
		return nil, false
	}
	return h.Clone(), true
}

// Recent returns a copy of the recent-activity log, newest first.
func (s *Storage) Recent() []RecentEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RecentEntry, len(s.doc.Recent))
	copy(out, s.doc.Recent)
	return out
}

// Resolve maps user input to a stored habit name: exact match first,
// then case-insensitive.
func (s *Storage) Resolve(name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name = strings.TrimSpace(name)
	if s.doc.Habits.Has(name) {
		return name, nil
	}
	if found, ok := s.doc.Habits.FindFold(name); ok {
		return found, nil
	}
	return "", fmt.Errorf("%w: %s", ErrHabitNotFound, name)
}

// ============================================================================
// Mutations
// ============================================================================

// EnsureHabit creates an empty habit under name if it does not exist and
// backfills a missing done map otherwise.
func (s *Storage) EnsureHabit(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existed := s.doc.Habits.Has(name)
	s.ensureLocked(name)
	if existed {
		return nil
	}
	return s.persistLocked(SaveContext{Operation: "ensure", Habit: name})
}

func (s *Storage) ensureLocked(name string) *Habit {
	if h, ok := s.doc.Habits.Get(name); ok {
		h.normalize()
		return h
	}
	h := NewHabit()
	s.doc.Habits.Put(name, h)
	return h
}

// CreateHabit adds a habit from user input and records mood for today.
// An empty mood creates the habit without recording a day. It returns
// the trimmed name. Creation does not add a recent-activity entry.
func (s *Storage) CreateHabit(name string, mood Mood) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(name, mood)
}

func (s *Storage) createLocked(name string, mood Mood) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > maxHabitNameLen {
		return "", fmt.Errorf("%w (max %d)", ErrNameTooLong, maxHabitNameLen)
	}
	if mood != "" && !mood.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidMood, mood)
	}

	if existing, ok := s.doc.Habits.FindFold(name); ok {
		return "", fmt.Errorf("%w: %s", ErrHabitExists, existing)
	}

	h := s.ensureLocked(name)
	if mood != "" {
		day := dates.ISO(dates.Today(s.now()))
		setMood(h, day, mood)
	}
	s.selected = name

	return name, s.persistLocked(SaveContext{Operation: "create", Habit: name, Event: string(mood)})
}

// RecordMood marks name as done on day with the given mood.
func (s *Storage) RecordMood(name string, mood Mood, day time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recordLocked(name, mood, day)
}

func (s *Storage) recordLocked(name string, mood Mood, day time.Time) error {
	if !mood.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMood, mood)
	}
	h, ok := s.doc.Habits.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrHabitNotFound, name)
	}
	h.normalize()
	setMood(h, dates.ISO(dates.Of(day)), mood)
	s.pushRecentLocked(name, string(mood))

	return s.persistLocked(SaveContext{Operation: "mark", Habit: name, Event: string(mood)})
}

func setMood(h *Habit, day string, mood Mood) {
	h.History[day] = mood
	h.Done[day] = true
	m := mood
	h.Last = &m
}

// ClearDay removes the record for day. Last falls back to the latest
// earlier recorded mood, and recent entries for that habit on that day
// are replaced by a single "cleared" entry.
func (s *Storage) ClearDay(name string, day time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clearLocked(name, day)
}

func (s *Storage) clearLocked(name string, day time.Time) error {
	h, ok := s.doc.Habits.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrHabitNotFound, name)
	}
	h.normalize()

	key := dates.ISO(dates.Of(day))
	delete(h.History, key)
	delete(h.Done, key)
	h.Last = lastBefore(h.History, key)

	kept := s.doc.Recent[:0]
	for _, e := range s.doc.Recent {
		if e.Habit == name && e.Day() == key {
			continue
		}
		kept = append(kept, e)
	}
	s.doc.Recent = kept
	s.pushRecentLocked(name, EventCleared)

	return s.persistLocked(SaveContext{Operation: "clear", Habit: name, Event: EventCleared})
}

// lastBefore returns the mood of the greatest history key below key.
func lastBefore(history map[string]Mood, key string) *Mood {
	earlier := make([]string, 0, len(history))
	for d := range history {
		if d < key {
			earlier = append(earlier, d)
		}
	}
	if len(earlier) == 0 {
		return nil
	}
	sort.Strings(earlier)
	m := history[earlier[len(earlier)-1]]
	return &m
}

// DeleteHabit removes name and every recent entry that refers to it.
func (s *Storage) DeleteHabit(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(name)
}

func (s *Storage) deleteLocked(name string) error {
	if !s.doc.Habits.Delete(name) {
		return fmt.Errorf("%w: %s", ErrHabitNotFound, name)
	}
	kept := s.doc.Recent[:0]
	for _, e := range s.doc.Recent {
		if e.Habit != name {
			kept = append(kept, e)
		}
	}
	s.doc.Recent = kept
	if s.selected == name {
		s.selected = ""
	}

	return s.persistLocked(SaveContext{Operation: "delete", Habit: name})
}

// Tx exposes the mutations to a function run by Track. Its methods must
// only be called from inside that function.
type Tx struct {
	s *Storage
}

func (tx Tx) CreateHabit(name string, mood Mood) (string, error) {
	return tx.s.createLocked(name, mood)
}

func (tx Tx) RecordMood(name string, mood Mood, day time.Time) error {
	return tx.s.recordLocked(name, mood, day)
}

func (tx Tx) ClearDay(name string, day time.Time) error {
	return tx.s.clearLocked(name, day)
}

func (tx Tx) DeleteHabit(name string) error {
	return tx.s.deleteLocked(name)
}

// Track runs fn with the store locked and returns copies of the document
// taken immediately before and after it. No other mutation can land
// between the two copies. after is nil when fn fails.
func (s *Storage) Track(fn func(Tx) error) (before, after *Document, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before = s.doc.Clone()
	if err := fn(Tx{s: s}); err != nil {
		return before, nil, err
	}
	return before, s.doc.Clone(), nil
}

// PushRecent prepends an entry to the recent log and persists.
func (s *Storage) PushRecent(habit, event string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pushRecentLocked(habit, event)
	return s.persistLocked(SaveContext{Operation: "recent", Habit: habit, Event: event})
}

// pushRecentLocked inserts at the front, drops entries for habits that no
// longer exist and truncates to MaxRecent.
func (s *Storage) pushRecentLocked(habit, event string) {
	entry := RecentEntry{
		DT:    s.now().Format(dates.TimestampLayout),
		Habit: habit,
		Mood:  event,
	}
	next := make([]RecentEntry, 0, len(s.doc.Recent)+1)
	for _, e := range append([]RecentEntry{entry}, s.doc.Recent...) {
		if !s.doc.Habits.Has(e.Habit) {
			continue
		}
		next = append(next, e)
		if len(next) == MaxRecent {
			break
		}
	}
	s.doc.Recent = next
}

// ============================================================================
// Selection
// ============================================================================

// Select sets the selected habit. Unknown names clear the selection.
func (s *Storage) Select(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.doc.Habits.Has(name) {
		s.selected = ""
		return
	}
	s.selected = name
}

// Selected returns the selected habit name, or "".
func (s *Storage) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// SelectedOrDefault returns the selection, falling back to the first
// habit. It returns "" only when there are no habits.
func (s *Storage) SelectedOrDefault() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected != "" && s.doc.Habits.Has(s.selected) {
		return s.selected
	}
	names := s.doc.Habits.Names()
	if len(names) == 0 {
		return ""
	}
	return names[0]
}
