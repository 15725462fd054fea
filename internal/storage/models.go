package storage

import (
	"fmt"
	"strings"
)

// Mood is the tag recorded for a habit on a given day.
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodNeutral  Mood = "neutral"
	MoodTired    Mood = "tired"
	MoodStressed Mood = "stressed"
)

// EventCleared is the recent-activity value written when a day is cleared.
const EventCleared = "cleared"

// Moods lists the known tags in display order.
var Moods = []Mood{MoodHappy, MoodNeutral, MoodTired, MoodStressed}

// Valid reports whether m is one of the four known tags.
func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodNeutral, MoodTired, MoodStressed:
		return true
	default:
		return false
	}
}

// ParseMood accepts a tag name in any case.
func ParseMood(s string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q (want happy, neutral, tired or stressed)", ErrInvalidMood, s)
	}
	return m, nil
}

// Appearance is the static glyph and colour pair used to draw a mood.
type Appearance struct {
	Glyph   string
	Fill    string
	Outline string
}

// EmptyAppearance is used for days without a mood and for unknown tags.
var EmptyAppearance = Appearance{Glyph: "—", Fill: "#D9D9D9", Outline: "#BFBFBF"}

var appearances = map[Mood]Appearance{
	MoodHappy:    {Glyph: "😊", Fill: "#E6F2E8", Outline: "#6CCB7E"},
	MoodNeutral:  {Glyph: "😐", Fill: "#B7C0C7", Outline: "#7E8A93"},
	MoodTired:    {Glyph: "😪", Fill: "#D9C3A3", Outline: "#B48C5A"},
	MoodStressed: {Glyph: "😰", Fill: "#CFA2B5", Outline: "#A76A86"},
}

// Appearance returns the lookup entry for m, or EmptyAppearance.
func (m Mood) Appearance() Appearance {
	if a, ok := appearances[m]; ok {
		return a
	}
	return EmptyAppearance
}

// Glyph is shorthand for m.Appearance().Glyph.
func (m Mood) Glyph() string {
	return m.Appearance().Glyph
}

// Label returns the tag, or "—" when it is empty.
func (m Mood) Label() string {
	if m == "" {
		return EmptyAppearance.Glyph
	}
	return string(m)
}

// Habit is the persisted record of one habit. History and Done are keyed
// by YYYY-MM-DD.
type Habit struct {
	History map[string]Mood `json:"history"`
	Last    *Mood           `json:"last"`
	Done    map[string]bool `json:"done"`
}

// NewHabit returns an empty habit shell.
func NewHabit() *Habit {
	return &Habit{History: map[string]Mood{}, Done: map[string]bool{}}
}

// Clone deep-copies h.
func (h *Habit) Clone() *Habit {
	if h == nil {
		return nil
	}
	c := &Habit{
		History: make(map[string]Mood, len(h.History)),
		Done:    make(map[string]bool, len(h.Done)),
	}
	for k, v := range h.History {
		c.History[k] = v
	}
	for k, v := range h.Done {
		c.Done[k] = v
	}
	if h.Last != nil {
		last := *h.Last
		c.Last = &last
	}
	return c
}

func (h *Habit) normalize() {
	if h.History == nil {
		h.History = map[string]Mood{}
	}
	if h.Done == nil {
		h.Done = map[string]bool{}
	}
}

// RecentEntry is one line of the recent-activity log. Mood holds either a
// mood tag or EventCleared.
type RecentEntry struct {
	DT    string `json:"dt"`
	Habit string `json:"habit"`
	Mood  string `json:"mood"`
}

// Day returns the YYYY-MM-DD prefix of the timestamp, or "".
func (e RecentEntry) Day() string {
	if len(e.DT) < 10 {
		return ""
	}
	return e.DT[:10]
}

// Cleared reports whether the entry records a cleared day.
func (e RecentEntry) Cleared() bool {
	return e.Mood == EventCleared
}

// Document is everything that is persisted.
type Document struct {
	Habits Habits        `json:"habits"`
	Recent []RecentEntry `json:"recent"`
}

// NewDocument returns the empty document used when nothing usable is on disk.
func NewDocument() *Document {
	return &Document{Recent: []RecentEntry{}}
}

// Clone deep-copies d.
func (d *Document) Clone() *Document {
	if d == nil {
		return NewDocument()
	}
	c := &Document{Habits: d.Habits.clone(), Recent: make([]RecentEntry, len(d.Recent))}
	copy(c.Recent, d.Recent)
	return c
}
