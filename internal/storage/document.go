package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Habits maps habit names to records and remembers insertion order,
// which drives the default selection and list order.
type Habits struct {
	order  []string
	byName map[string]*Habit
}

// Len returns the number of habits.
func (hs *Habits) Len() int {
	return len(hs.order)
}

// Names returns the habit names in insertion order.
func (hs *Habits) Names() []string {
	out := make([]string, len(hs.order))
	copy(out, hs.order)
	return out
}

// Get returns the habit stored under the exact name.
func (hs *Habits) Get(name string) (*Habit, bool) {
	h, ok := hs.byName[name]
	return h, ok
}

// Has reports whether the exact name exists.
func (hs *Habits) Has(name string) bool {
	_, ok := hs.byName[name]
	return ok
}

// FindFold returns the stored name equal to name under case folding.
func (hs *Habits) FindFold(name string) (string, bool) {
	for _, n := range hs.order {
		if strings.EqualFold(n, name) {
			return n, true
		}
	}
	return "", false
}

// Put stores h under name. New names go to the end; existing names keep
// their position.
func (hs *Habits) Put(name string, h *Habit) {
	if hs.byName == nil {
		hs.byName = map[string]*Habit{}
	}
	h.normalize()
	if _, ok := hs.byName[name]; !ok {
		hs.order = append(hs.order, name)
	}
	hs.byName[name] = h
}

// Delete removes name. It reports whether anything was removed.
func (hs *Habits) Delete(name string) bool {
	if _, ok := hs.byName[name]; !ok {
		return false
	}
	delete(hs.byName, name)
	for i, n := range hs.order {
		if n == name {
			hs.order = append(hs.order[:i], hs.order[i+1:]...)
			break
		}
	}
	return true
}

func (hs *Habits) clone() Habits {
	c := Habits{
		order:  make([]string, len(hs.order)),
		byName: make(map[string]*Habit, len(hs.byName)),
	}
	copy(c.order, hs.order)
	for name, h := range hs.byName {
		c.byName[name] = h.Clone()
	}
	return c
}

// MarshalJSON writes the habits object in insertion order.
func (hs Habits) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range hs.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(hs.byName[name])
		if err != nil {
			return nil, fmt.Errorf("habit %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a habits object, keeping key order and skipping
// members that are not habit-shaped.
func (hs *Habits) UnmarshalJSON(data []byte) error {
	*hs = decodeHabits(data)
	return nil
}

// Encode serializes doc in the on-disk format.
func Encode(doc *Document) ([]byte, error) {
	if doc.Recent == nil {
		doc = &Document{Habits: doc.Habits, Recent: []RecentEntry{}}
	}
	return json.MarshalIndent(doc, "", "  ")
}

var errNotObject = errors.New("top-level value is not an object")

// Decode parses persisted bytes. Only unparseable input or a non-object
// top level is an error; wrong-typed members are dropped and missing ones
// defaulted.
func Decode(data []byte) (*Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, errNotObject
		}
		return nil, err
	}
	if top == nil {
		return nil, errNotObject
	}

	doc := NewDocument()
	if raw, ok := top["habits"]; ok {
		doc.Habits = decodeHabits(raw)
	}
	if raw, ok := top["recent"]; ok {
		doc.Recent = decodeRecent(raw)
	}
	return doc, nil
}

func decodeHabits(raw []byte) Habits {
	var hs Habits
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return hs
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return hs
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return hs
		}
		name, ok := tok.(string)
		if !ok {
			return hs
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return hs
		}
		if h, ok := decodeHabit(val); ok {
			hs.Put(name, h)
		}
	}
	return hs
}

func decodeHabit(raw []byte) (*Habit, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, false
	}

	h := NewHabit()

	var history map[string]json.RawMessage
	if err := json.Unmarshal(fields["history"], &history); err == nil {
		for day, v := range history {
			var mood string
			if json.Unmarshal(v, &mood) == nil {
				h.History[day] = Mood(mood)
			}
		}
	}

	var done map[string]json.RawMessage
	if err := json.Unmarshal(fields["done"], &done); err == nil {
		for day, v := range done {
			var flag bool
			if json.Unmarshal(v, &flag) == nil {
				h.Done[day] = flag
			}
		}
	}

	var last string
	if raw, ok := fields["last"]; ok && json.Unmarshal(raw, &last) == nil && last != "" {
		m := Mood(last)
		h.Last = &m
	}

	return h, true
}

func decodeRecent(raw []byte) []RecentEntry {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []RecentEntry{}
	}
	out := make([]RecentEntry, 0, len(items))
	for _, item := range items {
		var e RecentEntry
		if err := json.Unmarshal(item, &e); err != nil {
			continue
		}
		if e.Habit == "" || e.DT == "" {
			continue
		}
		out = append(out, e)
	}
	return out
}
