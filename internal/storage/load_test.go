package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFrom(t *testing.T, contents string) (*Storage, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, DataFile)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	s, err := Open(dir)
	require.NoError(t, err)
	return s, path
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	doc := s.Snapshot()
	assert.Equal(t, 0, doc.Habits.Len())
	assert.NotNil(t, doc.Recent)
	assert.Empty(t, doc.Recent)
}

func TestLoadMissingRecent(t *testing.T) {
	s, _ := loadFrom(t, `{"habits": {"Read": {"history": {"2024-06-01": "happy"}, "last": "happy"}}}`)

	doc := s.Snapshot()
	assert.NotNil(t, doc.Recent)
	assert.Empty(t, doc.Recent)

	h, ok := doc.Habits.Get("Read")
	require.True(t, ok)
	assert.NotNil(t, h.Done, "done map is backfilled")
	assert.Empty(t, h.Done)
	assert.Equal(t, MoodHappy, h.History["2024-06-01"])
}

func TestLoadCorruptFileStartsEmptyAndKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DataFile)
	require.NoError(t, os.WriteFile(path, []byte(`{"habits": {`), 0600))

	var logs strings.Builder
	s := New(NewFileBackend(path))
	s.SetLogger(newTestLogger(&logs))
	s.SetNowFunc(func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local) })
	doc := s.Load()

	assert.Equal(t, 0, doc.Habits.Len())
	assert.Contains(t, logs.String(), "could not parse habits")

	moved, err := os.ReadFile(path + ".corrupt.20240601-120000")
	require.NoError(t, err)
	assert.Equal(t, `{"habits": {`, string(moved))
}

func TestLoadNonObjectTopLevel(t *testing.T) {
	for _, contents := range []string{`[]`, `null`, `"habits"`, `42`, "   \n"} {
		s, _ := loadFrom(t, contents)
		assert.Equal(t, 0, s.Snapshot().Habits.Len(), "contents %q", contents)
	}
}

func TestLoadNormalizesWrongTypes(t *testing.T) {
	s, _ := loadFrom(t, `{
		"habits": {
			"Bad": 7,
			"Read": {
				"history": {"2024-06-01": "happy", "2024-06-02": 3, "2024-06-03": "sleepy"},
				"done": {"2024-06-01": true, "2024-06-02": "yes"},
				"last": 5
			},
			"Walk": {"history": [], "done": null, "last": null}
		},
		"recent": [
			{"dt": "2024-06-01T08:00:00", "habit": "Read", "mood": "happy"},
			{"dt": 1, "habit": "Read", "mood": "happy"},
			"junk",
			{"habit": "Walk", "mood": "tired"}
		]
	}`)

	doc := s.Snapshot()
	assert.Equal(t, []string{"Read", "Walk"}, doc.Habits.Names())

	read, _ := doc.Habits.Get("Read")
	assert.Equal(t, map[string]Mood{"2024-06-01": MoodHappy, "2024-06-03": Mood("sleepy")}, read.History,
		"unknown tags survive, non-strings are dropped")
	assert.Equal(t, map[string]bool{"2024-06-01": true}, read.Done)
	assert.Nil(t, read.Last)

	walk, _ := doc.Habits.Get("Walk")
	assert.NotNil(t, walk.History)
	assert.NotNil(t, walk.Done)

	require.Len(t, doc.Recent, 1)
	assert.Equal(t, "Read", doc.Recent[0].Habit)
}

func TestLoadHabitsNotAnObject(t *testing.T) {
	s, _ := loadFrom(t, `{"habits": ["Read"], "recent": {"a": 1}}`)
	doc := s.Snapshot()
	assert.Equal(t, 0, doc.Habits.Len())
	assert.Empty(t, doc.Recent)
}

func TestRoundTripPreservesOrderAndUnknownTags(t *testing.T) {
	original := `{"habits": {
		"Zeta": {"history": {"2024-01-02": "grumpy"}, "last": "grumpy", "done": {"2024-01-02": true}},
		"Alpha": {"history": {}, "last": null, "done": {}},
		"Mid": {"history": {"2024-01-01": "tired"}, "last": "tired", "done": {}}
	}, "recent": [{"dt": "2024-01-02T10:00:00", "habit": "Zeta", "mood": "grumpy"}]}`

	doc, err := Decode([]byte(original))
	require.NoError(t, err)

	data, err := Encode(doc)
	require.NoError(t, err)

	again, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, again.Habits.Names())
	zeta, _ := again.Habits.Get("Zeta")
	assert.Equal(t, Mood("grumpy"), zeta.History["2024-01-02"])
	assert.Equal(t, Mood("grumpy"), *zeta.Last)
	assert.Equal(t, doc.Recent, again.Recent)

	mid, _ := again.Habits.Get("Mid")
	assert.Empty(t, mid.Done, "legacy history-only days are not promoted into done")

	second, err := Encode(again)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(second))
}

func FuzzDecode(f *testing.F) {
	f.Add(`{"habits":{},"recent":[]}`)
	f.Add(`{"habits":{"a":{"history":{"x":"happy"}}}}`)
	f.Add(`{"habits":{"a":1,"b":{"done":{"d":true}}},"recent":[1,2]}`)
	f.Add(`[`)
	f.Add(`{"habits":{"\u0000":{"last":"😊"}}}`)

	f.Fuzz(func(t *testing.T, input string) {
		doc, err := Decode([]byte(input))
		if err != nil {
			return
		}
		data, err := Encode(doc)
		if err != nil {
			t.Fatalf("Encode after Decode(%q): %v", input, err)
		}
		again, err := Decode(data)
		if err != nil {
			t.Fatalf("Decode of encoded output failed: %v", err)
		}
		if again.Habits.Len() != doc.Habits.Len() {
			t.Fatalf("habit count changed: %d -> %d", doc.Habits.Len(), again.Habits.Len())
		}
	})
}

func TestOpenLogsCorruptFileThroughOption(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DataFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	var logs strings.Builder
	stamp := time.Date(2024, 6, 1, 12, 0, 0, 0, time.Local)
	s, err := Open(dir, WithLogger(newTestLogger(&logs)), WithNowFunc(func() time.Time { return stamp }))
	require.NoError(t, err)

	assert.Equal(t, 0, s.Snapshot().Habits.Len())
	assert.Contains(t, logs.String(), "could not parse habits")
	assert.Contains(t, logs.String(), "moved_to")
	assert.FileExists(t, path+".corrupt.20240601-120000")
}

func TestPeekLeavesCorruptFileAlone(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DataFile)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	var logs strings.Builder
	s := New(NewFileBackend(path))
	s.SetLogger(newTestLogger(&logs))

	doc := s.Peek()
	assert.Equal(t, 0, doc.Habits.Len())
	assert.Contains(t, logs.String(), "could not parse habits")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(data))
	moved, err := filepath.Glob(path + ".corrupt.*")
	require.NoError(t, err)
	assert.Empty(t, moved)
}

func TestPeekReadsWithoutAdopting(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)

	other, err := Open(dir)
	require.NoError(t, err)
	_, err = other.CreateHabit("Read", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Read"}, s.Peek().Habits.Names())
	assert.Empty(t, s.Names())
}
