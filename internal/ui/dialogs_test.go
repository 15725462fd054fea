package ui

import (
	"testing"
	"time"

	"dailyflow/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noneExist = func(string) bool { return false }

func TestAddDialog_MoodSelection(t *testing.T) {
	keys := DefaultKeyMap()
	d := newAddDialog()
	for _, r := range "Stretch" {
		d.update(keyMsg(string(r)), keys, noneExist)
	}
	res, _ := d.update(keyMsg("enter"), keys, noneExist)
	require.Equal(t, dialogOpen, res)
	require.True(t, d.pickMood)
	assert.Equal(t, storage.MoodHappy, d.selectedMood())

	d.update(keyMsg("left"), keys, noneExist)
	assert.Equal(t, storage.MoodStressed, d.selectedMood(), "left wraps around")
	d.update(keyMsg("right"), keys, noneExist)
	d.update(keyMsg("right"), keys, noneExist)
	assert.Equal(t, storage.MoodNeutral, d.selectedMood())
	d.update(keyMsg("3"), keys, noneExist)
	assert.Equal(t, storage.MoodTired, d.selectedMood())

	res, _ = d.update(keyMsg("enter"), keys, noneExist)
	assert.Equal(t, dialogDone, res)
	assert.Equal(t, "Stretch", d.name())
}

func TestAddDialog_TrimsAndCancels(t *testing.T) {
	keys := DefaultKeyMap()
	d := newAddDialog()
	d.input.SetValue("  Walk  ")
	assert.Equal(t, "Walk", d.name())

	res, _ := d.update(keyMsg("esc"), keys, noneExist)
	assert.Equal(t, dialogCanceled, res)
}

func TestMoodPicker(t *testing.T) {
	keys := DefaultKeyMap()

	p := newMoodPicker("Read", "")
	assert.Equal(t, storage.MoodHappy, p.mood(), "no last mood defaults to happy")

	p = newMoodPicker("Read", storage.MoodTired)
	assert.Equal(t, storage.MoodTired, p.mood())

	p.update(keyMsg("right"), keys)
	p.update(keyMsg("right"), keys)
	assert.True(t, p.clearSelected())
	assert.Equal(t, storage.Mood(""), p.mood())

	p.update(keyMsg("right"), keys)
	assert.Equal(t, storage.MoodHappy, p.mood())

	assert.Equal(t, dialogOpen, p.update(keyMsg("9"), keys))
	assert.Equal(t, storage.MoodHappy, p.mood())

	assert.Equal(t, dialogCanceled, p.update(keyMsg("esc"), keys))
	assert.Equal(t, dialogDone, p.update(keyMsg("enter"), keys))
}

func TestRangeDialog_Preset(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	d := newRangeDialog(purposeReport, []string{"Read", "Walk"}, "Walk", today, 7, 0)
	assert.Equal(t, "Walk", d.habit())
	assert.Equal(t, "09-06-2024", d.start.Value())
	assert.Equal(t, "15-06-2024", d.end.Value())

	keys := DefaultKeyMap()
	d.update(keyMsg("right"), keys)
	assert.Equal(t, "Read", d.habit())

	res, _ := d.update(keyMsg("enter"), keys)
	require.Equal(t, dialogDone, res)
	assert.Equal(t, time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC), d.from)
	assert.Equal(t, today, d.to)
}

func TestRangeDialog_Custom(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	keys := DefaultKeyMap()

	tests := []struct {
		name    string
		start   string
		end     string
		limit   int
		wantErr string
	}{
		{"valid", "01-06-2024", "10-06-2024", 60, ""},
		{"not a date", "31-02-2024", "10-06-2024", 60, "Invalid: "},
		{"reversed", "10-06-2024", "01-06-2024", 0, "Invalid: "},
		{"over the limit", "01-01-2024", "15-06-2024", 60, "Invalid: "},
		{"no limit", "01-01-2024", "15-06-2024", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newRangeDialog(purposeTrend, []string{"Read"}, "Read", today, 14, tt.limit)
			d.setFocus(focusMode)
			d.update(keyMsg(" "), keys)
			require.True(t, d.custom)
			d.start.SetValue(tt.start)
			d.end.SetValue(tt.end)

			res, _ := d.update(keyMsg("enter"), keys)
			if tt.wantErr == "" {
				assert.Equal(t, dialogDone, res)
				assert.Empty(t, d.err)
				return
			}
			assert.Equal(t, dialogOpen, res)
			assert.Contains(t, d.err, tt.wantErr)
		})
	}
}

func TestRangeDialog_TypingSwitchesToCustom(t *testing.T) {
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	d := newRangeDialog(purposeExport, []string{"Read"}, "Read", today, 7, 0)
	keys := DefaultKeyMap()

	d.update(keyMsg("tab"), keys)
	d.update(keyMsg("tab"), keys)
	assert.Equal(t, focusStart, d.focus)
	d.update(keyMsg("backspace"), keys)
	assert.True(t, d.custom)

	d.update(keyMsg("shift+tab"), keys)
	assert.Equal(t, focusMode, d.focus)
	d.update(keyMsg("tab"), keys)
	d.update(keyMsg("tab"), keys)
	d.update(keyMsg("tab"), keys)
	assert.Equal(t, focusHabit, d.focus, "focus wraps")
}

func TestDialogViews(t *testing.T) {
	setupTest(t)
	s := createTestStyles()
	today := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	assert.Contains(t, newAddDialog().view(s), "Add Habit")
	assert.Contains(t, newMoodPicker("Read", "").view(s), "clear today")

	view := newRangeDialog(purposeTrend, []string{"Read"}, "Read", today, 14, 60).view(s)
	assert.Contains(t, view, "Trend")
	assert.Contains(t, view, "Last 14 days (incl. today)")
	assert.Contains(t, view, "limited to 60 days")
}
