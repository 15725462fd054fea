package ui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"dailyflow/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApp_LayoutModeTransitions(t *testing.T) {
	app := newTestApp(t, createTestStorage(t), nil)

	tests := []struct {
		name         string
		width        int
		expectedMode LayoutMode
	}{
		{"Very narrow (40)", 40, LayoutNarrow},
		{"At threshold (79)", 79, LayoutNarrow},
		{"At threshold (80)", 80, LayoutWide},
		{"Very wide (200)", 200, LayoutWide},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app.Update(tea.WindowSizeMsg{Width: tc.width, Height: 30})
			assert.Equal(t, tc.expectedMode, app.layoutMode)
			assert.NotEmpty(t, app.View())
		})
	}
}

func TestApp_EmptyState(t *testing.T) {
	app := newTestApp(t, createTestStorage(t), nil)

	view := app.View()
	assert.Contains(t, view, "DailyFlow+")
	assert.Contains(t, view, "no habits yet")
	assert.Contains(t, view, "(no recent activity)")
	assert.Contains(t, view, "0/0 habits")
	assert.Contains(t, view, "15-06-2024")
}

func TestApp_WelcomeOnFirstRun(t *testing.T) {
	cfg := testAppConfig()
	cfg.ShowOnboarding = true
	app := newTestApp(t, createTestStorage(t), cfg)

	require.True(t, app.showWelcome)
	assert.Contains(t, app.View(), "Welcome to DailyFlow+")

	// The first key only dismisses the welcome screen.
	press(app, "a")
	assert.False(t, app.showWelcome)
	assert.Equal(t, modeBrowse, app.mode)
}

func TestApp_NoWelcomeWithExistingData(t *testing.T) {
	store := createTestStorage(t)
	seedHabits(t, store, nil, "Read")

	cfg := testAppConfig()
	cfg.ShowOnboarding = true
	app := newTestApp(t, store, cfg)
	assert.False(t, app.showWelcome)
}

func TestApp_AddHabit(t *testing.T) {
	store := createTestStorage(t)
	app := newTestApp(t, store, nil)

	press(app, "a")
	require.Equal(t, modeAdd, app.mode)
	typeText(app, "Drink water")
	press(app, "enter")
	require.True(t, app.add.pickMood)
	assert.Contains(t, app.View(), "Selected: 😊 happy")

	press(app, "2", "enter")
	assert.Equal(t, modeBrowse, app.mode)

	h, ok := store.Habit("Drink water")
	require.True(t, ok)
	require.NotNil(t, h.Last)
	assert.Equal(t, storage.MoodNeutral, *h.Last)
	assert.Equal(t, "Drink water", app.habits.Selected())
	assert.Equal(t, "Added habit: Drink water", app.status)
	assert.True(t, app.undo.CanUndo())
	assert.Contains(t, app.View(), "Streak: 1 day")
}

func TestApp_AddHabitValidation(t *testing.T) {
	store := createTestStorage(t)
	seedHabits(t, store, nil, "Read")
	app := newTestApp(t, store, nil)

	press(app, "a", "enter")
	assert.Equal(t, "Please enter a habit name.", app.add.err)

	typeText(app, "read")
	press(app, "enter")
	assert.Equal(t, "This habit already exists.", app.add.err)
	assert.False(t, app.add.pickMood)

	press(app, "esc")
	assert.Equal(t, modeBrowse, app.mode)
	assert.Equal(t, []string{"Read"}, store.Names())
}

func TestApp_MarkHabit(t *testing.T) {
	store := createTestStorage(t)
	seedHabits(t, store, nil, "Read")
	app := newTestApp(t, store, nil)

	press(app, "enter")
	require.Equal(t, modeMood, app.mode)
	assert.Equal(t, storage.MoodHappy, app.picker.mood(), "picker starts on the last mood")

	press(app, "4", "enter")
	assert.Equal(t, modeBrowse, app.mode)

	h, _ := store.Habit("Read")
	require.NotNil(t, h.Last)
	assert.Equal(t, storage.MoodStressed, *h.Last)
	assert.Equal(t, storage.MoodStressed, h.History["2024-06-15"])

	recent := store.Recent()
	require.NotEmpty(t, recent)
	assert.Equal(t, "Read", recent[0].Habit)
	assert.Equal(t, "Marked: Read", app.status)
	assert.Contains(t, app.View(), "Current Mood: 😰 stressed")
}

func TestApp_MarkCancelKeepsToday(t *testing.T) {
	store := createTestStorage(t)
	seedHabits(t, store, nil, "Read")
	app := newTestApp(t, store, nil)

	press(app, "m", "5", "esc")
	assert.Equal(t, modeBrowse, app.mode)

	h, _ := store.Habit("Read")
	assert.Equal(t, storage.MoodHappy, h.History["2024-06-15"])
	assert.False(t, app.undo.CanUndo())
}

func TestApp_ClearToday(t *testing.T) {
	store := createTestStorage(t)
	seedHabits(t, store, nil, "Read")
	app := newTestApp(t, store, nil)

	press(app, "m", "5", "enter")

	h, _ := store.Habit("Read")
	_, recorded := h.History["2024-06-15"]
	assert.False(t, recorded)
	assert.Equal(t, "Cleared today: Read", app.status)
	assert.Contains(t, app.View(), "0/1 habits")
}

func TestApp_DeleteWithConfirmation(t *testing.T) {
	store := createTestStorage(t)
	seedHabits(t, store, nil, "Read", "Walk")
	app := newTestApp(t, store, nil)

	press(app, "x")
	require.Equal(t, modeConfirmDelete, app.mode)
	assert.Contains(t, app.View(), "Delete habit?")

	press(app, "n")
	assert.Equal(t, modeBrowse, app.mode)
	assert.Len(t, store.Names(), 2)

	selected := app.habits.Selected()
	press(app, "x", "y")
	assert.NotContains(t, store.Names(), selected)
	assert.Len(t, store.Names(), 1)
}

func TestApp_DeleteWithoutConfirmation(t *testing.T) {
	store := createTestStorage(t)
	seedHabits(t, store, nil, "Read")
	cfg := testAppConfig()
	cfg.ConfirmDeletions = false
	app := newTestApp(t, store, cfg)

	press(app, "x")
	assert.Equal(t, modeBrowse, app.mode)
	assert.Empty(t, store.Names())
}

func TestApp_UndoRedoDelete(t *testing.T) {
	store := createTestStorage(t)
	seedHabits(t, store, nil, "Read")
	app := newTestApp(t, store, nil)
	press(app, "m", "3", "enter")
	press(app, "x", "y")
	require.Empty(t, store.Names())

	press(app, "ctrl+z")
	assert.Equal(t, []string{"Read"}, store.Names())
	h, _ := store.Habit("Read")
	assert.Equal(t, storage.MoodTired, h.History["2024-06-15"], "undo restores history")
	assert.Equal(t, "Undid: Deleted habit: Read", app.status)

	press(app, "ctrl+y")
	assert.Empty(t, store.Names())
	assert.Equal(t, "Redid: Deleted habit: Read", app.status)
}

func TestApp_UndoWaitsForPendingMutation(t *testing.T) {
	store := createTestStorage(t)
	seedHabits(t, store, nil, "Read", "Walk")
	cfg := testAppConfig()
	cfg.ConfirmDeletions = false
	app := newTestApp(t, store, cfg)

	_, del := app.Update(keyMsg("x"))
	require.NotNil(t, del)
	assert.Equal(t, 1, app.inflight)

	_, undo := app.Update(keyMsg("u"))
	assert.Nil(t, undo)
	assert.Equal(t, "Undo: busy", app.status)

	drain(app, del)
	assert.Equal(t, 0, app.inflight)
	assert.Equal(t, []string{"Walk"}, store.Names())

	press(app, "u")
	assert.Equal(t, []string{"Read", "Walk"}, store.Names())
	assert.Equal(t, "Undid: Deleted habit: Read", app.status)
}

func TestApp_MutationWaitsForUndo(t *testing.T) {
	store := createTestStorage(t)
	seedHabits(t, store, nil, "Read")
	cfg := testAppConfig()
	cfg.ConfirmDeletions = false
	app := newTestApp(t, store, cfg)
	press(app, "m", "3", "enter")

	_, undo := app.Update(keyMsg("u"))
	require.NotNil(t, undo)

	_, del := app.Update(keyMsg("x"))
	assert.Nil(t, del)
	assert.Equal(t, "Busy: undo in progress", app.status)
	assert.Equal(t, 0, app.inflight)

	drain(app, undo)
	assert.False(t, app.undoBusy)
	assert.Equal(t, []string{"Read"}, store.Names())
	h, _ := store.Habit("Read")
	assert.Equal(t, storage.MoodHappy, h.History["2024-06-15"])
}

func TestApp_UndoWithEmptyHistory(t *testing.T) {
	app := newTestApp(t, createTestStorage(t), nil)

	press(app, "u")
	assert.Equal(t, "Nothing to undo", app.status)
	assert.False(t, app.undoBusy)
}

func TestApp_CursorFollowsSelection(t *testing.T) {
	store := createTestStorage(t)
	seedHabits(t, store, nil, "Read", "Walk")
	store.Select("Read")
	app := newTestApp(t, store, nil)
	require.Equal(t, "Read", app.habits.Selected())

	press(app, "j")
	assert.Equal(t, "Walk", app.habits.Selected())
	assert.Equal(t, "Walk", store.Selected())
	assert.Equal(t, "Walk", app.panel.selected)
	assert.Contains(t, app.View(), "7-Day Mood Dots — Walk")
}

func TestApp_ReportFlow(t *testing.T) {
	store := createTestStorage(t)
	seedHabits(t, store, nil, "Read")
	app := newTestApp(t, store, nil)

	press(app, "r")
	require.Equal(t, modeRange, app.mode)
	assert.Contains(t, app.View(), "Last 7 days (incl. today)")

	press(app, "enter")
	require.Equal(t, modeReport, app.mode)
	assert.Equal(t, 7, app.report.report.TotalDays)
	assert.Contains(t, app.View(), "09-06-2024 to 15-06-2024")

	press(app, "esc")
	assert.Equal(t, modeBrowse, app.mode)
	assert.Nil(t, app.report)
}

func TestApp_TrendRangeTooLong(t *testing.T) {
	store := createTestStorage(t)
	seedHabits(t, store, nil, "Read")
	app := newTestApp(t, store, nil)

	press(app, "t", "tab", "tab")
	require.Equal(t, focusStart, app.rangeForm.focus)
	for range 10 {
		press(app, "backspace")
	}
	typeText(app, "01-01-2024")
	press(app, "enter")

	assert.Equal(t, modeRange, app.mode)
	assert.Contains(t, app.rangeForm.err, "Invalid")

	press(app, "esc")
	assert.Equal(t, modeBrowse, app.mode)
}

func TestApp_TrendView(t *testing.T) {
	store := createTestStorage(t)
	seedHabits(t, store, nil, "Read")
	app := newTestApp(t, store, nil)

	press(app, "t", "enter")
	require.Equal(t, modeTrend, app.mode)
	assert.Equal(t, 14, app.trend.report.TotalDays)
	assert.Contains(t, app.View(), "Completion: 1/14 days (7%)")
}

func TestApp_ExportFromReport(t *testing.T) {
	store := createTestStorage(t)
	seedHabits(t, store, nil, "Read")
	cfg := testAppConfig()
	cfg.ExportDir = t.TempDir()
	app := newTestApp(t, store, cfg)

	press(app, "r", "enter", "e")

	path := filepath.Join(cfg.ExportDir, "report_Read_09-06-2024_to_15-06-2024.txt")
	assert.FileExists(t, path)
	assert.Equal(t, "📄 Exported: "+path, app.status)
	assert.Equal(t, modeReport, app.mode)
}

func TestApp_ExportDirectly(t *testing.T) {
	store := createTestStorage(t)
	seedHabits(t, store, nil, "Read")
	cfg := testAppConfig()
	cfg.ExportDir = t.TempDir()
	app := newTestApp(t, store, cfg)

	press(app, "e", "enter")
	assert.Equal(t, modeBrowse, app.mode)

	entries, err := os.ReadDir(cfg.ExportDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestApp_ExportFailureShowsError(t *testing.T) {
	store := createTestStorage(t)
	seedHabits(t, store, nil, "Read")
	cfg := testAppConfig()
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0600))
	cfg.ExportDir = filepath.Join(blocker, "exports")
	app := newTestApp(t, store, cfg)

	press(app, "e", "enter")
	assert.True(t, app.statusErr)
	assert.Contains(t, app.status, "Export failed")
}

func TestApp_RangeWithoutHabits(t *testing.T) {
	app := newTestApp(t, createTestStorage(t), nil)

	for _, k := range []string{"r", "t", "e", "c"} {
		press(app, k)
		assert.Equal(t, modeBrowse, app.mode, k)
	}
	assert.Equal(t, "No habits yet.", app.status)
}

func TestApp_Calendar(t *testing.T) {
	store := createTestStorage(t)
	seedHabits(t, store, nil, "Read", "Walk")
	store.Select("Read")
	app := newTestApp(t, store, nil)

	press(app, "c")
	require.Equal(t, modeCalendar, app.mode)
	view := app.View()
	assert.Contains(t, view, "June 2024")
	assert.Contains(t, view, "Habit: Read")
	assert.Contains(t, view, "1 day(s) recorded")

	press(app, "l")
	assert.Contains(t, app.View(), "July 2024")
	press(app, "h", "h")
	assert.Contains(t, app.View(), "May 2024")

	press(app, "j")
	assert.Equal(t, "Walk", app.calendar.habit())
	assert.Equal(t, "Walk", store.Selected())

	press(app, "t")
	require.Equal(t, modeRange, app.mode)
	assert.Equal(t, "Walk", app.rangeForm.habit())
	press(app, "enter")
	require.Equal(t, modeTrend, app.mode)

	press(app, "esc")
	assert.Equal(t, modeCalendar, app.mode)
	press(app, "esc")
	assert.Equal(t, modeBrowse, app.mode)
}

func TestApp_HelpOverlay(t *testing.T) {
	app := newTestApp(t, createTestStorage(t), nil)

	press(app, "?")
	require.True(t, app.showHelp)
	assert.Contains(t, app.View(), "Habits")

	// Keys are swallowed while help is open.
	press(app, "a")
	assert.Equal(t, modeBrowse, app.mode)

	press(app, "esc")
	assert.False(t, app.showHelp)
}

func TestApp_QuitShowsProgress(t *testing.T) {
	store := createTestStorage(t)
	seedHabits(t, store, nil, "Read")
	app := newTestApp(t, store, nil)

	_, cmd := app.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.True(t, app.quitting)
	assert.Contains(t, app.View(), "See you tomorrow!")
	assert.Contains(t, app.View(), "1/1 habits (100%)")
}

func TestApp_StatusExpires(t *testing.T) {
	app := newTestApp(t, createTestStorage(t), nil)

	app.SetStatus("hello", false)
	app.Update(tickMsg(time.Now()))
	assert.Equal(t, "hello", app.status)

	app.Update(tickMsg(time.Now().Add(time.Minute)))
	assert.Empty(t, app.status)
}

func TestApp_ReloadsAfterMidnight(t *testing.T) {
	store := createTestStorage(t)
	seedHabits(t, store, nil, "Read")
	app := newTestApp(t, store, nil)
	require.Equal(t, 1, app.panel.summary.Done)

	store.SetNowFunc(func() time.Time { return testNow.Add(24 * time.Hour) })
	_, cmd := app.Update(tickMsg(time.Now()))
	require.NotNil(t, cmd)

	app.Update(loadDocCmd(store)())
	assert.Equal(t, 0, app.panel.summary.Done)
	assert.Equal(t, "2024-06-16", app.day.Format("2006-01-02"))
}
