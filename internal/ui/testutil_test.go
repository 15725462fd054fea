package ui

import (
	"testing"
	"time"

	"dailyflow/internal/config"
	"dailyflow/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"
)

// testNow is the fixed clock used by every UI test: Saturday 15 June 2024.
var testNow = time.Date(2024, 6, 15, 9, 30, 0, 0, time.Local)

// setupTest disables colour so rendered views compare as plain text.
func setupTest(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestStorage opens an empty store in a temp dir on the fixed clock.
func createTestStorage(t *testing.T) *storage.Storage {
	t.Helper()
	store, err := storage.Open(t.TempDir())
	require.NoError(t, err)
	store.SetNowFunc(func() time.Time { return testNow })
	return store
}

func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

func testAppConfig() *AppConfig {
	cfg := defaultAppConfig()
	cfg.ShowOnboarding = false
	cfg.ExportDir = ""
	return cfg
}

// newTestApp builds an app over store, loads the document and sizes the
// window wide enough for the two-column layout.
func newTestApp(t *testing.T, store *storage.Storage, cfg *AppConfig) *App {
	t.Helper()
	setupTest(t)
	if cfg == nil {
		cfg = testAppConfig()
	}
	app := NewApp(store, createTestStyles(), cfg)
	app.intn = func(int) int { return 0 }
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	app.Update(loadDocCmd(store)())
	return app
}

// keyMsg builds a key message the way Bubble Tea reports it.
func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+z":
		return tea.KeyMsg{Type: tea.KeyCtrlZ}
	case "ctrl+y":
		return tea.KeyMsg{Type: tea.KeyCtrlY}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends each key and runs whatever command comes back, feeding the
// resulting messages into the app until the chain settles. Ticks and
// cursor blinks are dropped.
func press(app *App, keys ...string) {
	for _, k := range keys {
		_, cmd := app.Update(keyMsg(k))
		drain(app, cmd)
	}
}

func typeText(app *App, text string) {
	for _, r := range text {
		press(app, string(r))
	}
}

func drain(app *App, cmd tea.Cmd) {
	for i := 0; cmd != nil && i < 10; i++ {
		msg := cmd()
		switch msg.(type) {
		case docLoadedMsg, mutatedMsg, exportedMsg, undoResultMsg, redoResultMsg:
			_, cmd = app.Update(msg)
		default:
			return
		}
	}
}

// seedHabits writes habits straight into the store.
func seedHabits(t *testing.T, store *storage.Storage, moods map[string]storage.Mood, names ...string) {
	t.Helper()
	for _, name := range names {
		m, ok := moods[name]
		if !ok {
			m = storage.MoodHappy
		}
		_, err := store.CreateHabit(name, m)
		require.NoError(t, err)
	}
}
