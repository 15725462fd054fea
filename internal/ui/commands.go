package ui

// tea.Cmd factories wrapping store I/O so the event loop never blocks on
// a write.

import (
	"time"

	"dailyflow/internal/reports"
	"dailyflow/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
)

func loadDocCmd(store *storage.Storage) tea.Cmd {
	return func() tea.Msg {
		return docLoadedMsg{doc: store.Snapshot()}
	}
}

// mutate runs fn inside Storage.Track, so the undo snapshots bracket
// exactly this step.
func mutate(store *storage.Storage, op, habit string, fn func(storage.Tx) (string, error)) tea.Cmd {
	return func() tea.Msg {
		name := habit
		before, after, err := store.Track(func(tx storage.Tx) error {
			n, err := fn(tx)
			if n != "" {
				name = n
			}
			return err
		})
		return mutatedMsg{op: op, habit: name, before: before, after: after, err: err}
	}
}

func createHabitCmd(store *storage.Storage, name string, mood storage.Mood) tea.Cmd {
	return mutate(store, "add", name, func(tx storage.Tx) (string, error) {
		return tx.CreateHabit(name, mood)
	})
}

func recordMoodCmd(store *storage.Storage, name string, mood storage.Mood, day time.Time) tea.Cmd {
	return mutate(store, "mark", name, func(tx storage.Tx) (string, error) {
		return name, tx.RecordMood(name, mood, day)
	})
}

func clearDayCmd(store *storage.Storage, name string, day time.Time) tea.Cmd {
	return mutate(store, "clear", name, func(tx storage.Tx) (string, error) {
		return name, tx.ClearDay(name, day)
	})
}

func deleteHabitCmd(store *storage.Storage, name string) tea.Cmd {
	return mutate(store, "delete", name, func(tx storage.Tx) (string, error) {
		return name, tx.DeleteHabit(name)
	})
}

func exportCmd(dir string, r *reports.RangeReport) tea.Cmd {
	return func() tea.Msg {
		path, err := reports.Export(dir, r)
		return exportedMsg{path: path, err: err}
	}
}

func undoCmd(m *UndoManager) tea.Cmd {
	return func() tea.Msg {
		desc, err := m.Undo()
		return undoResultMsg{desc: desc, err: err}
	}
}

func redoCmd(m *UndoManager) tea.Cmd {
	return func() tea.Msg {
		desc, err := m.Redo()
		return redoResultMsg{desc: desc, err: err}
	}
}
