package ui

// Undo history. Every entry swaps whole-document snapshots through
// Storage.Replace, so undoing a delete brings back history, done markers
// and recent entries together.

import (
	"errors"
	"sync"

	"dailyflow/internal/storage"
)

const maxHistorySize = 50

// UndoableAction is one reversible step.
type UndoableAction struct {
	Description string
	Undo        func() error
	Redo        func() error // nil when the step cannot be redone
}

// UndoManager keeps the undo and redo stacks.
type UndoManager struct {
	mu   sync.Mutex
	undo []*UndoableAction
	redo []*UndoableAction
}

func NewUndoManager() *UndoManager {
	return &UndoManager{}
}

// Push records a new step and drops the redo history.
func (m *UndoManager) Push(a *UndoableAction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redo = nil
	if len(m.undo) == maxHistorySize {
		m.undo = m.undo[1:]
	}
	m.undo = append(m.undo, a)
}

func (m *UndoManager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo) > 0
}

func (m *UndoManager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo) > 0
}

// Undo reverts the newest step and returns its description, or "" when
// there is nothing to undo. A failed step stays on the stack.
func (m *UndoManager) Undo() (string, error) {
	a := m.pop(&m.undo)
	if a == nil {
		return "", nil
	}
	if err := a.Undo(); err != nil {
		m.push(&m.undo, a)
		return "", err
	}
	if a.Redo != nil {
		m.push(&m.redo, a)
	}
	return a.Description, nil
}

// Redo reapplies the newest undone step.
func (m *UndoManager) Redo() (string, error) {
	a := m.pop(&m.redo)
	if a == nil {
		return "", nil
	}
	if err := a.Redo(); err != nil {
		m.push(&m.redo, a)
		return "", err
	}
	m.push(&m.undo, a)
	return a.Description, nil
}

// Clear forgets all history.
func (m *UndoManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo, m.redo = nil, nil
}

func (m *UndoManager) pop(stack *[]*UndoableAction) *UndoableAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(*stack)
	if n == 0 {
		return nil
	}
	a := (*stack)[n-1]
	*stack = (*stack)[:n-1]
	return a
}

func (m *UndoManager) push(stack *[]*UndoableAction, a *UndoableAction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*stack = append(*stack, a)
}

var errNoSnapshot = errors.New("no snapshot to restore")

// NewSnapshotAction undoes by restoring before and redoes by restoring
// after.
func NewSnapshotAction(store *storage.Storage, desc string, before, after *storage.Document) *UndoableAction {
	restore := func(doc *storage.Document) func() error {
		return func() error {
			if doc == nil {
				return errNoSnapshot
			}
			return store.Replace(doc)
		}
	}
	return &UndoableAction{
		Description: desc,
		Undo:        restore(before),
		Redo:        restore(after),
	}
}

// describe turns a mutation into the undo status text.
func describe(op, habit string) string {
	name := truncateText(habit, 20)
	switch op {
	case "add":
		return "Added habit: " + name
	case "mark":
		return "Marked: " + name
	case "clear":
		return "Cleared today: " + name
	case "delete":
		return "Deleted habit: " + name
	}
	return op + ": " + name
}
