package ui

import (
	"dailyflow/internal/storage"
)

// docLoadedMsg carries a fresh snapshot of the document.
type docLoadedMsg struct {
	doc *storage.Document
}

// mutatedMsg reports a finished store mutation. before and after are
// snapshots taken around it and back the undo history.
type mutatedMsg struct {
	op     string // "add", "mark", "clear", "delete"
	habit  string
	before *storage.Document
	after  *storage.Document
	err    error
}

// exportedMsg reports a finished report export.
type exportedMsg struct {
	path string
	err  error
}

type undoResultMsg struct {
	desc string
	err  error
}

type redoResultMsg struct {
	desc string
	err  error
}
