// Package ui is the dailyflow terminal interface.
// This file defines key bindings; every binding can be remapped from the
// keys section of the config file.
package ui

import (
	"strings"

	"dailyflow/internal/config"

	"github.com/charmbracelet/bubbles/key"
)

// parseKeys splits a comma-separated binding list, falling back to
// defaults when custom is empty.
func parseKeys(custom string, defaults ...string) []string {
	if custom == "" {
		return defaults
	}
	var out []string
	for _, k := range strings.Split(custom, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		return defaults
	}
	return out
}

func binding(custom string, help, desc string, defaults ...string) key.Binding {
	keys := parseKeys(custom, defaults...)
	if custom != "" {
		help = keys[0]
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

// KeyMap holds every binding the app reacts to.
type KeyMap struct {
	Quit key.Binding
	Help key.Binding
	Undo key.Binding
	Redo key.Binding

	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	AddHabit    key.Binding
	MarkHabit   key.Binding
	DeleteHabit key.Binding
	Report      key.Binding
	Trend       key.Binding
	Calendar    key.Binding
	Export      key.Binding

	PrevMonth key.Binding
	NextMonth key.Binding

	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultKeyMap returns the stock bindings.
func DefaultKeyMap() KeyMap {
	return NewKeyMap(nil)
}

// NewKeyMap applies cfg on top of the stock bindings.
func NewKeyMap(cfg *config.KeysConfig) KeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return KeyMap{
		Quit: binding(cfg.Quit, "q", "quit", "q", "ctrl+c"),
		Help: binding(cfg.Help, "?", "help", "?"),
		Undo: binding(cfg.Undo, "u", "undo", "ctrl+z", "u"),
		Redo: binding(cfg.Redo, "ctrl+y", "redo", "ctrl+y"),

		Up:     binding(cfg.Up, "k/↑", "up", "k", "up"),
		Down:   binding(cfg.Down, "j/↓", "down", "j", "down"),
		Top:    binding(cfg.Top, "g", "top", "g", "home"),
		Bottom: binding(cfg.Bottom, "G", "bottom", "G", "end"),

		AddHabit:    binding(cfg.AddHabit, "a", "add", "a"),
		MarkHabit:   binding(cfg.MarkHabit, "enter", "mark", "enter", " ", "m"),
		DeleteHabit: binding(cfg.DeleteHabit, "x", "delete", "x"),
		Report:      binding(cfg.Report, "r", "report", "r"),
		Trend:       binding(cfg.Trend, "t", "trend", "t"),
		Calendar:    binding(cfg.Calendar, "c", "calendar", "c"),
		Export:      binding(cfg.Export, "e", "export", "e"),

		PrevMonth: binding(cfg.PrevMonth, "←", "prev month", "h", "left", "["),
		NextMonth: binding(cfg.NextMonth, "→", "next month", "l", "right", "]"),

		Confirm: binding(cfg.Confirm, "enter", "confirm", "enter"),
		Cancel:  binding(cfg.Cancel, "esc", "cancel", "esc"),
	}
}

// ShortHelp is the browse-mode hint line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddHabit, k.MarkHabit, k.DeleteHabit, k.Report, k.Calendar, k.Help}
}

// FullHelp groups bindings for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.AddHabit, k.MarkHabit, k.DeleteHabit},
		{k.Report, k.Trend, k.Calendar, k.Export},
		{k.Up, k.Down, k.Top, k.Bottom},
		{k.PrevMonth, k.NextMonth},
		{k.Undo, k.Redo, k.Help, k.Quit},
	}
}

// closeKeys dismisses overlays regardless of the configured bindings.
var closeKeys = key.NewBinding(
	key.WithKeys("?", "esc", "q", "enter", " "),
	key.WithHelp("any key", "close"),
)
