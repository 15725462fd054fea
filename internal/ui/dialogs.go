package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dailyflow/internal/dates"
	"dailyflow/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// dialogResult tells the app what a key did to a dialog.
type dialogResult int

const (
	dialogOpen dialogResult = iota
	dialogDone
	dialogCanceled
)

var (
	leftKey  = key.NewBinding(key.WithKeys("left", "h", "shift+tab"))
	rightKey = key.NewBinding(key.WithKeys("right", "l", "tab"))
	nextKey  = key.NewBinding(key.WithKeys("tab", "down"))
	prevKey  = key.NewBinding(key.WithKeys("shift+tab", "up"))
)

// moodIndex returns m's position in storage.Moods, or def.
func moodIndex(m storage.Mood, def int) int {
	for i, c := range storage.Moods {
		if c == m {
			return i
		}
	}
	return def
}

// digitChoice maps "1".."n" to 0..n-1.
func digitChoice(msg tea.KeyMsg, n int) (int, bool) {
	s := msg.String()
	if len(s) != 1 || s[0] < '1' || int(s[0]-'1') >= n {
		return 0, false
	}
	return int(s[0] - '1'), true
}

func (s *Styles) moodRow(selected int, extra ...string) string {
	var opts []string
	for i, m := range storage.Moods {
		label := m.Glyph() + " " + string(m)
		if i == selected {
			opts = append(opts, s.OptionActive.Render(label))
		} else {
			opts = append(opts, s.OptionStyle.Render(label))
		}
	}
	for i, label := range extra {
		if len(storage.Moods)+i == selected {
			opts = append(opts, s.OptionActive.Render(label))
		} else {
			opts = append(opts, s.OptionStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, opts...)
}

// =============================================================================
// Add habit
// =============================================================================

// addDialog asks for a name, then for today's mood (happy by default).
type addDialog struct {
	input    textinput.Model
	pickMood bool
	mood     int
	err      string
}

func newAddDialog() *addDialog {
	ti := textinput.New()
	ti.Placeholder = "Habit name (e.g., Drink water)"
	ti.CharLimit = 60
	ti.Width = 30
	ti.Focus()
	return &addDialog{input: ti}
}

func (d *addDialog) name() string {
	return strings.TrimSpace(d.input.Value())
}

// update handles one message. exists reports case-insensitive clashes so
// the name step can reject duplicates before a mood is chosen.
func (d *addDialog) update(msg tea.Msg, keys KeyMap, exists func(string) bool) (dialogResult, tea.Cmd) {
	km, isKey := msg.(tea.KeyMsg)
	if isKey && key.Matches(km, keys.Cancel) {
		return dialogCanceled, nil
	}

	if !d.pickMood {
		if isKey && key.Matches(km, keys.Confirm) {
			switch name := d.name(); {
			case name == "":
				d.err = capitalize(storage.ErrEmptyName.Error()) + "."
			case exists(name):
				d.err = capitalize(storage.ErrHabitExists.Error()) + "."
			default:
				d.err = ""
				d.pickMood = true
				d.input.Blur()
			}
			return dialogOpen, nil
		}
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return dialogOpen, cmd
	}

	if !isKey {
		return dialogOpen, nil
	}
	if i, ok := digitChoice(km, len(storage.Moods)); ok {
		d.mood = i
		return dialogOpen, nil
	}
	switch {
	case key.Matches(km, keys.Confirm):
		return dialogDone, nil
	case key.Matches(km, leftKey):
		d.mood = (d.mood + len(storage.Moods) - 1) % len(storage.Moods)
	case key.Matches(km, rightKey):
		d.mood = (d.mood + 1) % len(storage.Moods)
	}
	return dialogOpen, nil
}

func (d *addDialog) selectedMood() storage.Mood {
	return storage.Moods[d.mood]
}

func (d *addDialog) view(s *Styles) string {
	var b strings.Builder
	b.WriteString(s.OverlayTitle.Render("Add Habit"))
	b.WriteString("\n\nHabit name:\n")
	if d.pickMood {
		b.WriteString(s.CardNameStyle.Render(d.name()))
	} else {
		b.WriteString(d.input.View())
	}
	if d.pickMood {
		m := d.selectedMood()
		b.WriteString("\n\nMood today:\n")
		b.WriteString(s.moodRow(d.mood))
		fmt.Fprintf(&b, "\nSelected: %s %s", m.Glyph(), m)
	}
	if d.err != "" {
		b.WriteString("\n\n" + s.ErrorStyle.Render(d.err))
	}
	b.WriteString("\n\n")
	if d.pickMood {
		b.WriteString(s.RenderHelp("←/→ 1-4", "mood", "enter", "save", "esc", "cancel"))
	} else {
		b.WriteString(s.RenderHelp("enter", "next", "esc", "cancel"))
	}
	return b.String()
}

// =============================================================================
// Mood picker
// =============================================================================

// clearOption is the extra choice after the four moods.
const clearOption = "🧽 clear today"

// moodPicker sets or clears today's mood for one habit.
type moodPicker struct {
	habit  string
	cursor int // len(storage.Moods) selects clear
}

func newMoodPicker(habit string, last storage.Mood) *moodPicker {
	return &moodPicker{habit: habit, cursor: moodIndex(last, 0)}
}

func (p *moodPicker) clearSelected() bool {
	return p.cursor == len(storage.Moods)
}

func (p *moodPicker) mood() storage.Mood {
	if p.clearSelected() {
		return ""
	}
	return storage.Moods[p.cursor]
}

func (p *moodPicker) update(msg tea.Msg, keys KeyMap) dialogResult {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return dialogOpen
	}
	n := len(storage.Moods) + 1
	if i, ok := digitChoice(km, n); ok {
		p.cursor = i
		return dialogOpen
	}
	switch {
	case key.Matches(km, keys.Cancel):
		return dialogCanceled
	case key.Matches(km, keys.Confirm):
		return dialogDone
	case key.Matches(km, leftKey):
		p.cursor = (p.cursor + n - 1) % n
	case key.Matches(km, rightKey):
		p.cursor = (p.cursor + 1) % n
	}
	return dialogOpen
}

func (p *moodPicker) view(s *Styles) string {
	var b strings.Builder
	b.WriteString(s.OverlayTitle.Render("Update Mood — " + truncateText(p.habit, 30)))
	b.WriteString("\n\n")
	b.WriteString(s.moodRow(p.cursor, clearOption))
	b.WriteString("\n")
	if p.clearSelected() {
		b.WriteString("Selected: clear today's record")
	} else {
		fmt.Fprintf(&b, "Selected: %s %s", p.mood().Glyph(), p.mood())
	}
	b.WriteString("\n\n")
	b.WriteString(s.RenderHelp("←/→ 1-5", "choose", "enter", "ok", "esc", "cancel"))
	return b.String()
}

// =============================================================================
// Range picker
// =============================================================================

type rangePurpose int

const (
	purposeReport rangePurpose = iota
	purposeTrend
	purposeExport
)

func (p rangePurpose) title() string {
	switch p {
	case purposeTrend:
		return "Trend"
	case purposeExport:
		return "Export"
	}
	return "Report"
}

const (
	focusHabit = iota
	focusMode
	focusStart
	focusEnd
	focusCount
)

// rangeDialog picks a habit and either the preset window ending today or
// a custom start/end pair.
type rangeDialog struct {
	purpose     rangePurpose
	habits      []string
	habitIdx    int
	custom      bool
	focus       int
	start       textinput.Model
	end         textinput.Model
	today       time.Time
	defaultDays int
	limit       int // 0 means no cap
	err         string

	// set when the dialog completes
	from, to time.Time
}

func newRangeDialog(purpose rangePurpose, habits []string, selected string, today time.Time, defaultDays, limit int) *rangeDialog {
	d := &rangeDialog{
		purpose:     purpose,
		habits:      habits,
		today:       dates.Of(today),
		defaultDays: defaultDays,
		limit:       limit,
	}
	for i, h := range habits {
		if h == selected {
			d.habitIdx = i
		}
	}
	from, to := dates.LastDays(today, defaultDays)
	d.start = dateInput(dates.FormatDisplay(from))
	d.end = dateInput(dates.FormatDisplay(to))
	return d
}

func dateInput(value string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = "DD-MM-YYYY"
	ti.CharLimit = 10
	ti.Width = 12
	ti.SetValue(value)
	return ti
}

func (d *rangeDialog) habit() string {
	return d.habits[d.habitIdx]
}

func (d *rangeDialog) setFocus(f int) {
	d.focus = (f + focusCount) % focusCount
	d.start.Blur()
	d.end.Blur()
	switch d.focus {
	case focusStart:
		d.start.Focus()
	case focusEnd:
		d.end.Focus()
	}
}

func (d *rangeDialog) submit() bool {
	if !d.custom {
		d.from, d.to = dates.LastDays(d.today, d.defaultDays)
		return true
	}
	from, to, err := dates.ParseRange(d.start.Value(), d.end.Value(), d.today, d.limit)
	if err != nil {
		d.err = "Invalid: " + capitalize(rangeErrorText(err)) + "."
		return false
	}
	d.err = ""
	d.from, d.to = from, to
	return true
}

// rangeErrorText drops the field prefix for unparseable dates, matching
// the single "please enter valid dates" message.
func rangeErrorText(err error) string {
	if errors.Is(err, dates.ErrNotADate) {
		return dates.ErrNotADate.Error()
	}
	return err.Error()
}

func (d *rangeDialog) update(msg tea.Msg, keys KeyMap) (dialogResult, tea.Cmd) {
	km, isKey := msg.(tea.KeyMsg)
	if isKey {
		switch {
		case key.Matches(km, keys.Cancel):
			return dialogCanceled, nil
		case key.Matches(km, keys.Confirm):
			if d.submit() {
				return dialogDone, nil
			}
			return dialogOpen, nil
		case key.Matches(km, nextKey):
			d.setFocus(d.focus + 1)
			return dialogOpen, nil
		case key.Matches(km, prevKey):
			d.setFocus(d.focus - 1)
			return dialogOpen, nil
		}
	}

	var cmd tea.Cmd
	switch d.focus {
	case focusHabit:
		if isKey && len(d.habits) > 0 {
			switch km.String() {
			case "left", "h":
				d.habitIdx = (d.habitIdx + len(d.habits) - 1) % len(d.habits)
			case "right", "l":
				d.habitIdx = (d.habitIdx + 1) % len(d.habits)
			}
		}
	case focusMode:
		if isKey {
			switch km.String() {
			case "left", "right", "h", "l", " ":
				d.custom = !d.custom
			}
		}
	case focusStart:
		d.custom = true
		d.start, cmd = d.start.Update(msg)
	case focusEnd:
		d.custom = true
		d.end, cmd = d.end.Update(msg)
	}
	return dialogOpen, cmd
}

func (d *rangeDialog) view(s *Styles) string {
	marker := func(f int) string {
		if d.focus == f {
			return s.HelpKeyStyle.Render("› ")
		}
		return "  "
	}
	radio := func(on bool) string {
		if on {
			return "(•)"
		}
		return "( )"
	}

	var b strings.Builder
	b.WriteString(s.OverlayTitle.Render(d.purpose.title()))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%sHabit:  ◀ %s ▶\n", marker(focusHabit), truncateText(d.habit(), 30))
	fmt.Fprintf(&b, "%sRange:  %s Last %d days (incl. today)   %s Custom (DD-MM-YYYY)\n",
		marker(focusMode), radio(!d.custom), d.defaultDays, radio(d.custom))
	fmt.Fprintf(&b, "%sStart:  %s\n", marker(focusStart), d.start.View())
	fmt.Fprintf(&b, "%sEnd:    %s\n", marker(focusEnd), d.end.View())
	if d.limit > 0 {
		b.WriteString(s.HintStyle.Render(fmt.Sprintf("Custom ranges are limited to %d days.", d.limit)))
		b.WriteString("\n")
	}
	if d.err != "" {
		b.WriteString("\n" + s.ErrorStyle.Render(d.err) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(s.RenderHelp("tab", "field", "←/→", "change", "enter", "show", "esc", "cancel"))
	return b.String()
}

// =============================================================================
// Confirm delete
// =============================================================================

func (a *App) confirmDeleteView() string {
	s := a.styles
	var b strings.Builder
	b.WriteString(s.ErrorStyle.Render("Delete habit?"))
	b.WriteString("\n\n")
	b.WriteString(s.CardNameStyle.Render(truncateText(a.pendingDelete, 40)))
	b.WriteString("\n")
	b.WriteString(s.HintStyle.Render("Its whole history and recent activity go with it."))
	b.WriteString("\n\n")
	b.WriteString(s.HintStyle.Render("[y/enter] delete    [n/esc] cancel"))
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
