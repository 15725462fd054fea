// Package ui is the dailyflow terminal interface: habit cards on the
// left, a summary panel on the right, and dialogs and views layered on
// top, all driven by one Bubble Tea model.
package ui

import (
	"fmt"
	"strings"
	"time"

	"dailyflow/internal/config"
	"dailyflow/internal/dates"
	"dailyflow/internal/reports"
	"dailyflow/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LayoutMode determines how the cards and side panel are arranged.
type LayoutMode int

const (
	// LayoutWide puts the side panel to the right of the cards.
	LayoutWide LayoutMode = iota
	// LayoutNarrow stacks the side panel under the cards.
	LayoutNarrow
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeMood
	modeConfirmDelete
	modeRange
	modeReport
	modeTrend
	modeCalendar
)

// AppConfig holds the user settings the UI reacts to.
type AppConfig struct {
	Keys                  *config.KeysConfig
	ConfirmDeletions      bool
	ShowOnboarding        bool
	ShowEncouragement     bool
	NarrowLayoutThreshold int
	ExportDir             string
	ReportDays            int
	TrendDays             int
	TrendMaxDays          int
}

// NewAppConfig extracts the UI settings from cfg.
func NewAppConfig(cfg *config.Config) *AppConfig {
	return &AppConfig{
		Keys:                  &cfg.Keys,
		ConfirmDeletions:      cfg.UX.ConfirmDeletions,
		ShowOnboarding:        cfg.UX.ShowOnboarding,
		ShowEncouragement:     cfg.UX.ShowEncouragement,
		NarrowLayoutThreshold: cfg.UX.NarrowLayoutThreshold,
		ExportDir:             cfg.GetExportDir(),
		ReportDays:            cfg.Reports.ReportDays,
		TrendDays:             cfg.Reports.TrendDays,
		TrendMaxDays:          cfg.Reports.TrendMaxDays,
	}
}

func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Keys:                  &config.KeysConfig{},
		ConfirmDeletions:      true,
		ShowOnboarding:        true,
		ShowEncouragement:     true,
		NarrowLayoutThreshold: 80,
		ReportDays:            7,
		TrendDays:             14,
		TrendMaxDays:          60,
	}
}

// App is the root model.
type App struct {
	store  *storage.Storage
	gen    *reports.Generator
	styles *Styles
	config *AppConfig
	keys   KeyMap

	doc   *storage.Document
	day   time.Time
	weeks map[string]*reports.RangeReport

	habits   *HabitsPane
	panel    sidePanel
	help     *HelpOverlay
	undo     *UndoManager
	undoBusy bool
	inflight int // mutations sent but not yet reported

	mode          mode
	returnTo      mode
	add           *addDialog
	picker        *moodPicker
	pendingDelete string
	rangeForm     *rangeDialog
	report        *reportView
	trend         *trendView
	calendar      *calendarView

	layoutMode  LayoutMode
	showHelp    bool
	showWelcome bool
	width       int
	height      int
	status      string
	statusErr   bool
	statusUntil time.Time
	quitting    bool

	intn func(int) int
}

// NewApp builds the model. The document is loaded by Init.
func NewApp(store *storage.Storage, styles *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = defaultAppConfig()
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}
	keys := NewKeyMap(cfg.Keys)
	snap := store.Snapshot()

	a := &App{
		store:       store,
		gen:         reports.NewGenerator(store),
		styles:      styles,
		config:      cfg,
		keys:        keys,
		doc:         storage.NewDocument(),
		weeks:       map[string]*reports.RangeReport{},
		habits:      NewHabitsPane(styles, keys),
		help:        NewHelpOverlay(styles, keys),
		undo:        NewUndoManager(),
		showWelcome: cfg.ShowOnboarding && snap.Habits.Len() == 0 && len(snap.Recent) == 0,
		intn:        defaultIntn,
	}
	a.panel.summary = &reports.TodaySummary{}
	a.panel.showTip = cfg.ShowEncouragement
	a.panel.encourage = pickEncouragement(a.intn, "")
	return a
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(tickCmd(), loadDocCmd(a.store))
}

// refresh recomputes every derived view from doc.
func (a *App) refresh(doc *storage.Document) {
	a.doc = doc
	a.day = a.store.Today()

	summary := reports.Today(doc, a.day)
	a.weeks = make(map[string]*reports.RangeReport, doc.Habits.Len())
	for _, name := range doc.Habits.Names() {
		h, _ := doc.Habits.Get(name)
		a.weeks[name] = reports.WeekDots(name, h, a.day)
	}
	a.habits.SetData(summary, a.weeks, a.store.SelectedOrDefault())
	a.panel.summary = summary
	a.panel.recent = reports.RecentEvents(doc, recentShown)
	a.syncSelection()
}

// syncSelection pushes the card cursor into the store and the panel.
func (a *App) syncSelection() {
	sel := a.habits.Selected()
	a.store.Select(sel)
	a.panel.selected = sel
	a.panel.week = a.weeks[sel]
}

func (a *App) selectHabit(name string) {
	a.store.Select(name)
	a.habits.SetData(a.panel.summary, a.weeks, name)
	a.syncSelection()
}

func (a *App) habitExists(name string) bool {
	_, ok := a.doc.Habits.FindFold(name)
	return ok
}

func (a *App) lastMood(name string) storage.Mood {
	if h, ok := a.doc.Habits.Get(name); ok && h.Last != nil {
		return *h.Last
	}
	return ""
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case docLoadedMsg:
		a.refresh(msg.doc)
		return a, nil

	case mutatedMsg:
		if a.inflight > 0 {
			a.inflight--
		}
		return a, a.handleMutation(msg)

	case exportedMsg:
		if msg.err != nil {
			a.SetStatus("Export failed: "+msg.err.Error(), true)
		} else {
			a.SetStatus("📄 Exported: "+msg.path, false)
		}
		return a, nil

	case undoResultMsg:
		a.undoBusy = false
		a.reportHistory("Undid", "Undo", "undo", msg.desc, msg.err)
		return a, loadDocCmd(a.store)

	case redoResultMsg:
		a.undoBusy = false
		a.reportHistory("Redid", "Redo", "redo", msg.desc, msg.err)
		return a, loadDocCmd(a.store)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tickMsg:
		if a.status != "" && !a.statusUntil.IsZero() && time.Time(msg).After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}
		// Past midnight the cards, streaks and dots all shift by a day.
		if !a.day.IsZero() && !a.store.Today().Equal(a.day) {
			return a, tea.Batch(tickCmd(), loadDocCmd(a.store))
		}
		return a, tickCmd()

	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}

	// Cursor blink and other input-internal messages.
	switch a.mode {
	case modeAdd:
		_, cmd := a.add.update(msg, a.keys, a.habitExists)
		return a, cmd
	case modeRange:
		_, cmd := a.rangeForm.update(msg, a.keys)
		return a, cmd
	}
	return a, nil
}

func (a *App) reportHistory(done, title, verb, desc string, err error) {
	switch {
	case err != nil:
		a.SetStatus(title+" failed: "+err.Error(), true)
	case desc != "":
		a.SetStatus(done+": "+desc, false)
	default:
		a.SetStatus("Nothing to "+verb, false)
	}
}

// startMutation sends cmd unless an undo or redo is still replacing the
// document, which would overwrite the change.
func (a *App) startMutation(cmd tea.Cmd) tea.Cmd {
	if a.undoBusy {
		a.SetStatus("Busy: undo in progress", true)
		return nil
	}
	a.inflight++
	return cmd
}

func (a *App) handleMutation(msg mutatedMsg) tea.Cmd {
	if msg.err != nil {
		a.SetStatus(opTitle(msg.op)+": "+msg.err.Error(), true)
		return loadDocCmd(a.store)
	}
	desc := describe(msg.op, msg.habit)
	a.undo.Push(NewSnapshotAction(a.store, desc, msg.before, msg.after))
	switch msg.op {
	case "add":
		a.store.Select(msg.habit)
	case "mark":
		a.panel.encourage = pickEncouragement(a.intn, a.panel.encourage)
	}
	a.SetStatus(desc, false)
	return loadDocCmd(a.store)
}

func opTitle(op string) string {
	switch op {
	case "add":
		return "Add habit"
	case "mark":
		return "Mark habit"
	case "clear":
		return "Clear today"
	case "delete":
		return "Delete habit"
	}
	return op
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		a.quitting = true
		return tea.Quit
	}
	if a.showWelcome {
		a.showWelcome = false
		return nil
	}
	if a.showHelp {
		if key.Matches(msg, closeKeys) {
			a.showHelp = false
		}
		return nil
	}

	switch a.mode {
	case modeAdd:
		res, cmd := a.add.update(msg, a.keys, a.habitExists)
		switch res {
		case dialogCanceled:
			a.closeDialogs()
		case dialogDone:
			name, mood := a.add.name(), a.add.selectedMood()
			a.closeDialogs()
			return a.startMutation(createHabitCmd(a.store, name, mood))
		}
		return cmd

	case modeMood:
		switch a.picker.update(msg, a.keys) {
		case dialogCanceled:
			a.closeDialogs()
		case dialogDone:
			habit, mood, clear := a.picker.habit, a.picker.mood(), a.picker.clearSelected()
			a.closeDialogs()
			if clear {
				return a.startMutation(clearDayCmd(a.store, habit, a.store.Today()))
			}
			return a.startMutation(recordMoodCmd(a.store, habit, mood, a.store.Today()))
		}
		return nil

	case modeConfirmDelete:
		switch msg.String() {
		case "y", "Y", "enter":
			name := a.pendingDelete
			a.closeDialogs()
			return a.startMutation(deleteHabitCmd(a.store, name))
		case "n", "N", "esc":
			a.closeDialogs()
			a.SetStatus("Canceled", false)
		}
		return nil

	case modeRange:
		res, cmd := a.rangeForm.update(msg, a.keys)
		switch res {
		case dialogCanceled:
			a.mode = a.returnTo
			a.rangeForm = nil
		case dialogDone:
			return a.finishRange()
		}
		return cmd

	case modeReport:
		switch {
		case key.Matches(msg, a.keys.Export):
			return exportCmd(a.config.ExportDir, a.report.report)
		case key.Matches(msg, a.keys.Cancel), key.Matches(msg, a.keys.Quit):
			a.mode = a.returnTo
			a.report = nil
		default:
			a.report.scroll(msg, a.keys, a.reportLines())
		}
		return nil

	case modeTrend:
		if key.Matches(msg, a.keys.Cancel) || key.Matches(msg, a.keys.Quit) {
			a.mode = a.returnTo
			a.trend = nil
		}
		return nil

	case modeCalendar:
		switch {
		case key.Matches(msg, a.keys.Cancel), key.Matches(msg, a.keys.Quit):
			a.mode = modeBrowse
			a.calendar = nil
		case key.Matches(msg, a.keys.Trend):
			a.returnTo = modeCalendar
			a.openRange(purposeTrend, a.calendar.habit())
		default:
			if a.calendar.update(msg, a.keys) {
				a.selectHabit(a.calendar.habit())
			}
		}
		return nil
	}

	return a.handleBrowseKey(msg)
}

func (a *App) handleBrowseKey(msg tea.KeyMsg) tea.Cmd {
	sel := a.habits.Selected()
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.showHelp = true

	case key.Matches(msg, a.keys.Undo):
		if a.undoBusy || a.inflight > 0 {
			a.SetStatus("Undo: busy", true)
			return nil
		}
		a.undoBusy = true
		return undoCmd(a.undo)

	case key.Matches(msg, a.keys.Redo):
		if a.undoBusy || a.inflight > 0 {
			a.SetStatus("Redo: busy", true)
			return nil
		}
		a.undoBusy = true
		return redoCmd(a.undo)

	case key.Matches(msg, a.keys.AddHabit):
		a.add = newAddDialog()
		a.mode = modeAdd
		return textinput.Blink

	case key.Matches(msg, a.keys.MarkHabit):
		if sel == "" {
			a.SetStatus("No habit selected", true)
			return nil
		}
		a.picker = newMoodPicker(sel, a.lastMood(sel))
		a.mode = modeMood

	case key.Matches(msg, a.keys.DeleteHabit):
		if sel == "" {
			a.SetStatus("No habit selected", true)
			return nil
		}
		if !a.config.ConfirmDeletions {
			return a.startMutation(deleteHabitCmd(a.store, sel))
		}
		a.pendingDelete = sel
		a.mode = modeConfirmDelete

	case key.Matches(msg, a.keys.Report):
		a.returnTo = modeBrowse
		a.openRange(purposeReport, sel)

	case key.Matches(msg, a.keys.Trend):
		a.returnTo = modeBrowse
		a.openRange(purposeTrend, sel)

	case key.Matches(msg, a.keys.Export):
		a.returnTo = modeBrowse
		a.openRange(purposeExport, sel)

	case key.Matches(msg, a.keys.Calendar):
		if a.doc.Habits.Len() == 0 {
			a.SetStatus("No habits yet.", false)
			return nil
		}
		a.calendar = newCalendarView(a.doc.Habits.Names(), sel, a.store.Today())
		a.mode = modeCalendar

	default:
		if a.habits.Update(msg) {
			a.syncSelection()
		}
	}
	return nil
}

func (a *App) closeDialogs() {
	a.mode = modeBrowse
	a.add = nil
	a.picker = nil
	a.pendingDelete = ""
}

func (a *App) openRange(purpose rangePurpose, selected string) {
	names := a.doc.Habits.Names()
	if len(names) == 0 {
		a.SetStatus("No habits yet.", false)
		return
	}
	days, limit := a.config.ReportDays, 0
	if purpose == purposeTrend {
		days, limit = a.config.TrendDays, a.config.TrendMaxDays
	}
	a.rangeForm = newRangeDialog(purpose, names, selected, a.store.Today(), days, limit)
	a.mode = modeRange
}

func (a *App) finishRange() tea.Cmd {
	form := a.rangeForm
	a.rangeForm = nil
	a.mode = a.returnTo

	r, err := a.gen.Range(form.habit(), form.from, form.to)
	if err != nil {
		a.SetStatus(err.Error(), true)
		return nil
	}
	if a.returnTo == modeBrowse {
		a.selectHabit(form.habit())
	}

	switch form.purpose {
	case purposeReport:
		a.report = newReportView(r)
		a.mode = modeReport
	case purposeTrend:
		a.trend = &trendView{report: r}
		a.mode = modeTrend
	case purposeExport:
		return exportCmd(a.config.ExportDir, r)
	}
	return nil
}

// reportLines is how many report lines fit on screen; 0 means all.
func (a *App) reportLines() int {
	if a.height <= 0 {
		return 0
	}
	return max(5, a.height-12)
}

func (a *App) updateLayout() {
	a.help.SetSize(a.width, a.height)

	threshold := a.config.NarrowLayoutThreshold
	if threshold <= 0 {
		threshold = 80
	}
	contentHeight := max(6, a.height-3)
	if a.width < threshold {
		a.layoutMode = LayoutNarrow
		// The side panel takes roughly the bottom half.
		a.habits.SetSize(max(24, a.width-2), max(6, contentHeight/2))
		return
	}
	a.layoutMode = LayoutWide
	cardsWidth, _ := a.columnWidths()
	a.habits.SetSize(cardsWidth, contentHeight)
}

// columnWidths splits the terminal between cards and side panel.
func (a *App) columnWidths() (cards, panel int) {
	width := a.width
	if width <= 0 {
		width = 100
	}
	cards = min(width*3/5, 70)
	return cards, max(20, width-cards-2)
}

// View renders the current screen.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}
	if a.showWelcome {
		return overlay(a.styles, a.width, a.height, a.welcomeView())
	}
	if a.showHelp {
		return a.help.View()
	}

	s := a.styles
	switch a.mode {
	case modeAdd:
		return overlay(s, a.width, a.height, a.add.view(s))
	case modeMood:
		return overlay(s, a.width, a.height, a.picker.view(s))
	case modeConfirmDelete:
		return overlay(s, a.width, a.height, a.confirmDeleteView())
	case modeRange:
		return overlay(s, a.width, a.height, a.rangeForm.view(s))
	case modeReport:
		return overlay(s, a.width, a.height, a.report.view(s, a.reportLines()))
	case modeTrend:
		width := 80
		if a.width > 0 {
			width = max(21, a.width-10)
		}
		return overlay(s, a.width, a.height, a.trend.view(s, width))
	case modeCalendar:
		cal, err := a.gen.Calendar(a.calendar.habit(), a.calendar.year, a.calendar.month)
		if err != nil {
			return overlay(s, a.width, a.height, s.ErrorStyle.Render(err.Error()))
		}
		return overlay(s, a.width, a.height, a.calendar.view(s, cal))
	}

	var b strings.Builder
	b.WriteString(a.renderTitleBar())
	b.WriteString("\n")
	if a.layoutMode == LayoutNarrow {
		width := a.width
		if width <= 0 {
			width = 60
		}
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, a.habits.View(), "", a.renderSidePanel(width-2)))
	} else {
		_, panelWidth := a.columnWidths()
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, a.habits.View(), " ", a.renderSidePanel(panelWidth)))
	}
	b.WriteString("\n")
	b.WriteString(a.renderHelpBar())
	return b.String()
}

func (a *App) welcomeView() string {
	s := a.styles
	var b strings.Builder
	b.WriteString(s.OverlayTitle.Render("Welcome to DailyFlow+"))
	b.WriteString("\n\n")
	b.WriteString("Each card is one habit. Mark it once a day with how it felt.\n")
	b.WriteString("Press " + a.keys.AddHabit.Help().Key + " to add your first habit and " + a.keys.Help.Help().Key + " for help.\n\n")
	b.WriteString(s.HintStyle.Render("Press any key to continue"))
	return b.String()
}

func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render("DailyFlow+")
	stats := a.styles.HintStyle.Render(fmt.Sprintf("Today: %d/%d", a.panel.summary.Done, a.panel.summary.Total))
	now := a.store.Now()
	date := a.styles.DateStyle.Render(now.Format("Mon ") + dates.FormatDisplay(now))

	gap := a.width - lipgloss.Width(title) - lipgloss.Width(stats) - lipgloss.Width(date) - 2
	return title + "  " + stats + strings.Repeat(" ", max(2, gap)) + date
}

func (a *App) helpLine(bindings ...key.Binding) string {
	pairs := make([]string, 0, 2*len(bindings))
	for _, kb := range bindings {
		pairs = append(pairs, kb.Help().Key, kb.Help().Desc)
	}
	return a.styles.RenderHelp(pairs...)
}

func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}
	k := a.keys
	return a.helpLine(k.AddHabit, k.MarkHabit, k.DeleteHabit, k.Report, k.Trend, k.Calendar, k.Export, k.Undo, k.Help)
}

func (a *App) renderGoodbye() string {
	var b strings.Builder
	b.WriteString("\n  See you tomorrow!\n\n")
	if sum := a.panel.summary; sum.Total > 0 {
		fmt.Fprintf(&b, "  Today's progress: %s  %d/%d habits (%d%%)\n\n",
			reports.MiniBar(sum.Done, sum.Total), sum.Done, sum.Total, reports.Percent(sum.Done, sum.Total))
	}
	return b.String()
}

// SetStatus shows msg in the help bar for a few seconds.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = time.Now().Add(ttl)
}

// Run starts the program on the alternate screen.
func Run(store *storage.Storage, styles *Styles, cfg *AppConfig) error {
	_, err := tea.NewProgram(NewApp(store, styles, cfg), tea.WithAltScreen()).Run()
	return err
}
