// Package config handles configuration loading and defaults for dailyflow.
// Configuration is loaded from XDG-compliant paths (typically
// ~/.config/dailyflow/config.yaml) and can be overridden from the
// environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dailyflow/internal/fsutil"

	"gopkg.in/yaml.v3"
)

const appName = "dailyflow"

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvConfig   = "DAILYFLOW_CONFIG"
	EnvDataDir  = "DAILYFLOW_DATA_DIR"
	EnvStorage  = "DAILYFLOW_STORAGE"
	EnvLogLevel = "DAILYFLOW_LOG_LEVEL"
)

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.dailyflow)
	DataDir string `yaml:"data_dir,omitempty"`

	Storage       StorageConfig      `yaml:"storage,omitempty"`
	Theme         ThemeConfig        `yaml:"theme,omitempty"`
	Keys          KeysConfig         `yaml:"keys,omitempty"`
	UX            UXConfig           `yaml:"ux,omitempty"`
	Reports       ReportsConfig      `yaml:"reports,omitempty"`
	Notifications NotificationConfig `yaml:"notifications,omitempty"`
	Log           LogConfig          `yaml:"log,omitempty"`
}

// StorageConfig selects where the habit document lives.
type StorageConfig struct {
	// Backend is "json" (habits.json) or "sqlite" (dailyflow.db)
	Backend string `yaml:"backend,omitempty"`
}

// ThemeConfig defines color and style settings.
type ThemeConfig struct {
	// Primary color for focused elements (hex, e.g., "#FF5733")
	Primary string `yaml:"primary,omitempty"`

	// Accent color for highlights (hex)
	Accent string `yaml:"accent,omitempty"`

	// Muted color for secondary text (hex)
	Muted string `yaml:"muted,omitempty"`

	// Background color (hex)
	Background string `yaml:"background,omitempty"`

	// Text color (hex)
	Text string `yaml:"text,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q,ctrl+c", "tab", "j,down"
type KeysConfig struct {
	Quit string `yaml:"quit,omitempty"` // default: "q,ctrl+c"
	Help string `yaml:"help,omitempty"` // default: "?"

	Up     string `yaml:"up,omitempty"`     // default: "k,up"
	Down   string `yaml:"down,omitempty"`   // default: "j,down"
	Top    string `yaml:"top,omitempty"`    // default: "g,home"
	Bottom string `yaml:"bottom,omitempty"` // default: "G,end"

	AddHabit    string `yaml:"add_habit,omitempty"`    // default: "a"
	MarkHabit   string `yaml:"mark_habit,omitempty"`   // default: "enter,space,m"
	DeleteHabit string `yaml:"delete_habit,omitempty"` // default: "x"

	Report   string `yaml:"report,omitempty"`   // default: "r"
	Trend    string `yaml:"trend,omitempty"`    // default: "t"
	Calendar string `yaml:"calendar,omitempty"` // default: "c"
	Export   string `yaml:"export,omitempty"`   // default: "e"

	PrevMonth string `yaml:"prev_month,omitempty"` // default: "h,left,["
	NextMonth string `yaml:"next_month,omitempty"` // default: "l,right,]"

	Confirm string `yaml:"confirm,omitempty"` // default: "enter"
	Cancel  string `yaml:"cancel,omitempty"`  // default: "esc"

	Undo string `yaml:"undo,omitempty"` // default: "ctrl+z,u"
	Redo string `yaml:"redo,omitempty"` // default: "ctrl+y"
}

// UXConfig defines user experience settings.
type UXConfig struct {
	// ConfirmDeletions shows confirmation dialogs before deleting habits
	ConfirmDeletions bool `yaml:"confirm_deletions,omitempty"` // default: true

	// ShowOnboarding shows welcome screen on first run
	ShowOnboarding bool `yaml:"show_onboarding,omitempty"` // default: true

	// ShowEncouragement shows a rotating motivational line in the side panel
	ShowEncouragement bool `yaml:"show_encouragement,omitempty"` // default: true

	// NarrowLayoutThreshold is the terminal width below which to use stacked layout
	NarrowLayoutThreshold int `yaml:"narrow_layout_threshold,omitempty"` // default: 80
}

// ReportsConfig controls the range dialogs and exports.
type ReportsConfig struct {
	// ExportDir is where report_*.txt files are written (default: current directory)
	ExportDir string `yaml:"export_dir,omitempty"`

	// ReportDays is the preset window for reports
	ReportDays int `yaml:"report_days,omitempty"` // default: 7

	// TrendDays is the preset window for the trend view
	TrendDays int `yaml:"trend_days,omitempty"` // default: 14

	// TrendMaxDays caps custom trend ranges
	TrendMaxDays int `yaml:"trend_max_days,omitempty"` // default: 60
}

// NotificationConfig defines desktop notification settings.
type NotificationConfig struct {
	// Enabled enables/disables notifications
	Enabled bool `yaml:"enabled,omitempty"`

	// HabitReminder is the time for daily habit reminders (HH:MM format)
	HabitReminder string `yaml:"habit_reminder,omitempty"`

	// Sound enables notification sounds
	Sound bool `yaml:"sound,omitempty"`
}

// LogConfig controls the structured log.
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `yaml:"level,omitempty"` // default: "info"

	// File is the log path; empty means <data_dir>/dailyflow.log, "-" means stderr
	File string `yaml:"file,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Storage: StorageConfig{Backend: BackendJSON},
		Theme: ThemeConfig{
			Primary: "#6CCB7E", // the "happy" outline green
			Accent:  "#A76A86",
			Muted:   "#7E8A93",
		},
		UX: UXConfig{
			ConfirmDeletions:      true,
			ShowOnboarding:        true,
			ShowEncouragement:     true,
			NarrowLayoutThreshold: 80,
		},
		Reports: ReportsConfig{
			ReportDays:   7,
			TrendDays:    14,
			TrendMaxDays: 60,
		},
		Log: LogConfig{Level: "info"},
	}
}

// defaultDataDir returns the default data directory path.
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(home, "."+appName)
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// Path returns the config file in use: $DAILYFLOW_CONFIG or the XDG default.
func Path() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file, merges it onto defaults, then applies
// environment overrides. A missing file is not an error.
func Load() (*Config, error) {
	cfg, err := LoadFrom(Path())
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// LoadFrom reads one YAML file onto defaults without consulting the environment.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails

	cfg.mergeFromYAML(&userCfg, &doc)
	return cfg, nil
}

// ApplyEnv overrides fields from DAILYFLOW_* variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvStorage); v != "" {
		c.Storage.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setIfPositive(dst *int, v int) {
	if v > 0 {
		*dst = v
	}
}

// mergeNonEmpty applies non-empty values from other to c.
// It intentionally does not touch booleans (those require presence-aware merging).
func (c *Config) mergeNonEmpty(other *Config) {
	setIfNotEmpty(&c.DataDir, other.DataDir)
	setIfNotEmpty(&c.Storage.Backend, strings.ToLower(other.Storage.Backend))

	setIfNotEmpty(&c.Theme.Primary, other.Theme.Primary)
	setIfNotEmpty(&c.Theme.Accent, other.Theme.Accent)
	setIfNotEmpty(&c.Theme.Muted, other.Theme.Muted)
	setIfNotEmpty(&c.Theme.Background, other.Theme.Background)
	setIfNotEmpty(&c.Theme.Text, other.Theme.Text)

	k, o := &c.Keys, other.Keys
	setIfNotEmpty(&k.Quit, o.Quit)
	setIfNotEmpty(&k.Help, o.Help)
	setIfNotEmpty(&k.Up, o.Up)
	setIfNotEmpty(&k.Down, o.Down)
	setIfNotEmpty(&k.Top, o.Top)
	setIfNotEmpty(&k.Bottom, o.Bottom)
	setIfNotEmpty(&k.AddHabit, o.AddHabit)
	setIfNotEmpty(&k.MarkHabit, o.MarkHabit)
	setIfNotEmpty(&k.DeleteHabit, o.DeleteHabit)
	setIfNotEmpty(&k.Report, o.Report)
	setIfNotEmpty(&k.Trend, o.Trend)
	setIfNotEmpty(&k.Calendar, o.Calendar)
	setIfNotEmpty(&k.Export, o.Export)
	setIfNotEmpty(&k.PrevMonth, o.PrevMonth)
	setIfNotEmpty(&k.NextMonth, o.NextMonth)
	setIfNotEmpty(&k.Confirm, o.Confirm)
	setIfNotEmpty(&k.Cancel, o.Cancel)
	setIfNotEmpty(&k.Undo, o.Undo)
	setIfNotEmpty(&k.Redo, o.Redo)

	setIfPositive(&c.UX.NarrowLayoutThreshold, other.UX.NarrowLayoutThreshold)

	setIfNotEmpty(&c.Reports.ExportDir, other.Reports.ExportDir)
	setIfPositive(&c.Reports.ReportDays, other.Reports.ReportDays)
	setIfPositive(&c.Reports.TrendDays, other.Reports.TrendDays)
	setIfPositive(&c.Reports.TrendMaxDays, other.Reports.TrendMaxDays)

	setIfNotEmpty(&c.Notifications.HabitReminder, other.Notifications.HabitReminder)

	setIfNotEmpty(&c.Log.Level, other.Log.Level)
	setIfNotEmpty(&c.Log.File, other.Log.File)
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)

	// Without a node tree we cannot tell an explicit false from a missing key.
	if doc == nil || len(doc.Content) == 0 {
		return
	}

	if yamlHasPath(doc, "ux", "confirm_deletions") {
		c.UX.ConfirmDeletions = other.UX.ConfirmDeletions
	}
	if yamlHasPath(doc, "ux", "show_onboarding") {
		c.UX.ShowOnboarding = other.UX.ShowOnboarding
	}
	if yamlHasPath(doc, "ux", "show_encouragement") {
		c.UX.ShowEncouragement = other.UX.ShowEncouragement
	}

	if yamlHasPath(doc, "notifications", "enabled") {
		c.Notifications.Enabled = other.Notifications.Enabled
	}
	if yamlHasPath(doc, "notifications", "sound") {
		c.Notifications.Sound = other.Notifications.Sound
	}
	if yamlHasPath(doc, "notifications", "habit_reminder") {
		c.Notifications.HabitReminder = other.Notifications.HabitReminder
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if k := n.Content[i]; k.Kind == yaml.ScalarNode && k.Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Validate rejects settings the rest of the program cannot honour.
func (c *Config) Validate() error {
	var errs []error
	switch c.Storage.Backend {
	case BackendJSON, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("storage.backend: unknown backend %q (want json or sqlite)", c.Storage.Backend))
	}
	if c.Notifications.HabitReminder != "" {
		if _, _, err := c.ReminderTime(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Reports.ReportDays < 1 {
		errs = append(errs, errors.New("reports.report_days must be positive"))
	}
	if c.Reports.TrendDays < 1 || c.Reports.TrendMaxDays < 1 {
		errs = append(errs, errors.New("reports.trend_days and reports.trend_max_days must be positive"))
	} else if c.Reports.TrendDays > c.Reports.TrendMaxDays {
		errs = append(errs, fmt.Errorf("reports.trend_days (%d) exceeds reports.trend_max_days (%d)", c.Reports.TrendDays, c.Reports.TrendMaxDays))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ReminderTime parses notifications.habit_reminder.
func (c *Config) ReminderTime() (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(c.Notifications.HabitReminder))
	if err != nil {
		return 0, 0, fmt.Errorf("notifications.habit_reminder: %q is not HH:MM", c.Notifications.HabitReminder)
	}
	return t.Hour(), t.Minute(), nil
}

// LogLevel parses log.level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Save writes the configuration to Path().
func (c *Config) Save() error {
	path := Path()
	if path == "" {
		return nil
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the resolved data directory path.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return expandHome(c.DataDir)
}

// GetExportDir returns the resolved export directory ("." when unset).
func (c *Config) GetExportDir() string {
	if c.Reports.ExportDir == "" {
		return "."
	}
	return expandHome(c.Reports.ExportDir)
}

func expandHome(p string) string {
	if p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return p
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
