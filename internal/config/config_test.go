package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points config lookup at a temp XDG dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	tempDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tempDir)
	t.Setenv(EnvConfig, "")
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvStorage, "")
	t.Setenv(EnvLogLevel, "")
	return tempDir
}

func writeConfig(t *testing.T, xdg, content string) {
	t.Helper()
	dir := filepath.Join(xdg, "dailyflow")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
	if cfg.Storage.Backend != BackendJSON {
		t.Errorf("Storage.Backend = %q, want json", cfg.Storage.Backend)
	}
	if cfg.Reports.ReportDays != 7 || cfg.Reports.TrendDays != 14 || cfg.Reports.TrendMaxDays != 60 {
		t.Errorf("Reports = %+v, want 7/14/60", cfg.Reports)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Theme.Primary != "#6CCB7E" {
		t.Errorf("Theme.Primary = %q, want #6CCB7E", cfg.Theme.Primary)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	xdg := isolate(t)
	writeConfig(t, xdg, `
data_dir: /custom/data
storage:
  backend: SQLite
theme:
  primary: "#FF0000"
reports:
  export_dir: /tmp/exports
  trend_days: 30
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DataDir != "/custom/data" {
		t.Errorf("DataDir = %q, want /custom/data", cfg.DataDir)
	}
	if cfg.Storage.Backend != BackendSQLite {
		t.Errorf("Storage.Backend = %q, want sqlite", cfg.Storage.Backend)
	}
	if cfg.Theme.Primary != "#FF0000" {
		t.Errorf("Theme.Primary = %q, want #FF0000", cfg.Theme.Primary)
	}
	// Muted should still be default
	if cfg.Theme.Muted != "#7E8A93" {
		t.Errorf("Theme.Muted = %q, want #7E8A93", cfg.Theme.Muted)
	}
	if cfg.Reports.TrendDays != 30 || cfg.Reports.TrendMaxDays != 60 || cfg.Reports.ReportDays != 7 {
		t.Errorf("Reports = %+v", cfg.Reports)
	}
	if cfg.GetExportDir() != "/tmp/exports" {
		t.Errorf("GetExportDir() = %q", cfg.GetExportDir())
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	xdg := isolate(t)
	writeConfig(t, xdg, "theme: [unclosed")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail on malformed YAML")
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	override := &Config{
		DataDir: "/override/path",
		Theme:   ThemeConfig{Primary: "#CUSTOM"},
		Keys:    KeysConfig{MarkHabit: "d"},
	}

	base.mergeNonEmpty(override)

	if base.DataDir != "/override/path" {
		t.Errorf("DataDir = %q, want /override/path", base.DataDir)
	}
	if base.Theme.Primary != "#CUSTOM" {
		t.Errorf("Theme.Primary = %q, want #CUSTOM", base.Theme.Primary)
	}
	if base.Keys.MarkHabit != "d" {
		t.Errorf("Keys.MarkHabit = %q, want d", base.Keys.MarkHabit)
	}
	// Accent should remain default
	if base.Theme.Accent != "#A76A86" {
		t.Errorf("Theme.Accent = %q, want #A76A86", base.Theme.Accent)
	}
	if !base.UX.ConfirmDeletions {
		t.Error("mergeNonEmpty must not touch booleans")
	}
}

func TestLoad_MissingBoolKeysDoesNotClobberDefaults(t *testing.T) {
	xdg := isolate(t)
	writeConfig(t, xdg, `
theme:
  primary: "#FF0000"
notifications:
  enabled: true
  habit_reminder: "20:30"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.Notifications.Enabled {
		t.Errorf("Notifications.Enabled = %v, want true", cfg.Notifications.Enabled)
	}
	if !cfg.UX.ConfirmDeletions {
		t.Errorf("UX.ConfirmDeletions = %v, want true", cfg.UX.ConfirmDeletions)
	}
	if !cfg.UX.ShowOnboarding {
		t.Errorf("UX.ShowOnboarding = %v, want true", cfg.UX.ShowOnboarding)
	}
	if !cfg.UX.ShowEncouragement {
		t.Errorf("UX.ShowEncouragement = %v, want true", cfg.UX.ShowEncouragement)
	}

	h, m, err := cfg.ReminderTime()
	if err != nil || h != 20 || m != 30 {
		t.Errorf("ReminderTime() = %d, %d, %v; want 20, 30, nil", h, m, err)
	}
}

func TestLoad_ExplicitFalseOverridesDefault(t *testing.T) {
	xdg := isolate(t)
	writeConfig(t, xdg, `
ux:
  confirm_deletions: false
  show_encouragement: false
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.UX.ConfirmDeletions {
		t.Errorf("UX.ConfirmDeletions = %v, want false", cfg.UX.ConfirmDeletions)
	}
	if cfg.UX.ShowEncouragement {
		t.Errorf("UX.ShowEncouragement = %v, want false", cfg.UX.ShowEncouragement)
	}
	if !cfg.UX.ShowOnboarding {
		t.Errorf("UX.ShowOnboarding = %v, want true", cfg.UX.ShowOnboarding)
	}
}

func TestApplyEnv(t *testing.T) {
	xdg := isolate(t)
	writeConfig(t, xdg, "data_dir: /from/file\n")
	t.Setenv(EnvDataDir, "/from/env")
	t.Setenv(EnvStorage, " SQLITE ")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DataDir != "/from/env" {
		t.Errorf("DataDir = %q, want /from/env", cfg.DataDir)
	}
	if cfg.Storage.Backend != BackendSQLite {
		t.Errorf("Storage.Backend = %q, want sqlite", cfg.Storage.Backend)
	}
	if lvl, err := cfg.LogLevel(); err != nil || lvl.String() != "DEBUG" {
		t.Errorf("LogLevel() = %v, %v", lvl, err)
	}
}

func TestConfigPathOverride(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: warn\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfig, path)

	if Path() != path {
		t.Fatalf("Path() = %q, want %q", Path(), path)
	}
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown backend", func(c *Config) { c.Storage.Backend = "postgres" }, "storage.backend"},
		{"bad reminder", func(c *Config) { c.Notifications.HabitReminder = "25:00" }, "habit_reminder"},
		{"trend over max", func(c *Config) { c.Reports.TrendDays = 90 }, "exceeds"},
		{"zero report days", func(c *Config) { c.Reports.ReportDays = 0 }, "report_days"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetDataDir(t *testing.T) {
	cfg := &Config{}
	if filepath.Base(cfg.GetDataDir()) != ".dailyflow" {
		t.Errorf("GetDataDir() = %q, want to end with .dailyflow", cfg.GetDataDir())
	}

	cfg.DataDir = "/custom/path"
	if got := cfg.GetDataDir(); got != "/custom/path" {
		t.Errorf("GetDataDir() = %q, want /custom/path", got)
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		t.Skip("no home directory")
	}
	cfg.DataDir = "~"
	if got := cfg.GetDataDir(); got != home {
		t.Errorf("GetDataDir() = %q, want %q", got, home)
	}
	cfg.DataDir = "~/mydata"
	if got := cfg.GetDataDir(); got != filepath.Join(home, "mydata") {
		t.Errorf("GetDataDir() = %q, want %q", got, filepath.Join(home, "mydata"))
	}
}

func TestSave(t *testing.T) {
	xdg := isolate(t)

	cfg := Default()
	cfg.DataDir = "/saved/path"
	cfg.Theme.Primary = "#SAVED"

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(xdg, "dailyflow", "config.yaml")); err != nil {
		t.Fatalf("config file not created: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DataDir != "/saved/path" {
		t.Errorf("loaded DataDir = %q, want /saved/path", loaded.DataDir)
	}
	if loaded.Theme.Primary != "#SAVED" {
		t.Errorf("loaded Theme.Primary = %q, want #SAVED", loaded.Theme.Primary)
	}
}
