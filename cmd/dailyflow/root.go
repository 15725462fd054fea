package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"dailyflow/internal/config"
	"dailyflow/internal/fsutil"
	"dailyflow/internal/logging"
	"dailyflow/internal/storage"
	"dailyflow/internal/storage/sqlstore"
	"dailyflow/internal/ui"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// cliApp is the state shared by every subcommand of one invocation.
type cliApp struct {
	cfg     *config.Config
	log     *slog.Logger
	store   *storage.Storage
	closers []io.Closer

	// flags
	dataDir string
	backend string
	noColor bool
}

func newRootCmd() *cobra.Command {
	app := &cliApp{}

	root := &cobra.Command{
		Use:   "dailyflow",
		Short: "dailyflow - track daily habits and how they felt",
		Long: `dailyflow keeps one card per habit. Each day you mark a habit with a mood
(happy, neutral, tired or stressed); streaks, reports, a 7-day dot strip,
mood trends and a month calendar are derived from that history.

Run without a command to open the terminal UI.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.close()
		},
		RunE: app.runTUI,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetVersionTemplate("dailyflow version {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&app.dataDir, "data-dir", "", "data directory (overrides config and "+config.EnvDataDir+")")
	pf.StringVar(&app.backend, "storage", "", "storage backend: json or sqlite")
	pf.BoolVar(&app.noColor, "no-color", false, "disable colour output")

	root.AddCommand(
		newAddCmd(app),
		newMarkCmd(app),
		newClearCmd(app),
		newDeleteCmd(app),
		newListCmd(app),
		newRecentCmd(app),
		newReportCmd(app),
		newTrendCmd(app),
		newCalendarCmd(app),
		newBackupCmd(app),
		newRestoreCmd(app),
		newRemindCmd(app),
		newVersionCmd(),
	)
	return root
}

// setup loads configuration, applies the global flags and opens the log.
// The store is opened lazily so backup and restore never hold it.
func (a *cliApp) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if a.backend != "" {
		cfg.Storage.Backend = a.backend
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	a.cfg = cfg

	if a.noColor || !isTerminal(cmd.OutOrStdout()) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	level, _ := cfg.LogLevel()
	logPath := cfg.Log.File
	if logPath == "" {
		logPath = logging.DefaultPath(cfg.GetDataDir())
	}
	log, closer, err := logging.New(logging.Config{Level: level, Component: cmd.Name(), Path: logPath})
	if err != nil {
		// Logging must never stop the app.
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		log = logging.Discard()
	}
	a.log = log
	a.closers = append(a.closers, closer)
	return nil
}

func (a *cliApp) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if a.closers[i] != nil {
			errs = append(errs, a.closers[i].Close())
		}
	}
	a.closers = nil
	a.store = nil
	return errors.Join(errs...)
}

// openStore returns the store for the configured backend, loading it on
// first use.
func (a *cliApp) openStore() (*storage.Storage, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := a.newStore()
	if err != nil {
		return nil, err
	}
	store.Load()
	a.store = store
	return store, nil
}

// openReader returns a store that has not loaded the document. Callers
// read through Peek, which never moves an unreadable file aside.
func (a *cliApp) openReader() (*storage.Storage, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := a.newStore()
	if err != nil {
		return nil, err
	}
	a.store = store
	return store, nil
}

func (a *cliApp) newStore() (*storage.Storage, error) {
	dataDir := a.cfg.GetDataDir()

	var store *storage.Storage
	switch a.cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err := sqlstore.Open(filepath.Join(dataDir, sqlstore.DataFile))
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		a.closers = append(a.closers, db)
		store = storage.New(db)
	default:
		if err := os.MkdirAll(dataDir, fsutil.DirPerm); err != nil {
			return nil, fmt.Errorf("initializing storage: %w", err)
		}
		store = storage.New(storage.NewFileBackend(filepath.Join(dataDir, storage.DataFile)))
	}
	store.SetLogger(a.log)
	store.SetOnSave(func(c storage.SaveContext) {
		a.log.Debug("saved", "op", c.Operation, "habit", c.Habit, "event", c.Event)
	})
	a.log.Debug("store opened", "backend", a.cfg.Storage.Backend, "location", store.Location())
	return store, nil
}

// runTUI starts the terminal UI, or prints the habit list when stdout is
// not a terminal.
func (a *cliApp) runTUI(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unknown command %q (see dailyflow --help)", args[0])
	}
	store, err := a.openStore()
	if err != nil {
		return err
	}
	if !isTerminal(cmd.OutOrStdout()) || !isTerminal(cmd.InOrStdin()) {
		return printList(cmd.OutOrStdout(), newPrinter(cmd.OutOrStdout(), false), store)
	}

	a.log.Info("starting ui", "version", version)
	return ui.Run(store, ui.NewStyles(a.cfg), ui.NewAppConfig(a.cfg))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// Skip config and log setup.
		PersistentPreRunE:  func(*cobra.Command, []string) error { return nil },
		PersistentPostRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dailyflow version %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", date)
		},
	}
}
