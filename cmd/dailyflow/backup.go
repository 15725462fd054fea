package main

import (
	"fmt"
	"io"
	"time"

	"dailyflow/internal/backup"

	"github.com/spf13/cobra"
)

func newBackupCmd(app *cliApp) *cobra.Command {
	var (
		list  bool
		prune int
	)
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create or list backups of the habit data",
		Long: `Create a timestamped backup of the data file (habits.json or
dailyflow.db). Backups live in <data_dir>/backups/ and can be restored
with 'dailyflow restore'.

Examples:
  dailyflow backup
  dailyflow backup --list
  dailyflow backup --prune 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := backup.NewManager(app.cfg.GetDataDir(), version)
			out := cmd.OutOrStdout()
			p := app.printerFor(out)

			switch {
			case list:
				return listBackups(out, p, manager)
			case cmd.Flags().Changed("prune"):
				deleted, err := manager.Prune(prune)
				if err != nil {
					return fmt.Errorf("pruning backups: %w", err)
				}
				fmt.Fprintf(out, "%s Removed %d old backup(s), kept %d\n", p.ok.Render("✓"), deleted, prune)
				return nil
			}

			name, err := manager.Create()
			if err != nil {
				return fmt.Errorf("creating backup: %w", err)
			}
			info, err := manager.GetBackup(name)
			if err != nil {
				return fmt.Errorf("reading backup info: %w", err)
			}
			app.log.Info("backup created", "name", name)

			fmt.Fprintf(out, "%s Backup created: %s\n", p.ok.Render("✓"), name)
			fmt.Fprintf(out, "  Habits: %d, Recent entries: %d\n", info.Stats["habits"], info.Stats["recent"])
			fmt.Fprintf(out, "  Location: %s\n", info.Path)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list available backups")
	cmd.Flags().IntVar(&prune, "prune", 0, "delete all but the N newest backups")
	cmd.MarkFlagsMutuallyExclusive("list", "prune")
	return cmd
}

func listBackups(w io.Writer, p *printer, manager *backup.Manager) error {
	backups, err := manager.List()
	if err != nil {
		return fmt.Errorf("listing backups: %w", err)
	}
	if len(backups) == 0 {
		fmt.Fprintln(w, "No backups available.")
		fmt.Fprintln(w, "Run 'dailyflow backup' to create one.")
		return nil
	}

	fmt.Fprintln(w, "Available backups:")
	for _, b := range backups {
		fmt.Fprintf(w, "  %s  %s   Habits: %d\n",
			b.Name, p.muted.Render("("+formatAge(time.Since(b.CreatedAt))+")"), b.Stats["habits"])
	}
	return nil
}

// formatAge returns a human-readable age string.
func formatAge(d time.Duration) string {
	plural := func(n int, unit string) string {
		if n == 1 {
			return "1 " + unit + " ago"
		}
		return fmt.Sprintf("%d %ss ago", n, unit)
	}
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	default:
		return plural(int(d.Hours()/24/7), "week")
	}
}

func newRestoreCmd(app *cliApp) *cobra.Command {
	var latest bool
	cmd := &cobra.Command{
		Use:   "restore [NAME]",
		Short: "Restore the habit data from a backup",
		Long: `Restore the data file from a backup. The current data is backed up first,
so a restore can itself be undone.

Examples:
  dailyflow restore 2024-06-15_093000_123
  dailyflow restore --latest`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if latest == (len(args) == 1) {
				return fmt.Errorf("specify either a backup NAME or --latest")
			}
			manager := backup.NewManager(app.cfg.GetDataDir(), version)

			var name string
			if latest {
				restored, err := manager.RestoreLatest()
				if err != nil {
					return fmt.Errorf("restoring latest backup: %w", err)
				}
				name = restored
			} else {
				name = args[0]
				if err := manager.Restore(name); err != nil {
					return fmt.Errorf("restoring %s: %w", name, err)
				}
			}
			app.log.Info("backup restored", "name", name)

			p := app.printerFor(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "%s Restored from backup: %s\n", p.ok.Render("✓"), name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&latest, "latest", false, "restore the most recent backup")
	return cmd
}
