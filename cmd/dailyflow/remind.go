package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"dailyflow/internal/notify"
	"dailyflow/internal/reminder"

	"github.com/spf13/cobra"
)

func newRemindCmd(app *cliApp) *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send a daily desktop reminder for habits not done yet",
		Long: `Run in the foreground and, every day at notifications.habit_reminder,
send a desktop notification listing the habits not yet marked today.
Requires notifications.enabled in the config file.

With --once, check immediately and exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n := app.cfg.Notifications
			if !n.Enabled && !once {
				return fmt.Errorf("notifications are disabled; set notifications.enabled: true in the config file")
			}
			store, err := app.openReader()
			if err != nil {
				return err
			}

			notifier := notify.New()
			if !notifier.IsSupported() {
				app.log.Warn("desktop notifications are not supported on this system")
			}
			sched := reminder.New(store, notifier, n.Sound)
			sched.SetLogger(app.log)
			out := cmd.OutOrStdout()

			if once {
				pending, err := sched.Check()
				if err != nil {
					return err
				}
				if len(pending) == 0 {
					fmt.Fprintln(out, "All habits done today.")
					return nil
				}
				fmt.Fprintln(out, reminder.Message(pending))
				return nil
			}

			hour, minute, err := app.cfg.ReminderTime()
			if err != nil {
				return err
			}
			if err := sched.Schedule(hour, minute); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(out, "Reminding daily at %02d:%02d. Press Ctrl+C to stop.\n", hour, minute)
			return sched.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "check now, notify if needed, and exit")
	return cmd
}
