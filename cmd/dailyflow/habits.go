package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"dailyflow/internal/reports"
	"dailyflow/internal/storage"

	"github.com/spf13/cobra"
)

func newAddCmd(app *cliApp) *cobra.Command {
	var mood string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a habit and record today's mood",
		Long: `Add a habit. Today's mood is recorded with it (happy unless --mood says
otherwise); pass --mood "" to add the habit without marking today.

Examples:
  dailyflow add "Drink water"
  dailyflow add Stretch --mood tired`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var m storage.Mood
			if mood != "" {
				parsed, err := storage.ParseMood(mood)
				if err != nil {
					return err
				}
				m = parsed
			}
			store, err := app.openStore()
			if err != nil {
				return err
			}
			name, err := store.CreateHabit(args[0], m)
			if err != nil {
				return err
			}

			p := app.printerFor(cmd.OutOrStdout())
			if m == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Added habit: %s\n", p.ok.Render("✓"), name)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Added habit: %s (%s %s)\n", p.ok.Render("✓"), name, m.Glyph(), m)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&mood, "mood", "m", string(storage.MoodHappy), "today's mood: happy, neutral, tired or stressed")
	return cmd
}

func newMarkCmd(app *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "mark <name> <mood>",
		Short: "Record today's mood for a habit",
		Long: `Mark a habit done for today with a mood. Marking again replaces today's
mood. Habit names match case-insensitively.

Example:
  dailyflow mark read happy`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mood, err := storage.ParseMood(args[1])
			if err != nil {
				return err
			}
			store, err := app.openStore()
			if err != nil {
				return err
			}
			name, err := store.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := store.RecordMood(name, mood, store.Today()); err != nil {
				return err
			}

			h, _ := store.Habit(name)
			p := app.printerFor(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "%s Marked: %s %s %s  (%s)\n",
				p.ok.Render("✓"), name, mood.Glyph(), mood, reports.StreakLabel(reports.Streak(h, store.Today())))
			return nil
		},
	}
}

func newClearCmd(app *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <name>",
		Short: "Remove today's record for a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.openStore()
			if err != nil {
				return err
			}
			name, err := store.Resolve(args[0])
			if err != nil {
				return err
			}
			if err := store.ClearDay(name, store.Today()); err != nil {
				return err
			}
			p := app.printerFor(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "%s Cleared today: %s\n", p.ok.Render("🧽"), name)
			return nil
		},
	}
}

func newDeleteCmd(app *cliApp) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a habit and its whole history",
		Long: `Delete a habit together with its history and recent activity.

Asks for confirmation on a terminal; pass --yes when scripting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.openStore()
			if err != nil {
				return err
			}
			name, err := store.Resolve(args[0])
			if err != nil {
				return err
			}

			if !yes {
				if !isTerminal(cmd.InOrStdin()) {
					return fmt.Errorf("refusing to delete %q without --yes", name)
				}
				ok, err := confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete habit %q and its history? [y/N] ", name))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Canceled.")
					return nil
				}
			}

			if err := store.DeleteHabit(name); err != nil {
				return err
			}
			p := app.printerFor(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted habit: %s\n", p.ok.Render("✓"), name)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// confirm reads one y/n answer.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func newListCmd(app *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show today's status for every habit",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.openStore()
			if err != nil {
				return err
			}
			return printList(cmd.OutOrStdout(), app.printerFor(cmd.OutOrStdout()), store)
		},
	}
}

// nameWidth is the column width for habit names in list output.
const nameWidth = 24

func printList(w io.Writer, p *printer, store *storage.Storage) error {
	doc := store.Snapshot()
	today := store.Today()
	sum := reports.Today(doc, today)

	fmt.Fprintf(w, "%s  %s  %d/%d habits\n",
		p.bold.Render("Today "+today.Format("02-01-2006")), reports.MiniBar(sum.Done, sum.Total), sum.Done, sum.Total)
	if sum.Total == 0 {
		fmt.Fprintln(w, p.muted.Render("No habits yet. Add one with: dailyflow add <name>"))
		return nil
	}

	for _, h := range sum.Habits {
		mark, mood := p.muted.Render("·"), storage.Mood("")
		if h.DoneToday {
			mark, mood = p.ok.Render("✓"), h.TodayMood
		}
		week := reports.WeekDots(h.Name, mustHabit(doc, h.Name), today)
		var dots strings.Builder
		for _, d := range week.Days {
			if d.Done {
				dots.WriteString("●")
			} else {
				dots.WriteString("○")
			}
		}
		fmt.Fprintf(w, "  %s %s %s  %s  %s  %s\n",
			mark,
			pad(h.Name, nameWidth),
			pad(mood.Glyph()+" "+mood.Label(), 12),
			pad(reports.StreakLabel(h.Streak), 16),
			dots.String(),
			p.muted.Render("last: "+h.Last.Label()))
	}
	return nil
}

func mustHabit(doc *storage.Document, name string) *storage.Habit {
	h, ok := doc.Habits.Get(name)
	if !ok {
		return storage.NewHabit()
	}
	return h
}

func newRecentCmd(app *cliApp) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show recent activity, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 1 {
				return fmt.Errorf("--limit must be at least 1")
			}
			store, err := app.openStore()
			if err != nil {
				return err
			}
			entries := reports.RecentEvents(store.Snapshot(), limit)
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "(no recent activity)")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintln(cmd.OutOrStdout(), reports.RecentLine(e))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 5, "number of entries to show")
	return cmd
}
