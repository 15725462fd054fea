package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"dailyflow/internal/dates"
	"dailyflow/internal/reports"
	"dailyflow/internal/storage"

	"github.com/spf13/cobra"
)

// rangeFlags selects either the last N days or an explicit start/end.
type rangeFlags struct {
	last int
	from string
	to   string
}

func (f *rangeFlags) register(cmd *cobra.Command, defaultDays int) {
	cmd.Flags().IntVarP(&f.last, "last", "l", defaultDays, "number of days ending today")
	cmd.Flags().StringVar(&f.from, "from", "", "start date (DD-MM-YYYY or YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "end date (DD-MM-YYYY or YYYY-MM-DD, default today)")
	cmd.MarkFlagsMutuallyExclusive("last", "from")
}

// resolve applies the same rules as the range dialog. maxDays <= 0 means
// no cap.
func (f *rangeFlags) resolve(today time.Time, maxDays int) (time.Time, time.Time, error) {
	if f.from == "" && f.to == "" {
		if f.last < 1 {
			return time.Time{}, time.Time{}, fmt.Errorf("--last must be at least 1")
		}
		if maxDays > 0 && f.last > maxDays {
			return time.Time{}, time.Time{}, fmt.Errorf("--last %d: %w (max %d days)", f.last, dates.ErrRangeTooLong, maxDays)
		}
		start, end := dates.LastDays(today, f.last)
		return start, end, nil
	}
	if f.from == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("--to needs --from")
	}
	to := f.to
	if to == "" {
		to = dates.FormatDisplay(today)
	}
	return dates.ParseRange(f.from, to, today, maxDays)
}

func newReportCmd(app *cliApp) *cobra.Command {
	var (
		rf     rangeFlags
		format string
		export bool
		outDir string
	)
	cmd := &cobra.Command{
		Use:   "report <name>",
		Short: "Print a day-by-day report for a habit",
		Long: `Print a day-by-day report for one habit: done marker and mood for every
day, a completion bar and the mood tally.

Examples:
  dailyflow report Read
  dailyflow report Read --last 30
  dailyflow report Read --from 01-06-2024 --to 15-06-2024
  dailyflow report Read --format json
  dailyflow report Read --export`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("last") {
				rf.last = app.cfg.Reports.ReportDays
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" && format != "json" {
				return fmt.Errorf("--format must be text or json, got %q", format)
			}
			r, err := app.rangeReport(args[0], &rf, 0)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if export {
				dir := outDir
				if dir == "" {
					dir = app.cfg.GetExportDir()
				}
				path, err := reports.Export(dir, r)
				if err != nil {
					return err
				}
				p := app.printerFor(out)
				fmt.Fprintf(out, "%s Exported: %s\n", p.ok.Render("📄"), path)
				return nil
			}
			if format == "json" {
				data, err := reports.FormatJSON(r)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}
			fmt.Fprintln(out, reports.FormatText(r))
			return nil
		},
	}
	rf.register(cmd, 7)
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	cmd.Flags().BoolVarP(&export, "export", "e", false, "write the text report to the export directory")
	cmd.Flags().StringVar(&outDir, "output-dir", "", "directory for --export (default: reports.export_dir)")
	return cmd
}

// rangeReport resolves the habit and the range flags into a report.
func (a *cliApp) rangeReport(name string, rf *rangeFlags, maxDays int) (*reports.RangeReport, error) {
	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	habit, err := store.Resolve(name)
	if err != nil {
		return nil, err
	}
	start, end, err := rf.resolve(store.Today(), maxDays)
	if err != nil {
		return nil, err
	}
	return reports.NewGenerator(store).Range(habit, start, end)
}

func newTrendCmd(app *cliApp) *cobra.Command {
	var rf rangeFlags
	cmd := &cobra.Command{
		Use:   "trend <name>",
		Short: "Show the mood trend for a habit",
		Long: `Show one line per day with its mood, then the completion rate and mood
tally. Ranges are capped at reports.trend_max_days (60 by default).`,
		Args: cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("last") {
				rf.last = app.cfg.Reports.TrendDays
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := app.rangeReport(args[0], &rf, app.cfg.Reports.TrendMaxDays)
			if err != nil {
				return err
			}
			printTrend(cmd.OutOrStdout(), app.printerFor(cmd.OutOrStdout()), r)
			return nil
		},
	}
	rf.register(cmd, 14)
	return cmd
}

func printTrend(w io.Writer, p *printer, r *reports.RangeReport) {
	fmt.Fprintf(w, "%s  (%s → %s)\n\n", p.bold.Render("Mood Trend — "+r.Habit),
		dates.FormatDisplay(r.Start), dates.FormatDisplay(r.End))
	for _, d := range r.Days {
		dot := p.muted.Render("○")
		if d.Done {
			dot = p.ok.Render("●")
		}
		fmt.Fprintf(w, "  %s %s  %s %s\n", d.Date.Format("Mon 02-01"), dot, d.Mood.Glyph(), d.Mood.Label())
	}
	fmt.Fprintf(w, "\nCompletion: %d/%d days (%d%%)\n", r.CompletedCount, r.TotalDays, r.Percent())
	fmt.Fprintln(w, reports.TallyLine(r.MoodTally))
}

func newCalendarCmd(app *cliApp) *cobra.Command {
	var (
		month  string
		format string
	)
	cmd := &cobra.Command{
		Use:   "calendar <name>",
		Short: "Show a month calendar of recorded moods",
		Long: `Show a Monday-first month grid with the mood recorded on each day.

Examples:
  dailyflow calendar Read
  dailyflow calendar Read --month 2024-05`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := app.openStore()
			if err != nil {
				return err
			}
			habit, err := store.Resolve(args[0])
			if err != nil {
				return err
			}

			year, mon := store.Today().Year(), store.Today().Month()
			if month != "" {
				t, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("--month must be YYYY-MM, got %q", month)
				}
				year, mon = t.Year(), t.Month()
			}

			cal, err := reports.NewGenerator(store).Calendar(habit, year, mon)
			if err != nil {
				return err
			}
			if format == "json" {
				data, err := reports.FormatCalendarJSON(cal)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			printCalendar(cmd.OutOrStdout(), app.printerFor(cmd.OutOrStdout()), cal)
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month to show as YYYY-MM (default: current month)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text or json")
	return cmd
}

// calendarCell is the width of one grid column.
const calendarCell = 6

func printCalendar(w io.Writer, p *printer, cal *reports.Calendar) {
	fmt.Fprintf(w, "%s   Habit: %s\n\n", p.bold.Render(cal.Title()), cal.Habit)

	var header []string
	for _, wd := range reports.WeekdayHeaders {
		header = append(header, pad(wd, calendarCell))
	}
	fmt.Fprintln(w, p.muted.Render(strings.TrimRight(strings.Join(header, ""), " ")))

	for _, week := range cal.Weeks {
		var row strings.Builder
		for _, c := range week {
			text := ""
			if c.InMonth {
				text = fmt.Sprintf("%2d %s", c.Date.Day(), c.Mood.Glyph())
				if c.Mood == "" {
					text = fmt.Sprintf("%2d ·", c.Date.Day())
				}
			}
			row.WriteString(pad(text, calendarCell))
		}
		fmt.Fprintln(w, strings.TrimRight(row.String(), " "))
	}

	fmt.Fprintf(w, "\n%d day(s) recorded\n", cal.Recorded())
	var legend []string
	for _, m := range storage.Moods {
		legend = append(legend, m.Glyph()+" "+string(m))
	}
	fmt.Fprintln(w, p.muted.Render(strings.Join(legend, "  ")))
}
