/*
main.go - Command-line schedule generator

PURPOSE:
  Generates a leave schedule without the server: the policy comes from
  flags, holidays from the bundled Italian table, and the result is
  written as CSV, iCalendar or the dense day table.

EXAMPLES:
  # Parental leave maximizer from Epiphany, 10 ferie, CSV on stdout
  leaveplan --start 2025-01-06 --mode weekend_bridging --ferie 10

  # 120-hour blocks as an iCalendar file
  leaveplan --start 2025-03-03 --mode Hours --format ics --out leave.ics

  # Day table plus a per-category tally on stderr
  leaveplan --start 2025-01-06 --mode Days --format days --days

SEE ALSO:
  - leave/generator.go: Generation
  - leave/export.go: Output formats
*/
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"github.com/warp/leave-planner/factory"
	"github.com/warp/leave-planner/generic"
	"github.com/warp/leave-planner/generic/store"
	"github.com/warp/leave-planner/leave"
)

type options struct {
	start    string
	mode     string
	ferie    int
	budget   int
	format   string
	out      string
	calendar string
	tally    bool
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:          "leaveplan",
		Short:        "Generate a leave schedule",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Render fully before touching --out so a failed run leaves no file behind.
			var buf bytes.Buffer
			if err := run(opts, &buf, stderr); err != nil {
				return err
			}
			if opts.out == "" {
				_, err := stdout.Write(buf.Bytes())
				return err
			}
			return os.WriteFile(opts.out, buf.Bytes(), 0o644)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().StringVar(&opts.start, "start", generic.Today().Key(), "Start date YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.mode, "mode", string(generic.ModeWeekendBridging), "Allocation mode (fixed_days, fixed_months, fixed_hours, weekend_bridging or Days/Months/Hours)")
	cmd.Flags().IntVar(&opts.ferie, "ferie", 0, "Vacation days available for weekend bridging")
	cmd.Flags().IntVar(&opts.budget, "budget", generic.DefaultTotalBudget, "Total chargeable leave days")
	cmd.Flags().StringVar(&opts.format, "format", "csv", "Output format: csv, ics or days")
	cmd.Flags().StringVar(&opts.out, "out", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&opts.calendar, "calendar", leave.CalendarItaly, "Holiday calendar ID")
	cmd.Flags().BoolVar(&opts.tally, "days", false, "Print the per-category day count to stderr")

	return cmd
}

var formats = []string{"csv", "ics", "days"}

func run(opts options, w, stderr io.Writer) error {
	if !slices.Contains(formats, opts.format) {
		return fmt.Errorf("unknown format %q (use csv, ics or days)", opts.format)
	}

	budget := opts.budget
	policy, err := factory.NewPolicyFactory().FromJSON(factory.PolicyJSON{
		Mode:         opts.mode,
		TotalBudget:  &budget,
		VacationDays: opts.ferie,
		CalendarID:   opts.calendar,
	})
	if err != nil {
		return err
	}

	start, err := generic.ParseDate(opts.start)
	if err != nil {
		return err
	}

	s, err := leave.Generate(policy.At(start))
	if err != nil {
		return err
	}

	holidays := store.NewMemory()
	holidays.Seed(opts.calendar, leave.ItalianHolidays2025())

	var rows []generic.DayRow
	if opts.format == "days" || opts.tally {
		rows = leave.Classify(s, holidays)
	}

	switch opts.format {
	case "csv":
		err = leave.WriteCSV(w, s)
	case "ics":
		err = leave.WriteICS(w, s, "Leave schedule")
	case "days":
		err = leave.WriteDaysCSV(w, rows)
	default:
		return fmt.Errorf("unknown format %q (use csv, ics or days)", opts.format)
	}
	if err != nil {
		return err
	}

	if opts.tally {
		counts := leave.Tally(rows)
		for _, c := range generic.Categories {
			fmt.Fprintf(stderr, "%-12s %d\n", c.Label(), counts[c])
		}
	}
	return nil
}
