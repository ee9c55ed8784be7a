package snapshot

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pacer/adapter/cli"
	"github.com/felixgeelhaar/pacer/internal/projects/application/queries"
	"github.com/felixgeelhaar/pacer/internal/projects/domain"
)

var (
	calendarFrom string
	calendarTo   string
)

var calendarCmd = &cobra.Command{
	Use:   "calendar [project-id]",
	Short: "Show a project's weekly calendar over a month range",
	Long: `Show one row per task with its snapshots inside the month range.
Tasks without snapshots still get a row.

Examples:
  pacer snapshot calendar <project-id>
  pacer snapshot calendar <project-id> --from 2025-01 --to 2025-03`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		projectID, err := cli.ParseID("project", args[0])
		if err != nil {
			return err
		}

		r := domain.MonthRangeOf(app.CurrentWeekHandler.Bucket())
		if calendarFrom != "" {
			if r.StartYear, r.StartMonth, err = parseMonth(calendarFrom); err != nil {
				return err
			}
		}
		if calendarTo != "" {
			if r.EndYear, r.EndMonth, err = parseMonth(calendarTo); err != nil {
				return err
			}
		}

		rows, err := app.GetCalendarHandler.Handle(cmd.Context(), queries.GetCalendarQuery{ProjectID: projectID, Range: r})
		if err != nil {
			return fmt.Errorf("failed to build calendar: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd, rows)
		}
		printCalendar(cmd, rows)
		return nil
	},
}

func parseMonth(value string) (year, month int, err error) {
	if _, err := fmt.Sscanf(value, "%d-%d", &year, &month); err != nil {
		return 0, 0, fmt.Errorf("invalid month %q (use YYYY-MM): %w", value, err)
	}
	return year, month, nil
}

func printCalendar(cmd *cobra.Command, rows []domain.CalendarRow) {
	if len(rows) == 0 {
		cli.Printf(cmd, "No tasks.\n")
		return
	}
	for _, row := range rows {
		cells := make([]string, 0, len(row.Weeks))
		for _, w := range row.Weeks {
			cells = append(cells, fmt.Sprintf("%d-%02d/w%d %s/%s %.0f%%", w.Year, w.Month, w.Week, w.PlannedStatus, w.ActualStatus, w.ActualProgress))
		}
		line := "-"
		if len(cells) > 0 {
			line = strings.Join(cells, "  ")
		}
		cli.Printf(cmd, "  %-28s %s\n", row.Name, line)
	}
}

func init() {
	calendarCmd.Flags().StringVar(&calendarFrom, "from", "", "first month YYYY-MM (defaults to the current month)")
	calendarCmd.Flags().StringVar(&calendarTo, "to", "", "last month YYYY-MM (defaults to the current month)")
}
