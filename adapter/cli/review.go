package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pacer/internal/projects/application/queries"
	"github.com/felixgeelhaar/pacer/internal/projects/domain"
)

// weeklyReview is the JSON shape of `pacer review`.
type weeklyReview struct {
	Week   queries.WeekDTO           `json:"week"`
	Trends []queries.ProjectTrendDTO `json:"trends"`
	Alerts []domain.Alert            `json:"alerts"`
	KPIs   domain.PortfolioKPIs      `json:"kpis"`
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review this week across the portfolio",
	Long: `Show a summary of the current week:

- The current week bucket and its date range
- Planned versus actual progress per project for this week
- Open alerts grouped by severity
- Portfolio KPIs

Use this command for the weekly progress meeting.

Examples:
  pacer review
  pacer review --json`,
	Aliases: []string{"check"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		week, err := queries.NewWeekDTO(app.CurrentWeekHandler.Bucket())
		if err != nil {
			return err
		}
		trends, err := app.WeeklyTrendsHandler.Handle(ctx, week.Bucket)
		if err != nil {
			return fmt.Errorf("failed to load weekly trends: %w", err)
		}
		alerts, err := app.ListAlertsHandler.Handle(ctx, queries.ListAlertsQuery{})
		if err != nil {
			return fmt.Errorf("failed to list alerts: %w", err)
		}
		kpis, err := app.GetKPIsHandler.Handle(ctx)
		if err != nil {
			return fmt.Errorf("failed to compute KPIs: %w", err)
		}

		if JSONOutput() {
			return PrintJSON(cmd, weeklyReview{Week: week, Trends: trends, Alerts: alerts, KPIs: kpis})
		}

		rule := strings.Repeat("=", 60)
		Printf(cmd, "\n  WEEKLY REVIEW\n%s\n", rule)
		Printf(cmd, "  %d-%02d week %d  (%s to %s)\n%s\n", week.Year, week.Month, week.Week, week.StartDate, week.EndDate, rule)

		printTrends(cmd, trends)
		printAlertsBySeverity(cmd, alerts)

		Printf(cmd, "\n  PORTFOLIO\n")
		Printf(cmd, "    %d projects, %d completed, %d delayed, %d high priority\n",
			kpis.TotalProjects, kpis.CompletedProjects, kpis.DelayedProjects, kpis.HighPriorityProjects)
		Printf(cmd, "    average progress %.2f%%, total delay %d days\n", kpis.AverageProgress, kpis.TotalDelayDays)

		Printf(cmd, "\n%s\n", rule)
		if len(alerts) == 0 {
			Printf(cmd, "  All clear! No alerts this week.\n\n")
		} else {
			Printf(cmd, "  %d alert(s) need your attention.\n\n", len(alerts))
		}
		return nil
	},
}

func printTrends(cmd *cobra.Command, trends []queries.ProjectTrendDTO) {
	Printf(cmd, "\n  THIS WEEK\n")
	reported := 0
	for _, t := range trends {
		if t.TotalTasks == 0 {
			continue
		}
		reported++
		Printf(cmd, "    %-28s planned %6.2f%%  actual %6.2f%%  deviation %+7.2f  (P %d / R %d / RP %d)\n",
			t.ProjectName, t.AveragePlannedProgress, t.AverageActualProgress, t.Deviation,
			t.StatusCounts.Planned, t.StatusCounts.Actual, t.StatusCounts.Rescheduled)
	}
	if reported == 0 {
		Printf(cmd, "    No snapshots recorded this week.\n")
	}
	if missing := len(trends) - reported; missing > 0 && reported > 0 {
		Printf(cmd, "    %d project(s) without snapshots.\n", missing)
	}
}

func printAlertsBySeverity(cmd *cobra.Command, alerts []domain.Alert) {
	for _, severity := range []domain.Severity{domain.SeverityHigh, domain.SeverityMedium, domain.SeverityLow} {
		var group []domain.Alert
		for _, a := range alerts {
			if a.Severity == severity {
				group = append(group, a)
			}
		}
		if len(group) == 0 {
			continue
		}
		Printf(cmd, "\n  %s ALERTS (%d)\n", strings.ToUpper(string(severity)), len(group))
		for _, a := range group {
			Printf(cmd, "    %s / %s: %s\n", a.ProjectName, a.TaskName, a.Message)
		}
	}
}

func init() {
	rootCmd.AddCommand(reviewCmd)
}
