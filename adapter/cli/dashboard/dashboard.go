// Package dashboard holds the portfolio commands: alerts, KPIs and the
// per-project summary. Portfolio results may be served from cache and lag
// recent writes by up to the cache TTL.
package dashboard

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pacer/adapter/cli"
	"github.com/felixgeelhaar/pacer/internal/projects/application/queries"
	"github.com/felixgeelhaar/pacer/internal/projects/domain"
)

// Cmd is the dashboard command group
var Cmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Portfolio alerts, KPIs and summary",
}

var (
	alertsProject  string
	alertsSeverity string
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List alerts, most severe first",
	Long: `List alerts raised by task progress and deadlines.

Examples:
  pacer dashboard alerts
  pacer dashboard alerts --project <id> --severity high`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		query := queries.ListAlertsQuery{}
		if alertsProject != "" {
			id, err := cli.ParseID("project", alertsProject)
			if err != nil {
				return err
			}
			query.ProjectID = &id
		}

		alerts, err := app.ListAlertsHandler.Handle(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("failed to list alerts: %w", err)
		}
		if alertsSeverity != "" {
			kept := make([]domain.Alert, 0, len(alerts))
			for _, a := range alerts {
				if string(a.Severity) == alertsSeverity {
					kept = append(kept, a)
				}
			}
			alerts = kept
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd, alerts)
		}
		if len(alerts) == 0 {
			cli.Printf(cmd, "No alerts.\n")
			return nil
		}
		for _, a := range alerts {
			cli.Printf(cmd, "  [%-6s] %-18s %s / %s: %s\n", a.Severity, a.Type, a.ProjectName, a.TaskName, a.Message)
		}
		return nil
	},
}

var kpisCmd = &cobra.Command{
	Use:   "kpis",
	Short: "Show portfolio KPIs",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		k, err := app.GetKPIsHandler.Handle(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to compute KPIs: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd, k)
		}
		cli.Printf(cmd, "Projects:         %d\n", k.TotalProjects)
		cli.Printf(cmd, "  completed:      %d\n", k.CompletedProjects)
		cli.Printf(cmd, "  delayed:        %d\n", k.DelayedProjects)
		cli.Printf(cmd, "  high priority:  %d\n", k.HighPriorityProjects)
		cli.Printf(cmd, "Average progress: %.2f%%\n", k.AverageProgress)
		cli.Printf(cmd, "Total delay:      %d days\n", k.TotalDelayDays)
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show weighted progress and status counts per project",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		summaries, err := app.GetPortfolioSummaryHandler.Handle(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to summarize portfolio: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd, summaries)
		}
		if len(summaries) == 0 {
			cli.Printf(cmd, "No projects found.\n")
			return nil
		}
		for _, s := range summaries {
			cli.Printf(cmd, "%-30s %6.2f%% / %6.2f%%  tasks %d  %s\n",
				s.Name, s.ActualProgress, s.PlannedProgress, s.TotalTasks, formatCounts(s.StatusCount))
		}
		return nil
	},
}

func formatCounts(counts map[domain.Status]int) string {
	keys := make([]string, 0, len(counts))
	for status := range counts {
		keys = append(keys, string(status))
	}
	sort.Strings(keys)
	out := ""
	for i, k := range keys {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s=%d", k, counts[domain.Status(k)])
	}
	return out
}

func init() {
	alertsCmd.Flags().StringVarP(&alertsProject, "project", "p", "", "limit to one project")
	alertsCmd.Flags().StringVar(&alertsSeverity, "severity", "", "only this severity (high, medium, low)")

	Cmd.AddCommand(alertsCmd)
	Cmd.AddCommand(kpisCmd)
	Cmd.AddCommand(summaryCmd)
}
