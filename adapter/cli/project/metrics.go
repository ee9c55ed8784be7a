package project

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pacer/adapter/cli"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics [project-id]",
	Short: "Show earned-value metrics for a project",
	Long: `Show planned value, earned value, schedule variance and delay totals.

Planned value counts a task as fully planned once its estimated date has passed.`,
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

		m, err := app.GetProjectMetricsHandler.Handle(cmd.Context(), projectID)
		if err != nil {
			return fmt.Errorf("failed to compute metrics: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd, m)
		}
		cli.Printf(cmd, "Tasks:             %d (%d completed)\n", m.TotalTasks, m.CompletedTasks)
		cli.Printf(cmd, "Average progress:  %.2f%%\n", m.AverageProgress)
		cli.Printf(cmd, "Planned value:     %.2f\n", m.PlannedValue)
		cli.Printf(cmd, "Earned value:      %.2f\n", m.EarnedValue)
		cli.Printf(cmd, "Schedule variance: %+.2f\n", m.ScheduleVariance)
		cli.Printf(cmd, "Delay:             %d days over %d tasks\n", m.TotalDelayDays, m.DelayedTasks)
		cli.Printf(cmd, "Critical tasks:    %d\n", m.CriticalTasks)
		return nil
	},
}
