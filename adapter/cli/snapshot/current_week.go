package snapshot

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pacer/adapter/cli"
)

var currentWeekProject string

var currentWeekCmd = &cobra.Command{
	Use:   "current-week",
	Short: "Show the current week and this month's calendar",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		projectID, err := optionalID("project", currentWeekProject)
		if err != nil {
			return err
		}

		week, err := app.CurrentWeekHandler.Handle(cmd.Context(), projectID)
		if err != nil {
			return fmt.Errorf("failed to load current week: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd, week)
		}
		cli.Printf(cmd, "Week %d-%02d w%d (%s to %s)\n", week.Year, week.Month, week.Week, week.StartDate, week.EndDate)
		for _, p := range week.Projects {
			cli.Printf(cmd, "\n%s\n", p.ProjectName)
			printCalendar(cmd, p.Data)
		}
		return nil
	},
}

func init() {
	currentWeekCmd.Flags().StringVarP(&currentWeekProject, "project", "p", "", "limit to one project")
}
