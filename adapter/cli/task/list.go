package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pacer/adapter/cli"
	"github.com/felixgeelhaar/pacer/internal/projects/domain"
)

var listStatus string

var listCmd = &cobra.Command{
	Use:   "list [project-id]",
	Short: "List the tasks of a project",
	Long: `List the tasks of a project in display order.

Examples:
  pacer task list <project-id>
  pacer task list <project-id> --status Critical`,
	Aliases: []string{"ls"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		projectID, err := cli.ParseID("project", args[0])
		if err != nil {
			return err
		}

		var filter domain.Status
		if listStatus != "" {
			filter, err = domain.ParseStatus(listStatus)
			if err != nil {
				return err
			}
		}

		tasks, err := app.ListTasksHandler.Handle(cmd.Context(), projectID)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}
		if filter != "" {
			kept := tasks[:0]
			for _, t := range tasks {
				if t.Status == filter {
					kept = append(kept, t)
				}
			}
			tasks = kept
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd, tasks)
		}
		if len(tasks) == 0 {
			cli.Printf(cmd, "No tasks found.\n")
			return nil
		}
		cli.Printf(cmd, "Tasks (%d):\n", len(tasks))
		for _, t := range tasks {
			delay := ""
			if t.DelayDays > 0 {
				delay = fmt.Sprintf("  +%dd", t.DelayDays)
			}
			cli.Printf(cmd, "  %s %-28s %5.1f%% / %5.1f%%  %-10s%s\n",
				t.ID.String()[:8], t.Name, t.ActualProgress, t.PlannedProgress, t.Status, delay)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by status (Completed, InProgress, Delayed, Critical)")
}
