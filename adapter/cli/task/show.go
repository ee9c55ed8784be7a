package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pacer/adapter/cli"
	"github.com/felixgeelhaar/pacer/internal/projects/application/queries"
)

var showCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show task details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		taskID, err := cli.ParseID("task", args[0])
		if err != nil {
			return err
		}

		t, err := app.GetTaskHandler.Handle(cmd.Context(), taskID)
		if err != nil {
			return fmt.Errorf("failed to get task: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd, t)
		}
		printTask(cmd, t)
		return nil
	},
}

func printTask(cmd *cobra.Command, t *queries.TaskDTO) {
	cli.Printf(cmd, "Task: %s\n", t.Name)
	cli.Printf(cmd, "ID: %s\n", t.ID)
	cli.Printf(cmd, "Project: %s\n", t.ProjectID)
	cli.Printf(cmd, "Status: %s\n", t.Status)
	cli.Printf(cmd, "Progress: %.1f%% actual / %.1f%% planned\n", t.ActualProgress, t.PlannedProgress)
	cli.Printf(cmd, "Weight: %g  Priority: %d\n", t.Weight, t.Priority)
	if t.Responsible != "" {
		cli.Printf(cmd, "Responsible: %s\n", t.Responsible)
	}
	if t.EstimatedDate != nil {
		cli.Printf(cmd, "Estimated: %s\n", *t.EstimatedDate)
	}
	if t.RealDeliveryDate != nil {
		cli.Printf(cmd, "Delivered: %s\n", *t.RealDeliveryDate)
	}
	if t.DelayDays > 0 {
		cli.Printf(cmd, "Delay: %d days\n", t.DelayDays)
	}
	if t.Comments != "" {
		cli.Printf(cmd, "Comments: %s\n", t.Comments)
	}
}
