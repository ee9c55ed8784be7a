package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pacer/adapter/cli"
	"github.com/felixgeelhaar/pacer/internal/projects/application/commands"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [task-id]",
	Short: "Delete a task and its snapshots",
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

		if err := app.DeleteTaskHandler.Handle(cmd.Context(), commands.DeleteTaskCommand{TaskID: taskID}); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		cli.Printf(cmd, "Task deleted: %s\n", taskID)
		return nil
	},
}
