package project

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pacer/adapter/cli"
	"github.com/felixgeelhaar/pacer/internal/projects/application/commands"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [project-id]",
	Short: "Delete a project with its tasks and snapshots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		projectID, err := cli.ParseID("project", args[0])
		if err != nil {
			return err
		}

		result, err := app.DeleteProjectHandler.Handle(cmd.Context(), commands.DeleteProjectCommand{ProjectID: projectID})
		if err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd, map[string]any{
				"id":               result.ProjectID,
				"deletedTaskCount": result.DeletedTaskCount,
			})
		}
		cli.Printf(cmd, "Project deleted: %s (%d tasks)\n", result.ProjectID, result.DeletedTaskCount)
		return nil
	},
}
