package project

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pacer/adapter/cli"
)

var showCmd = &cobra.Command{
	Use:   "show [project-id]",
	Short: "Show a project and its tasks",
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

		project, err := app.GetProjectHandler.Handle(cmd.Context(), projectID)
		if err != nil {
			return fmt.Errorf("failed to get project: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd, project)
		}
		cli.Printf(cmd, "Project: %s\n", project.Name)
		cli.Printf(cmd, "ID: %s\n", project.ID)
		if project.Category != "" {
			cli.Printf(cmd, "Category: %s\n", project.Category)
		}
		if project.Description != "" {
			cli.Printf(cmd, "Description: %s\n", project.Description)
		}
		cli.Printf(cmd, "Created: %s\n", project.CreatedAt.Format("2006-01-02 15:04"))

		if len(project.Tasks) == 0 {
			return nil
		}
		cli.Printf(cmd, "\nTasks (%d):\n", len(project.Tasks))
		for _, t := range project.Tasks {
			cli.Printf(cmd, "  %s %-28s %5.1f%% / %5.1f%%  %s\n",
				t.ID.String()[:8], t.Name, t.ActualProgress, t.PlannedProgress, t.Status)
		}
		return nil
	},
}
