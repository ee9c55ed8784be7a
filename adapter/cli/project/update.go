package project

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pacer/adapter/cli"
	"github.com/felixgeelhaar/pacer/internal/projects/application/commands"
)

var (
	updateName        string
	updateCategory    string
	updateDescription string
)

var updateCmd = &cobra.Command{
	Use:   "update [project-id]",
	Short: "Update a project",
	Long: `Update project properties. Only the flags given are changed.

Examples:
  pacer project update 550e8400-e29b-41d4-a716-446655440000 --name "Plant Migration II"
  pacer project update 550e8400-e29b-41d4-a716-446655440000 --category ""`,
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

		update := commands.UpdateProjectCommand{ProjectID: projectID}
		flags := cmd.Flags()
		if flags.Changed("name") {
			update.Name = &updateName
		}
		if flags.Changed("category") {
			update.Category = &updateCategory
		}
		if flags.Changed("description") {
			update.Description = &updateDescription
		}

		if err := app.UpdateProjectHandler.Handle(cmd.Context(), update); err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}
		cli.Printf(cmd, "Project updated: %s\n", projectID)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateName, "name", "", "new project name")
	updateCmd.Flags().StringVar(&updateCategory, "category", "", "new category")
	updateCmd.Flags().StringVarP(&updateDescription, "description", "d", "", "new description")
}
