package project

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pacer/adapter/cli"
	"github.com/felixgeelhaar/pacer/internal/projects/application/commands"
)

var (
	createCategory    string
	createDescription string
)

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new project",
	Long: `Create a new project with a name and optional category and description.

Examples:
  pacer project create "Plant Migration"
  pacer project create "ERP Rollout" --category IT -d "Finance and logistics modules"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		result, err := app.CreateProjectHandler.Handle(cmd.Context(), commands.CreateProjectCommand{
			Name:        args[0],
			Category:    createCategory,
			Description: createDescription,
		})
		if err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd, map[string]any{"id": result.ProjectID, "name": args[0]})
		}
		cli.Printf(cmd, "Project created: %s\n", result.ProjectID)
		cli.Printf(cmd, "  name: %s\n", args[0])
		if createCategory != "" {
			cli.Printf(cmd, "  category: %s\n", createCategory)
		}
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createCategory, "category", "", "project category")
	createCmd.Flags().StringVarP(&createDescription, "description", "d", "", "project description")
}
