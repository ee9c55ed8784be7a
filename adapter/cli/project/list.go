package project

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pacer/adapter/cli"
	"github.com/felixgeelhaar/pacer/internal/projects/application/queries"
)

var (
	listPage  int
	listLimit int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List projects",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		projects, err := app.ListProjectsHandler.Handle(cmd.Context(), queries.ListProjectsQuery{
			Page:  listPage,
			Limit: listLimit,
		})
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd, projects)
		}
		if len(projects) == 0 {
			cli.Printf(cmd, "No projects found.\n")
			return nil
		}
		cli.Printf(cmd, "Projects (%d):\n", len(projects))
		for _, p := range projects {
			cli.Printf(cmd, "  %s  %-30s %s\n", p.ID, p.Name, p.Category)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", 1, "page number")
	listCmd.Flags().IntVar(&listLimit, "limit", 50, "projects per page")
}
