package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pacer/adapter/cli"
	"github.com/felixgeelhaar/pacer/internal/projects/application/commands"
)

var (
	createProject     string
	createResponsible string
	createWeight      float64
	createPlanned     float64
	createEstimated   string
	createComments    string
	createEvidence    string
	createPriority    int
	createParent      string
	createOrder       int
	createMacro       bool
)

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a task in a project",
	Long: `Create a task. New tasks start with no actual progress.

Examples:
  pacer task create "Foundations" --project <id> --weight 3 --planned 40 --estimated 2025-04-30
  pacer task create "Procurement" --project <id> --macro --priority 1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		projectID, err := cli.ParseID("project", createProject)
		if err != nil {
			return err
		}

		create := commands.CreateTaskCommand{
			ProjectID:       projectID,
			Name:            args[0],
			Responsible:     createResponsible,
			Weight:          createWeight,
			PlannedProgress: createPlanned,
			Comments:        createComments,
			Evidence:        createEvidence,
			Priority:        createPriority,
			OrderIndex:      createOrder,
			IsMacroProcess:  createMacro,
		}
		if createEstimated != "" {
			estimated, err := cli.ParseDate(createEstimated)
			if err != nil {
				return err
			}
			create.EstimatedDate = &estimated
		}
		if createParent != "" {
			parentID, err := cli.ParseID("parent task", createParent)
			if err != nil {
				return err
			}
			create.ParentTaskID = &parentID
		}

		result, err := app.CreateTaskHandler.Handle(cmd.Context(), create)
		if err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd, map[string]any{"id": result.TaskID, "status": result.Status})
		}
		cli.Printf(cmd, "Task created: %s\n", result.TaskID)
		cli.Printf(cmd, "  status: %s\n", result.Status)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVarP(&createProject, "project", "p", "", "project ID (required)")
	createCmd.Flags().StringVarP(&createResponsible, "responsible", "r", "", "responsible person")
	createCmd.Flags().Float64VarP(&createWeight, "weight", "w", 1, "relative weight")
	createCmd.Flags().Float64Var(&createPlanned, "planned", 0, "planned progress (0-100)")
	createCmd.Flags().StringVar(&createEstimated, "estimated", "", "estimated delivery date (YYYY-MM-DD)")
	createCmd.Flags().StringVar(&createComments, "comments", "", "comments")
	createCmd.Flags().StringVar(&createEvidence, "evidence", "", "evidence link or note")
	createCmd.Flags().IntVar(&createPriority, "priority", 0, "priority 1 (high) to 3 (low)")
	createCmd.Flags().StringVar(&createParent, "parent", "", "parent task ID")
	createCmd.Flags().IntVar(&createOrder, "order", 0, "display order")
	createCmd.Flags().BoolVar(&createMacro, "macro", false, "task is a macro process")
	_ = createCmd.MarkFlagRequired("project")
}
