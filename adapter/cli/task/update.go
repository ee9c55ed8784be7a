package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pacer/adapter/cli"
	"github.com/felixgeelhaar/pacer/internal/projects/application/commands"
)

var (
	updateName        string
	updateResponsible string
	updateWeight      float64
	updatePlanned     float64
	updateActual      float64
	updateEstimated   string
	updateDelivered   string
	updateComments    string
	updateEvidence    string
	updatePriority    int
	updateParent      string
	updateOrder       int
	updateMacro       bool
)

var updateCmd = &cobra.Command{
	Use:   "update [task-id]",
	Short: "Update a task",
	Long: `Update task fields. Only the flags given are changed; status and delay
are recomputed from the merged record.

Examples:
  pacer task update <id> --actual 60
  pacer task update <id> --actual 100 --delivered 2025-03-14`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		taskID, err := cli.ParseID("task", args[0])
		if err != nil {
			return err
		}

		update, err := buildUpdate(cmd)
		if err != nil {
			return err
		}
		update.TaskID = taskID

		result, err := app.UpdateTaskHandler.Handle(cmd.Context(), update)
		if err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd, map[string]any{
				"id":             result.TaskID,
				"status":         result.Status,
				"previousStatus": result.PreviousStatus,
				"delayDays":      result.DelayDays,
			})
		}
		cli.Printf(cmd, "Task updated: %s\n", result.TaskID)
		if result.Status != result.PreviousStatus {
			cli.Printf(cmd, "  status: %s -> %s\n", result.PreviousStatus, result.Status)
		} else {
			cli.Printf(cmd, "  status: %s\n", result.Status)
		}
		if result.DelayDays > 0 {
			cli.Printf(cmd, "  delay: %d days\n", result.DelayDays)
		}
		return nil
	},
}

func buildUpdate(cmd *cobra.Command) (commands.UpdateTaskCommand, error) {
	var update commands.UpdateTaskCommand
	flags := cmd.Flags()

	if flags.Changed("name") {
		update.Name = &updateName
	}
	if flags.Changed("responsible") {
		update.Responsible = &updateResponsible
	}
	if flags.Changed("weight") {
		update.Weight = &updateWeight
	}
	if flags.Changed("planned") {
		update.PlannedProgress = &updatePlanned
	}
	if flags.Changed("actual") {
		update.ActualProgress = &updateActual
	}
	if flags.Changed("estimated") {
		estimated, err := cli.ParseDate(updateEstimated)
		if err != nil {
			return update, err
		}
		update.EstimatedDate = &estimated
	}
	if flags.Changed("delivered") {
		delivered, err := cli.ParseDate(updateDelivered)
		if err != nil {
			return update, err
		}
		update.RealDeliveryDate = &delivered
	}
	if flags.Changed("comments") {
		update.Comments = &updateComments
	}
	if flags.Changed("evidence") {
		update.Evidence = &updateEvidence
	}
	if flags.Changed("priority") {
		update.Priority = &updatePriority
	}
	if flags.Changed("parent") {
		parentID, err := cli.ParseID("parent task", updateParent)
		if err != nil {
			return update, err
		}
		update.ParentTaskID = &parentID
	}
	if flags.Changed("order") {
		update.OrderIndex = &updateOrder
	}
	if flags.Changed("macro") {
		update.IsMacroProcess = &updateMacro
	}
	return update, nil
}

func init() {
	updateCmd.Flags().StringVar(&updateName, "name", "", "task name")
	updateCmd.Flags().StringVarP(&updateResponsible, "responsible", "r", "", "responsible person")
	updateCmd.Flags().Float64VarP(&updateWeight, "weight", "w", 1, "relative weight")
	updateCmd.Flags().Float64Var(&updatePlanned, "planned", 0, "planned progress (0-100)")
	updateCmd.Flags().Float64Var(&updateActual, "actual", 0, "actual progress (0-100)")
	updateCmd.Flags().StringVar(&updateEstimated, "estimated", "", "estimated delivery date (YYYY-MM-DD)")
	updateCmd.Flags().StringVar(&updateDelivered, "delivered", "", "real delivery date (YYYY-MM-DD)")
	updateCmd.Flags().StringVar(&updateComments, "comments", "", "comments")
	updateCmd.Flags().StringVar(&updateEvidence, "evidence", "", "evidence link or note")
	updateCmd.Flags().IntVar(&updatePriority, "priority", 2, "priority 1 (high) to 3 (low)")
	updateCmd.Flags().StringVar(&updateParent, "parent", "", "parent task ID")
	updateCmd.Flags().IntVar(&updateOrder, "order", 0, "display order")
	updateCmd.Flags().BoolVar(&updateMacro, "macro", false, "task is a macro process")
}
