package snapshot

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pacer/adapter/cli"
	"github.com/felixgeelhaar/pacer/internal/projects/application/commands"
	"github.com/felixgeelhaar/pacer/internal/projects/domain"
)

var (
	upsertBucket        bucketFlags
	upsertProject       string
	upsertPlannedStatus string
	upsertActualStatus  string
	upsertPlanned       float64
	upsertActual        float64
	upsertComments      string
)

var upsertCmd = &cobra.Command{
	Use:   "upsert [task-id]",
	Short: "Create or update the snapshot of a task for one week",
	Long: `Create or update a weekly snapshot. A second upsert of the same week
updates the existing record; only the flags given are changed.
Status codes are P (planned), R (actual) and RP (rescheduled).

Examples:
  pacer snapshot upsert <task-id> --planned-status P --actual-status R --planned 50 --actual 40
  pacer snapshot upsert <task-id> --year 2025 --month 3 --week 2 --comments "waiting on supplier"`,
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
		bucket, err := upsertBucket.resolve(app)
		if err != nil {
			return fmt.Errorf("invalid week: %w", err)
		}

		upsert := commands.UpsertSnapshotCommand{TaskID: taskID, Bucket: bucket}
		if upsertProject != "" {
			if upsert.ProjectID, err = cli.ParseID("project", upsertProject); err != nil {
				return err
			}
		} else {
			task, err := app.GetTaskHandler.Handle(cmd.Context(), taskID)
			if err != nil {
				return fmt.Errorf("failed to get task: %w", err)
			}
			upsert.ProjectID = task.ProjectID
		}

		flags := cmd.Flags()
		if flags.Changed("planned-status") {
			status, err := domain.ParseWeekStatus(upsertPlannedStatus)
			if err != nil {
				return err
			}
			upsert.PlannedStatus = &status
		}
		if flags.Changed("actual-status") {
			status, err := domain.ParseWeekStatus(upsertActualStatus)
			if err != nil {
				return err
			}
			upsert.ActualStatus = &status
		}
		if flags.Changed("planned") {
			upsert.PlannedProgress = &upsertPlanned
		}
		if flags.Changed("actual") {
			upsert.ActualProgress = &upsertActual
		}
		if flags.Changed("comments") {
			upsert.Comments = &upsertComments
		}

		result, err := app.UpsertSnapshotHandler.Handle(cmd.Context(), upsert)
		if err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd, map[string]any{"id": result.SnapshotID, "created": result.Created})
		}
		verb := "updated"
		if result.Created {
			verb = "created"
		}
		cli.Printf(cmd, "Snapshot %s: %s (%d-%02d week %d)\n", verb, result.SnapshotID, bucket.Year, bucket.Month, bucket.Week)
		return nil
	},
}

func init() {
	upsertBucket.register(upsertCmd)
	upsertCmd.Flags().StringVarP(&upsertProject, "project", "p", "", "project ID (defaults to the task's project)")
	upsertCmd.Flags().StringVar(&upsertPlannedStatus, "planned-status", "", "planned status code (P, R, RP)")
	upsertCmd.Flags().StringVar(&upsertActualStatus, "actual-status", "", "actual status code (P, R, RP)")
	upsertCmd.Flags().Float64Var(&upsertPlanned, "planned", 0, "planned progress (0-100)")
	upsertCmd.Flags().Float64Var(&upsertActual, "actual", 0, "actual progress (0-100)")
	upsertCmd.Flags().StringVar(&upsertComments, "comments", "", "comments")
}
