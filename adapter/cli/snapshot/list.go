package snapshot

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pacer/adapter/cli"
	"github.com/felixgeelhaar/pacer/internal/projects/application/commands"
	"github.com/felixgeelhaar/pacer/internal/projects/application/queries"
	"github.com/felixgeelhaar/pacer/internal/projects/domain"
)

var (
	listTask    string
	listProject string
	listYear    int
	listMonth   int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List the snapshots of a task or project",
	Aliases: []string{"ls"},
	Long: `List snapshots in chronological order, optionally narrowed to a year
and month.

Examples:
  pacer snapshot list --task <id>
  pacer snapshot list --project <id> --year 2025 --month 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if listTask == "" && listProject == "" {
			return errors.New("--task or --project is required")
		}

		query := queries.ListSnapshotsQuery{}
		if query.TaskID, err = optionalID("task", listTask); err != nil {
			return err
		}
		if query.ProjectID, err = optionalID("project", listProject); err != nil {
			return err
		}
		if listYear != 0 {
			query.Filter.Year = &listYear
		}
		if listMonth != 0 {
			query.Filter.Month = &listMonth
		}

		snapshots, err := app.ListSnapshotsHandler.Handle(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("failed to list snapshots: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd, snapshots)
		}
		if len(snapshots) == 0 {
			cli.Printf(cmd, "No snapshots found.\n")
			return nil
		}
		for _, s := range snapshots {
			cli.Printf(cmd, "  %d-%02d w%d  task %s  %-2s/%-2s  %5.1f%% / %5.1f%%  %s\n",
				s.Year, s.Month, s.Week, s.TaskID.String()[:8],
				s.PlannedStatus, s.ActualStatus, s.ActualProgress, s.PlannedProgress, s.Comments)
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [snapshot-id]",
	Short: "Delete a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		snapshotID, err := cli.ParseID("snapshot", args[0])
		if err != nil {
			return err
		}
		if err := app.DeleteSnapshotHandler.Handle(cmd.Context(), commands.DeleteSnapshotCommand{SnapshotID: snapshotID}); err != nil {
			if domain.IsNotFound(err) {
				return fmt.Errorf("snapshot %s not found: %w", snapshotID, err)
			}
			return fmt.Errorf("failed to delete snapshot: %w", err)
		}
		cli.Printf(cmd, "Snapshot deleted: %s\n", snapshotID)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listTask, "task", "t", "", "task ID")
	listCmd.Flags().StringVarP(&listProject, "project", "p", "", "project ID")
	listCmd.Flags().IntVar(&listYear, "year", 0, "only this year")
	listCmd.Flags().IntVar(&listMonth, "month", 0, "only this month")
}
