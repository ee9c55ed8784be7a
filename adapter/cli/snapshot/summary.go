package snapshot

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pacer/adapter/cli"
	"github.com/felixgeelhaar/pacer/internal/projects/application/queries"
	"github.com/felixgeelhaar/pacer/internal/projects/domain"
)

var (
	summaryBucket  bucketFlags
	summaryProject string
	trendsBucket   bucketFlags
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize the snapshots of one week",
	Long: `Summarize planned versus actual progress over the snapshots of one week,
for one project or the whole portfolio.

Examples:
  pacer snapshot summary
  pacer snapshot summary --year 2025 --month 3 --week 2 --project <id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		bucket, err := summaryBucket.resolve(app)
		if err != nil {
			return fmt.Errorf("invalid week: %w", err)
		}
		projectID, err := optionalID("project", summaryProject)
		if err != nil {
			return err
		}

		summary, err := app.WeeklySummaryHandler.Handle(cmd.Context(), queries.WeeklySummaryQuery{
			Bucket:    bucket,
			ProjectID: projectID,
		})
		if err != nil {
			return fmt.Errorf("failed to summarize week: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd, summary)
		}
		cli.Printf(cmd, "Week %d-%02d w%d\n", bucket.Year, bucket.Month, bucket.Week)
		printSummary(cmd, "  ", summary)
		return nil
	},
}

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Summarize one week per project",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		bucket, err := trendsBucket.resolve(app)
		if err != nil {
			return fmt.Errorf("invalid week: %w", err)
		}

		trends, err := app.WeeklyTrendsHandler.Handle(cmd.Context(), bucket)
		if err != nil {
			return fmt.Errorf("failed to compute trends: %w", err)
		}

		if cli.JSONOutput() {
			return cli.PrintJSON(cmd, trends)
		}
		cli.Printf(cmd, "Week %d-%02d w%d\n", bucket.Year, bucket.Month, bucket.Week)
		for _, t := range trends {
			cli.Printf(cmd, "%s\n", t.ProjectName)
			printSummary(cmd, "  ", t.WeeklySummary)
		}
		return nil
	},
}

func printSummary(cmd *cobra.Command, indent string, s domain.WeeklySummary) {
	cli.Printf(cmd, "%stasks: %d (%d completed)\n", indent, s.TotalTasks, s.CompletedTasks)
	cli.Printf(cmd, "%sprogress: %.2f%% actual / %.2f%% planned (%+.2f)\n",
		indent, s.AverageActualProgress, s.AveragePlannedProgress, s.Deviation)
	cli.Printf(cmd, "%sstatus: P=%d R=%d RP=%d\n",
		indent, s.StatusCounts.Planned, s.StatusCounts.Actual, s.StatusCounts.Rescheduled)
}

func init() {
	summaryBucket.register(summaryCmd)
	summaryCmd.Flags().StringVarP(&summaryProject, "project", "p", "", "limit to one project")
	trendsBucket.register(trendsCmd)
}
