package snapshot

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/pacer/adapter/cli"
	"github.com/felixgeelhaar/pacer/internal/projects/domain"
)

// Cmd is the snapshot command group
var Cmd = &cobra.Command{
	Use:     "snapshot",
	Aliases: []string{"week"},
	Short:   "Record and review weekly snapshots",
	Long: `Weekly snapshots record planned and actual progress of a task for one
week of a month. Weeks 1 to 3 cover seven days each; week 4 runs to the
end of the month.`,
}

func init() {
	Cmd.AddCommand(upsertCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(calendarCmd)
	Cmd.AddCommand(summaryCmd)
	Cmd.AddCommand(trendsCmd)
	Cmd.AddCommand(currentWeekCmd)
}

// bucketFlags binds --year, --month and --week. Unset parts default to the
// current week.
type bucketFlags struct {
	year, month, week int
}

func (f *bucketFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.year, "year", 0, "year (defaults to the current week)")
	cmd.Flags().IntVar(&f.month, "month", 0, "month 1-12")
	cmd.Flags().IntVar(&f.week, "week", 0, "week of month 1-4")
}

func (f *bucketFlags) resolve(app *cli.App) (domain.Bucket, error) {
	b := app.CurrentWeekHandler.Bucket()
	if f.year != 0 {
		b.Year = f.year
	}
	if f.month != 0 {
		b.Month = f.month
	}
	if f.week != 0 {
		b.Week = f.week
	}
	return b, b.Validate()
}

func (f *bucketFlags) reset() {
	f.year, f.month, f.week = 0, 0, 0
}

func optionalID(what, value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := cli.ParseID(what, value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
