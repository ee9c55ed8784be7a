package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/pacer/internal/projects/application/commands"
	"github.com/felixgeelhaar/pacer/internal/projects/application/queries"
	"github.com/felixgeelhaar/pacer/internal/projects/domain"
)

type snapshotUpsertInput struct {
	TaskID          string   `json:"task_id" jsonschema:"required"`
	ProjectID       string   `json:"project_id,omitempty"`
	Year            int      `json:"year,omitempty"`
	Month           int      `json:"month,omitempty"`
	Week            int      `json:"week,omitempty"`
	PlannedStatus   string   `json:"planned_status,omitempty"`
	ActualStatus    string   `json:"actual_status,omitempty"`
	PlannedProgress *float64 `json:"planned_progress,omitempty"`
	ActualProgress  *float64 `json:"actual_progress,omitempty"`
	Comments        *string  `json:"comments,omitempty"`
}

type snapshotBulkUpsertInput struct {
	ProjectID string                `json:"project_id,omitempty"`
	Snapshots []snapshotUpsertInput `json:"snapshots" jsonschema:"required"`
}

type snapshotBulkUpsertOutput struct {
	Created int                             `json:"created"`
	Updated int                             `json:"updated"`
	Results []commands.UpsertSnapshotResult `json:"results"`
}

type snapshotListInput struct {
	TaskID    string `json:"task_id,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
	Year      *int   `json:"year,omitempty"`
	Month     *int   `json:"month,omitempty"`
}

type snapshotIDInput struct {
	SnapshotID string `json:"snapshot_id" jsonschema:"required"`
}

type calendarInput struct {
	ProjectID  string `json:"project_id" jsonschema:"required"`
	StartYear  int    `json:"start_year,omitempty"`
	StartMonth int    `json:"start_month,omitempty"`
	EndYear    int    `json:"end_year,omitempty"`
	EndMonth   int    `json:"end_month,omitempty"`
}

type currentWeekInput struct {
	ProjectID string `json:"project_id,omitempty"`
}

type weeklySummaryInput struct {
	Year      int    `json:"year,omitempty"`
	Month     int    `json:"month,omitempty"`
	Week      int    `json:"week,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
}

type weeklySummaryOutput struct {
	Week    domain.Bucket        `json:"week"`
	Summary domain.WeeklySummary `json:"summary"`
}

func registerSnapshotTools(srv *mcp.Server, t *toolset) {
	srv.Tool("snapshot.upsert").
		Description("Record a task's planned and actual state for one week; omitted fields keep their stored values").
		Handler(timed(t, "snapshot.upsert", t.upsertSnapshot))

	srv.Tool("snapshot.bulk_upsert").
		Description("Record several weekly snapshots at once; if any entry fails none are stored").
		Handler(timed(t, "snapshot.bulk_upsert", t.bulkUpsertSnapshots))

	srv.Tool("snapshot.list").
		Description("List weekly snapshots of a task or project, optionally for one year or month").
		Handler(timed(t, "snapshot.list", t.listSnapshots))

	srv.Tool("snapshot.delete").
		Description("Delete a weekly snapshot").
		Handler(timed(t, "snapshot.delete", t.deleteSnapshot))

	srv.Tool("calendar.get").
		Description("Weekly calendar of a project's tasks over a month range").
		Handler(timed(t, "calendar.get", t.calendar))

	srv.Tool("week.current").
		Description("The current week bucket and this month's calendar").
		Handler(timed(t, "week.current", t.currentWeek))

	srv.Tool("week.summary").
		Description("Aggregate progress and status counts for one week").
		Handler(timed(t, "week.summary", t.weeklySummary))

	srv.Tool("week.trends").
		Description("Per-project summaries for one week").
		Handler(timed(t, "week.trends", t.weeklyTrends))
}

func (t *toolset) upsertSnapshot(ctx context.Context, input snapshotUpsertInput) (*commands.UpsertSnapshotResult, error) {
	if t.app.UpsertSnapshotHandler == nil {
		return nil, errNoDatabase
	}
	cmd, err := t.snapshotCommand(ctx, input, "")
	if err != nil {
		return nil, err
	}
	return t.app.UpsertSnapshotHandler.Handle(ctx, cmd)
}

func (t *toolset) bulkUpsertSnapshots(ctx context.Context, input snapshotBulkUpsertInput) (*snapshotBulkUpsertOutput, error) {
	if t.app.UpsertSnapshotHandler == nil {
		return nil, errNoDatabase
	}
	if len(input.Snapshots) == 0 {
		return nil, errors.New("snapshots is required")
	}

	cmds := make([]commands.UpsertSnapshotCommand, 0, len(input.Snapshots))
	for i, entry := range input.Snapshots {
		cmd, err := t.snapshotCommand(ctx, entry, input.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("snapshots[%d]: %w", i, err)
		}
		cmds = append(cmds, cmd)
	}

	results, err := t.app.UpsertSnapshotHandler.HandleBatch(ctx, cmds)
	if err != nil {
		return nil, err
	}
	out := &snapshotBulkUpsertOutput{Results: results}
	for _, r := range results {
		if r.Created {
			out.Created++
		} else {
			out.Updated++
		}
	}
	return out, nil
}

// snapshotCommand resolves one upsert entry. The project comes from the
// entry, then defaultProjectID, then the task itself.
func (t *toolset) snapshotCommand(ctx context.Context, input snapshotUpsertInput, defaultProjectID string) (commands.UpsertSnapshotCommand, error) {
	var cmd commands.UpsertSnapshotCommand

	taskID, err := parseUUID("task_id", input.TaskID)
	if err != nil {
		return cmd, err
	}
	bucket, err := weekInput{Year: input.Year, Month: input.Month, Week: input.Week}.resolve(t.app.CurrentWeekHandler.Bucket())
	if err != nil {
		return cmd, err
	}

	cmd = commands.UpsertSnapshotCommand{
		TaskID:          taskID,
		Bucket:          bucket,
		PlannedProgress: input.PlannedProgress,
		ActualProgress:  input.ActualProgress,
		Comments:        input.Comments,
	}
	projectID := input.ProjectID
	if projectID == "" {
		projectID = defaultProjectID
	}
	if projectID != "" {
		if cmd.ProjectID, err = parseUUID("project_id", projectID); err != nil {
			return cmd, err
		}
	} else {
		task, err := t.app.GetTaskHandler.Handle(ctx, taskID)
		if err != nil {
			return cmd, err
		}
		cmd.ProjectID = task.ProjectID
	}
	if cmd.PlannedStatus, err = parseOptionalWeekStatus(input.PlannedStatus); err != nil {
		return cmd, err
	}
	if cmd.ActualStatus, err = parseOptionalWeekStatus(input.ActualStatus); err != nil {
		return cmd, err
	}
	return cmd, nil
}

func (t *toolset) listSnapshots(ctx context.Context, input snapshotListInput) ([]queries.SnapshotDTO, error) {
	query := queries.ListSnapshotsQuery{Filter: domain.SnapshotFilter{Year: input.Year, Month: input.Month}}
	var err error
	if query.TaskID, err = parseOptionalUUID("task_id", input.TaskID); err != nil {
		return nil, err
	}
	if query.ProjectID, err = parseOptionalUUID("project_id", input.ProjectID); err != nil {
		return nil, err
	}
	return t.app.ListSnapshotsHandler.Handle(ctx, query)
}

func (t *toolset) deleteSnapshot(ctx context.Context, input snapshotIDInput) (map[string]any, error) {
	id, err := parseUUID("snapshot_id", input.SnapshotID)
	if err != nil {
		return nil, err
	}
	if err := t.app.DeleteSnapshotHandler.Handle(ctx, commands.DeleteSnapshotCommand{SnapshotID: id}); err != nil {
		return nil, err
	}
	return map[string]any{"snapshot_id": id, "deleted": true}, nil
}

func (t *toolset) calendar(ctx context.Context, input calendarInput) ([]domain.CalendarRow, error) {
	projectID, err := parseUUID("project_id", input.ProjectID)
	if err != nil {
		return nil, err
	}
	rng := domain.MonthRangeOf(t.app.CurrentWeekHandler.Bucket())
	if input.StartYear != 0 {
		rng.StartYear = input.StartYear
	}
	if input.StartMonth != 0 {
		rng.StartMonth = input.StartMonth
	}
	rng.EndYear, rng.EndMonth = rng.StartYear, rng.StartMonth
	if input.EndYear != 0 {
		rng.EndYear = input.EndYear
	}
	if input.EndMonth != 0 {
		rng.EndMonth = input.EndMonth
	}
	return t.app.GetCalendarHandler.Handle(ctx, queries.GetCalendarQuery{ProjectID: projectID, Range: rng})
}

func (t *toolset) currentWeek(ctx context.Context, input currentWeekInput) (*queries.CurrentWeekDTO, error) {
	projectID, err := parseOptionalUUID("project_id", input.ProjectID)
	if err != nil {
		return nil, err
	}
	return t.app.CurrentWeekHandler.Handle(ctx, projectID)
}

func (t *toolset) weeklySummary(ctx context.Context, input weeklySummaryInput) (*weeklySummaryOutput, error) {
	bucket, err := weekInput{Year: input.Year, Month: input.Month, Week: input.Week}.resolve(t.app.CurrentWeekHandler.Bucket())
	if err != nil {
		return nil, err
	}
	projectID, err := parseOptionalUUID("project_id", input.ProjectID)
	if err != nil {
		return nil, err
	}
	summary, err := t.app.WeeklySummaryHandler.Handle(ctx, queries.WeeklySummaryQuery{Bucket: bucket, ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	return &weeklySummaryOutput{Week: bucket, Summary: summary}, nil
}

func (t *toolset) weeklyTrends(ctx context.Context, input weekInput) ([]queries.ProjectTrendDTO, error) {
	bucket, err := input.resolve(t.app.CurrentWeekHandler.Bucket())
	if err != nil {
		return nil, err
	}
	return t.app.WeeklyTrendsHandler.Handle(ctx, bucket)
}
