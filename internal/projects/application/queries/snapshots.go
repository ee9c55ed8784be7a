package queries

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	"github.com/google/uuid"
)

// ListSnapshotsQuery selects the snapshots of a task or, when TaskID is nil,
// of a project.
type ListSnapshotsQuery struct {
	TaskID    *uuid.UUID
	ProjectID *uuid.UUID
	Filter    domain.SnapshotFilter
}

// ListSnapshotsHandler handles the ListSnapshotsQuery.
type ListSnapshotsHandler struct {
	taskRepo     domain.TaskRepository
	projectRepo  domain.ProjectRepository
	snapshotRepo domain.SnapshotRepository
}

// NewListSnapshotsHandler creates a new ListSnapshotsHandler.
func NewListSnapshotsHandler(
	projectRepo domain.ProjectRepository,
	taskRepo domain.TaskRepository,
	snapshotRepo domain.SnapshotRepository,
) *ListSnapshotsHandler {
	return &ListSnapshotsHandler{projectRepo: projectRepo, taskRepo: taskRepo, snapshotRepo: snapshotRepo}
}

// Handle returns a task's snapshots newest week first and a project's
// snapshots ordered by year, month and week.
func (h *ListSnapshotsHandler) Handle(ctx context.Context, query ListSnapshotsQuery) ([]SnapshotDTO, error) {
	var (
		snapshots []*domain.WeeklySnapshot
		err       error
	)
	switch {
	case query.TaskID != nil:
		if _, err := h.taskRepo.FindByID(ctx, *query.TaskID); err != nil {
			return nil, err
		}
		snapshots, err = h.snapshotRepo.FindByTask(ctx, *query.TaskID, query.Filter)
	case query.ProjectID != nil:
		if _, err := h.projectRepo.FindByID(ctx, *query.ProjectID); err != nil {
			return nil, err
		}
		snapshots, err = h.snapshotRepo.FindByProject(ctx, *query.ProjectID, query.Filter)
	default:
		return nil, fmt.Errorf("%w: task or project is required", domain.ErrInvalidRange)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}
	return toSnapshotDTOs(snapshots), nil
}

// WeeklySummaryQuery selects a bucket and optionally one project.
type WeeklySummaryQuery struct {
	Bucket    domain.Bucket
	ProjectID *uuid.UUID
}

// WeeklySummaryHandler aggregates the snapshots of one bucket.
type WeeklySummaryHandler struct {
	snapshotRepo domain.SnapshotRepository
}

// NewWeeklySummaryHandler creates a new WeeklySummaryHandler.
func NewWeeklySummaryHandler(snapshotRepo domain.SnapshotRepository) *WeeklySummaryHandler {
	return &WeeklySummaryHandler{snapshotRepo: snapshotRepo}
}

// Handle returns zeros for an empty bucket.
func (h *WeeklySummaryHandler) Handle(ctx context.Context, query WeeklySummaryQuery) (domain.WeeklySummary, error) {
	if err := query.Bucket.Validate(); err != nil {
		return domain.WeeklySummary{}, err
	}
	snapshots, err := h.snapshotRepo.FindByWeek(ctx, query.Bucket, query.ProjectID)
	if err != nil {
		return domain.WeeklySummary{}, fmt.Errorf("failed to load snapshots: %w", err)
	}
	return domain.SummarizeWeek(snapshotStates(snapshots)), nil
}

// ProjectTrendDTO is the weekly summary of one project.
type ProjectTrendDTO struct {
	ProjectID   uuid.UUID `json:"projectId"`
	ProjectName string    `json:"projectName"`
	domain.WeeklySummary
}

// WeeklyTrendsHandler summarizes one bucket for every project.
type WeeklyTrendsHandler struct {
	projectRepo  domain.ProjectRepository
	snapshotRepo domain.SnapshotRepository
}

// NewWeeklyTrendsHandler creates a new WeeklyTrendsHandler.
func NewWeeklyTrendsHandler(projectRepo domain.ProjectRepository, snapshotRepo domain.SnapshotRepository) *WeeklyTrendsHandler {
	return &WeeklyTrendsHandler{projectRepo: projectRepo, snapshotRepo: snapshotRepo}
}

// Handle returns one entry per project, newest project first.
func (h *WeeklyTrendsHandler) Handle(ctx context.Context, bucket domain.Bucket) ([]ProjectTrendDTO, error) {
	if err := bucket.Validate(); err != nil {
		return nil, err
	}
	projects, err := h.projectRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load projects: %w", err)
	}
	snapshots, err := h.snapshotRepo.FindByWeek(ctx, bucket, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}

	byProject := make(map[uuid.UUID][]domain.SnapshotState, len(projects))
	for _, s := range snapshots {
		byProject[s.ProjectID()] = append(byProject[s.ProjectID()], s.State())
	}

	out := make([]ProjectTrendDTO, 0, len(projects))
	for _, p := range projects {
		out = append(out, ProjectTrendDTO{
			ProjectID:     p.ID(),
			ProjectName:   p.Name(),
			WeeklySummary: domain.SummarizeWeek(byProject[p.ID()]),
		})
	}
	return out, nil
}
