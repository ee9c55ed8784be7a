package queries

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	sharedApplication "github.com/felixgeelhaar/pacer/internal/shared/application"
	"github.com/google/uuid"
)

// GetCalendarQuery selects a project and an inclusive month range.
type GetCalendarQuery struct {
	ProjectID uuid.UUID
	Range     domain.MonthRange
}

// GetCalendarHandler builds the task-by-week calendar of a project.
type GetCalendarHandler struct {
	projectRepo  domain.ProjectRepository
	taskRepo     domain.TaskRepository
	snapshotRepo domain.SnapshotRepository
}

// NewGetCalendarHandler creates a new GetCalendarHandler.
func NewGetCalendarHandler(
	projectRepo domain.ProjectRepository,
	taskRepo domain.TaskRepository,
	snapshotRepo domain.SnapshotRepository,
) *GetCalendarHandler {
	return &GetCalendarHandler{projectRepo: projectRepo, taskRepo: taskRepo, snapshotRepo: snapshotRepo}
}

// Handle returns one row per task, including tasks without snapshots.
func (h *GetCalendarHandler) Handle(ctx context.Context, query GetCalendarQuery) ([]domain.CalendarRow, error) {
	if err := query.Range.Validate(); err != nil {
		return nil, err
	}
	if _, err := h.projectRepo.FindByID(ctx, query.ProjectID); err != nil {
		return nil, err
	}
	return h.build(ctx, query.ProjectID, query.Range)
}

func (h *GetCalendarHandler) build(ctx context.Context, projectID uuid.UUID, r domain.MonthRange) ([]domain.CalendarRow, error) {
	tasks, err := h.taskRepo.FindByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	snapshots, err := h.snapshotRepo.FindInRange(ctx, projectID, r)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}

	headers := make([]domain.CalendarTask, 0, len(tasks))
	for _, t := range tasks {
		headers = append(headers, domain.CalendarTask{
			ID:         t.ID(),
			Name:       t.Name(),
			OrderIndex: t.OrderIndex(),
			CreatedAt:  t.CreatedAt(),
		})
	}
	return domain.BuildCalendar(headers, snapshotStates(snapshots), r), nil
}

// WeekDTO is a bucket with its calendar dates.
type WeekDTO struct {
	domain.Bucket
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// NewWeekDTO resolves the date range of a bucket.
func NewWeekDTO(b domain.Bucket) (WeekDTO, error) {
	if err := b.Validate(); err != nil {
		return WeekDTO{}, err
	}
	start, end := b.DateRange()
	return WeekDTO{
		Bucket:    b,
		StartDate: domain.FormatDate(start),
		EndDate:   domain.FormatDate(end),
	}, nil
}

// ProjectCalendarDTO is the calendar of one project.
type ProjectCalendarDTO struct {
	ProjectID   uuid.UUID            `json:"projectId"`
	ProjectName string               `json:"projectName"`
	Data        []domain.CalendarRow `json:"data"`
}

// CurrentWeekDTO is the current bucket with the calendars of its month.
type CurrentWeekDTO struct {
	WeekDTO
	Projects []ProjectCalendarDTO `json:"projects"`
}

// CurrentWeekHandler resolves the current bucket and its month calendar.
type CurrentWeekHandler struct {
	calendar *GetCalendarHandler
	clock    sharedApplication.Clock
}

// NewCurrentWeekHandler creates a new CurrentWeekHandler.
func NewCurrentWeekHandler(calendar *GetCalendarHandler, clock sharedApplication.Clock) *CurrentWeekHandler {
	return &CurrentWeekHandler{calendar: calendar, clock: clock}
}

// Bucket returns the bucket containing the clock's now.
func (h *CurrentWeekHandler) Bucket() domain.Bucket {
	return domain.CurrentBucket(h.clock.Now())
}

// Handle builds the current month calendar for one project, or for every
// project when projectID is nil.
func (h *CurrentWeekHandler) Handle(ctx context.Context, projectID *uuid.UUID) (*CurrentWeekDTO, error) {
	bucket := h.Bucket()
	week, err := NewWeekDTO(bucket)
	if err != nil {
		return nil, err
	}
	r := domain.MonthRangeOf(bucket)

	var projects []*domain.Project
	if projectID != nil {
		p, err := h.calendar.projectRepo.FindByID(ctx, *projectID)
		if err != nil {
			return nil, err
		}
		projects = []*domain.Project{p}
	} else {
		projects, err = h.calendar.projectRepo.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load projects: %w", err)
		}
	}

	out := &CurrentWeekDTO{WeekDTO: week, Projects: make([]ProjectCalendarDTO, 0, len(projects))}
	for _, p := range projects {
		rows, err := h.calendar.build(ctx, p.ID(), r)
		if err != nil {
			return nil, err
		}
		out.Projects = append(out.Projects, ProjectCalendarDTO{
			ProjectID:   p.ID(),
			ProjectName: p.Name(),
			Data:        rows,
		})
	}
	return out, nil
}
