package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultPageLimit is the page size used when none is given.
const DefaultPageLimit = 50

// Page selects a 1-based page of a listing.
type Page struct {
	Number int
	Limit  int
}

// Normalize fills in defaults for unset values.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	return p
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Number - 1) * p.Limit
}

// ProjectRepository defines persistence for projects.
type ProjectRepository interface {
	// Save persists a project (create or update).
	Save(ctx context.Context, project *Project) error

	// FindByID finds a project by its ID. Returns ErrProjectNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Project, error)

	// List returns a page of projects, newest first.
	List(ctx context.Context, page Page) ([]*Project, error)

	// FindAll returns every project, newest first.
	FindAll(ctx context.Context) ([]*Project, error)

	// Touch moves the project's updatedAt to now.
	Touch(ctx context.Context, id uuid.UUID, now time.Time) error

	// Delete removes a project together with its tasks and snapshots.
	Delete(ctx context.Context, id uuid.UUID) error
}

// TaskRepository defines persistence for tasks.
type TaskRepository interface {
	// Save persists a task (create or update).
	Save(ctx context.Context, task *Task) error

	// FindByID finds a task by its ID. Returns ErrTaskNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)

	// FindByProject returns a project's tasks ordered by order index, then creation time.
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]*Task, error)

	// FindByProjects returns the tasks of several projects, in the same order.
	FindByProjects(ctx context.Context, projectIDs []uuid.UUID) ([]*Task, error)

	// FindAll returns every task.
	FindAll(ctx context.Context) ([]*Task, error)

	// CountByProject returns how many tasks a project owns.
	CountByProject(ctx context.Context, projectID uuid.UUID) (int, error)

	// Delete removes a task and its snapshots.
	Delete(ctx context.Context, id uuid.UUID) error
}

// SnapshotFilter narrows snapshot lookups to a year and month.
type SnapshotFilter struct {
	Year  *int
	Month *int
}

// SnapshotRepository defines persistence for weekly snapshots.
type SnapshotRepository interface {
	// Save persists a snapshot (create or update).
	Save(ctx context.Context, snapshot *WeeklySnapshot) error

	// FindByID finds a snapshot. Returns ErrSnapshotNotFound when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*WeeklySnapshot, error)

	// FindByBucket finds the task's snapshot for a bucket. Returns
	// ErrSnapshotNotFound when absent.
	FindByBucket(ctx context.Context, taskID uuid.UUID, bucket Bucket) (*WeeklySnapshot, error)

	// FindByTask returns a task's snapshots, newest week first.
	FindByTask(ctx context.Context, taskID uuid.UUID, filter SnapshotFilter) ([]*WeeklySnapshot, error)

	// FindByProject returns a project's snapshots ordered by year, month and week.
	FindByProject(ctx context.Context, projectID uuid.UUID, filter SnapshotFilter) ([]*WeeklySnapshot, error)

	// FindInRange returns a project's snapshots whose month lies in r.
	FindInRange(ctx context.Context, projectID uuid.UUID, r MonthRange) ([]*WeeklySnapshot, error)

	// FindByWeek returns the snapshots of one bucket, optionally for one project.
	FindByWeek(ctx context.Context, bucket Bucket, projectID *uuid.UUID) ([]*WeeklySnapshot, error)

	// Delete removes a snapshot. Returns ErrSnapshotNotFound when absent.
	Delete(ctx context.Context, id uuid.UUID) error
}
