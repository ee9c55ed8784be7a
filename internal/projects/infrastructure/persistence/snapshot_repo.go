package persistence

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const snapshotColumns = `id, task_id, project_id, year, month, week_number,
	planned_status, actual_status, planned_progress, actual_progress, comments,
	created_at, updated_at`

const (
	bucketOrder = ` ORDER BY year, month, week_number, created_at`
	newestFirst = ` ORDER BY year DESC, month DESC, week_number DESC, created_at DESC`
)

// SnapshotRepository implements domain.SnapshotRepository.
type SnapshotRepository struct {
	conn database.Connection
}

// NewSnapshotRepository creates a snapshot repository.
func NewSnapshotRepository(conn database.Connection) *SnapshotRepository {
	return &SnapshotRepository{conn: conn}
}

func (r *SnapshotRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Save inserts or updates a snapshot.
func (r *SnapshotRepository) Save(ctx context.Context, snap *domain.WeeklySnapshot) error {
	s := snap.State()
	_, err := r.exec(ctx).Exec(ctx, `
		INSERT INTO weekly_snapshots (`+snapshotColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			planned_status = excluded.planned_status,
			actual_status = excluded.actual_status,
			planned_progress = excluded.planned_progress,
			actual_progress = excluded.actual_progress,
			comments = excluded.comments,
			updated_at = excluded.updated_at`,
		snap.ID().String(),
		s.TaskID.String(),
		s.ProjectID.String(),
		s.Bucket.Year,
		s.Bucket.Month,
		s.Bucket.Week,
		s.PlannedStatus.String(),
		s.ActualStatus.String(),
		s.PlannedProgress,
		s.ActualProgress,
		s.Comments,
		snap.CreatedAt().UTC(),
		snap.UpdatedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save weekly snapshot: %w", err)
	}
	return nil
}

// FindByID implements domain.SnapshotRepository.
func (r *SnapshotRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.WeeklySnapshot, error) {
	row := r.exec(ctx).QueryRow(ctx, `SELECT `+snapshotColumns+` FROM weekly_snapshots WHERE id = ?`, id.String())
	snap, err := scanSnapshot(row)
	if err != nil {
		return nil, notFound(err, domain.ErrSnapshotNotFound, "find weekly snapshot")
	}
	return snap, nil
}

// FindByBucket implements domain.SnapshotRepository.
func (r *SnapshotRepository) FindByBucket(ctx context.Context, taskID uuid.UUID, b domain.Bucket) (*domain.WeeklySnapshot, error) {
	row := r.exec(ctx).QueryRow(ctx, `
		SELECT `+snapshotColumns+` FROM weekly_snapshots
		WHERE task_id = ? AND year = ? AND month = ? AND week_number = ?`,
		taskID.String(), b.Year, b.Month, b.Week)
	snap, err := scanSnapshot(row)
	if err != nil {
		return nil, notFound(err, domain.ErrSnapshotNotFound, "find weekly snapshot")
	}
	return snap, nil
}

// FindByTask implements domain.SnapshotRepository.
func (r *SnapshotRepository) FindByTask(ctx context.Context, taskID uuid.UUID, filter domain.SnapshotFilter) ([]*domain.WeeklySnapshot, error) {
	where, args := filterClause("task_id = ?", []any{taskID.String()}, filter)
	return r.query(ctx, `SELECT `+snapshotColumns+` FROM weekly_snapshots WHERE `+where+newestFirst, args...)
}

// FindByProject implements domain.SnapshotRepository.
func (r *SnapshotRepository) FindByProject(ctx context.Context, projectID uuid.UUID, filter domain.SnapshotFilter) ([]*domain.WeeklySnapshot, error) {
	where, args := filterClause("project_id = ?", []any{projectID.String()}, filter)
	return r.query(ctx, `SELECT `+snapshotColumns+` FROM weekly_snapshots WHERE `+where+bucketOrder, args...)
}

// FindInRange implements domain.SnapshotRepository.
func (r *SnapshotRepository) FindInRange(ctx context.Context, projectID uuid.UUID, mr domain.MonthRange) ([]*domain.WeeklySnapshot, error) {
	return r.query(ctx, `
		SELECT `+snapshotColumns+` FROM weekly_snapshots
		WHERE project_id = ? AND (year * 12 + month) BETWEEN ? AND ?`+bucketOrder,
		projectID.String(), mr.StartYear*12+mr.StartMonth, mr.EndYear*12+mr.EndMonth)
}

// FindByWeek implements domain.SnapshotRepository.
func (r *SnapshotRepository) FindByWeek(ctx context.Context, b domain.Bucket, projectID *uuid.UUID) ([]*domain.WeeklySnapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM weekly_snapshots WHERE year = ? AND month = ? AND week_number = ?`
	args := []any{b.Year, b.Month, b.Week}
	if projectID != nil {
		query += ` AND project_id = ?`
		args = append(args, projectID.String())
	}
	return r.query(ctx, query+` ORDER BY project_id, created_at`, args...)
}

// Delete implements domain.SnapshotRepository.
func (r *SnapshotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.exec(ctx).Exec(ctx, `DELETE FROM weekly_snapshots WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete weekly snapshot: %w", err)
	}
	if err := database.RequireAffected(result); err != nil {
		return notFound(err, domain.ErrSnapshotNotFound, "delete weekly snapshot")
	}
	return nil
}

func (r *SnapshotRepository) query(ctx context.Context, query string, args ...any) ([]*domain.WeeklySnapshot, error) {
	rows, err := r.exec(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly snapshots: %w", err)
	}
	return collect(rows, scanSnapshot)
}

func filterClause(base string, args []any, filter domain.SnapshotFilter) (string, []any) {
	clauses := []string{base}
	if filter.Year != nil {
		clauses = append(clauses, "year = ?")
		args = append(args, *filter.Year)
	}
	if filter.Month != nil {
		clauses = append(clauses, "month = ?")
		args = append(args, *filter.Month)
	}
	return strings.Join(clauses, " AND "), args
}

func scanSnapshot(row database.Row) (*domain.WeeklySnapshot, error) {
	var (
		rawID, rawTaskID, rawProjectID string
		planned, actual                string
		createdAt, updatedAt           time.Time
		s                              domain.SnapshotState
	)
	err := row.Scan(
		&rawID,
		&rawTaskID,
		&rawProjectID,
		&s.Bucket.Year,
		&s.Bucket.Month,
		&s.Bucket.Week,
		&planned,
		&actual,
		&s.PlannedProgress,
		&s.ActualProgress,
		&s.Comments,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	if s.TaskID, err = parseID(rawTaskID); err != nil {
		return nil, err
	}
	if s.ProjectID, err = parseID(rawProjectID); err != nil {
		return nil, err
	}
	if s.PlannedStatus, err = domain.ParseWeekStatus(planned); err != nil {
		return nil, err
	}
	if s.ActualStatus, err = domain.ParseWeekStatus(actual); err != nil {
		return nil, err
	}
	return domain.RehydrateWeeklySnapshot(id, createdAt, updatedAt, s), nil
}
