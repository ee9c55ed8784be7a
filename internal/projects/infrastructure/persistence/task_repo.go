package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const taskColumns = `id, project_id, parent_task_id, name, responsible, weight,
	planned_progress, actual_progress, status, estimated_date, real_delivery_date,
	delay_days, comments, evidence, priority, order_index, is_macro_process,
	created_at, updated_at`

const taskOrder = ` ORDER BY order_index, created_at, id`

// TaskRepository implements domain.TaskRepository.
type TaskRepository struct {
	conn database.Connection
}

// NewTaskRepository creates a task repository.
func NewTaskRepository(conn database.Connection) *TaskRepository {
	return &TaskRepository{conn: conn}
}

func (r *TaskRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Save inserts or updates a task.
func (r *TaskRepository) Save(ctx context.Context, t *domain.Task) error {
	s := t.State()
	_, err := r.exec(ctx).Exec(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			parent_task_id = excluded.parent_task_id,
			name = excluded.name,
			responsible = excluded.responsible,
			weight = excluded.weight,
			planned_progress = excluded.planned_progress,
			actual_progress = excluded.actual_progress,
			status = excluded.status,
			estimated_date = excluded.estimated_date,
			real_delivery_date = excluded.real_delivery_date,
			delay_days = excluded.delay_days,
			comments = excluded.comments,
			evidence = excluded.evidence,
			priority = excluded.priority,
			order_index = excluded.order_index,
			is_macro_process = excluded.is_macro_process,
			updated_at = excluded.updated_at`,
		t.ID().String(),
		s.ProjectID.String(),
		optionalID(s.ParentTaskID),
		s.Name,
		s.Responsible,
		s.Weight,
		s.PlannedProgress,
		s.ActualProgress,
		s.Status.String(),
		optionalDate(s.EstimatedDate),
		optionalDate(s.RealDeliveryDate),
		s.DelayDays,
		s.Comments,
		s.Evidence,
		s.Priority,
		s.OrderIndex,
		s.IsMacroProcess,
		t.CreatedAt().UTC(),
		t.UpdatedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// FindByID implements domain.TaskRepository.
func (r *TaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	row := r.exec(ctx).QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id.String())
	t, err := scanTask(row)
	if err != nil {
		return nil, notFound(err, domain.ErrTaskNotFound, "find task")
	}
	return t, nil
}

// FindByProject implements domain.TaskRepository.
func (r *TaskRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_id = ?`+taskOrder, projectID.String())
}

// FindByProjects loads the tasks of several projects in one query.
func (r *TaskRepository) FindByProjects(ctx context.Context, projectIDs []uuid.UUID) ([]*domain.Task, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}

	if r.conn.Driver() == database.DriverPostgres {
		array, err := database.PostgresArray(idStrings(projectIDs))
		if err != nil {
			return nil, err
		}
		return r.query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE project_id = ANY(?::uuid[])`+taskOrder, array)
	}

	query, args, err := database.In(`SELECT `+taskColumns+` FROM tasks WHERE project_id IN (?)`+taskOrder, idStrings(projectIDs))
	if err != nil {
		return nil, err
	}
	return r.query(ctx, query, args...)
}

// FindAll implements domain.TaskRepository.
func (r *TaskRepository) FindAll(ctx context.Context) ([]*domain.Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+` FROM tasks`+taskOrder)
}

// CountByProject implements domain.TaskRepository.
func (r *TaskRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int, error) {
	var count int
	err := r.exec(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM tasks WHERE project_id = ?`, projectID.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// Delete removes a task; its snapshots cascade and children lose their parent.
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.exec(ctx).Exec(ctx, `DELETE FROM tasks WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if err := database.RequireAffected(result); err != nil {
		return notFound(err, domain.ErrTaskNotFound, "delete task")
	}
	return nil
}

func (r *TaskRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	rows, err := r.exec(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	return collect(rows, scanTask)
}

func scanTask(row database.Row) (*domain.Task, error) {
	var (
		rawID, rawProjectID  string
		rawParentID          *string
		status               string
		estimated, delivered *string
		createdAt, updatedAt time.Time
		s                    domain.TaskState
	)
	err := row.Scan(
		&rawID,
		&rawProjectID,
		&rawParentID,
		&s.Name,
		&s.Responsible,
		&s.Weight,
		&s.PlannedProgress,
		&s.ActualProgress,
		&status,
		&estimated,
		&delivered,
		&s.DelayDays,
		&s.Comments,
		&s.Evidence,
		&s.Priority,
		&s.OrderIndex,
		&s.IsMacroProcess,
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
	if s.ProjectID, err = parseID(rawProjectID); err != nil {
		return nil, err
	}
	if s.ParentTaskID, err = parseOptionalID(rawParentID); err != nil {
		return nil, err
	}
	if s.Status, err = domain.ParseStatus(status); err != nil {
		return nil, err
	}
	if s.EstimatedDate, err = parseOptionalDate(estimated); err != nil {
		return nil, err
	}
	if s.RealDeliveryDate, err = parseOptionalDate(delivered); err != nil {
		return nil, err
	}
	return domain.RehydrateTask(id, createdAt, updatedAt, s), nil
}
