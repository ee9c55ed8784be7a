package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const projectColumns = `id, name, category, description, created_at, updated_at`

// ProjectRepository implements domain.ProjectRepository.
type ProjectRepository struct {
	conn database.Connection
}

// NewProjectRepository creates a project repository.
func NewProjectRepository(conn database.Connection) *ProjectRepository {
	return &ProjectRepository{conn: conn}
}

func (r *ProjectRepository) exec(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Save inserts or updates a project.
func (r *ProjectRepository) Save(ctx context.Context, p *domain.Project) error {
	_, err := r.exec(ctx).Exec(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			description = excluded.description,
			updated_at = excluded.updated_at`,
		p.ID().String(), p.Name(), p.Category(), p.Description(),
		p.CreatedAt().UTC(), p.UpdatedAt().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// FindByID implements domain.ProjectRepository.
func (r *ProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	row := r.exec(ctx).QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id.String())
	p, err := scanProject(row)
	if err != nil {
		return nil, notFound(err, domain.ErrProjectNotFound, "find project")
	}
	return p, nil
}

// List implements domain.ProjectRepository.
func (r *ProjectRepository) List(ctx context.Context, page domain.Page) ([]*domain.Project, error) {
	page = page.Normalize()
	rows, err := r.exec(ctx).Query(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC, id LIMIT ? OFFSET ?`,
		page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return collect(rows, scanProject)
}

// FindAll implements domain.ProjectRepository.
func (r *ProjectRepository) FindAll(ctx context.Context) ([]*domain.Project, error) {
	rows, err := r.exec(ctx).Query(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return collect(rows, scanProject)
}

// Touch implements domain.ProjectRepository.
func (r *ProjectRepository) Touch(ctx context.Context, id uuid.UUID, now time.Time) error {
	result, err := r.exec(ctx).Exec(ctx, `UPDATE projects SET updated_at = ? WHERE id = ?`, now.UTC(), id.String())
	if err != nil {
		return fmt.Errorf("failed to touch project: %w", err)
	}
	if err := database.RequireAffected(result); err != nil {
		return notFound(err, domain.ErrProjectNotFound, "touch project")
	}
	return nil
}

// Delete removes the project; tasks and snapshots cascade.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.exec(ctx).Exec(ctx, `DELETE FROM projects WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if err := database.RequireAffected(result); err != nil {
		return notFound(err, domain.ErrProjectNotFound, "delete project")
	}
	return nil
}

func scanProject(row database.Row) (*domain.Project, error) {
	var (
		rawID                       string
		name, category, description string
		createdAt, updatedAt        time.Time
	)
	if err := row.Scan(&rawID, &name, &category, &description, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateProject(id, name, category, description, createdAt, updatedAt), nil
}
