package commands

import (
	"context"

	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	sharedApplication "github.com/felixgeelhaar/pacer/internal/shared/application"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// DeleteProjectCommand contains the data needed to delete a project.
type DeleteProjectCommand struct {
	ProjectID uuid.UUID
}

// DeleteProjectResult reports what was removed.
type DeleteProjectResult struct {
	ProjectID        uuid.UUID
	DeletedTaskCount int
}

// DeleteProjectHandler handles the DeleteProjectCommand.
type DeleteProjectHandler struct {
	projectRepo domain.ProjectRepository
	taskRepo    domain.TaskRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
	clock       sharedApplication.Clock
}

// NewDeleteProjectHandler creates a new DeleteProjectHandler.
func NewDeleteProjectHandler(
	projectRepo domain.ProjectRepository,
	taskRepo domain.TaskRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedApplication.Clock,
) *DeleteProjectHandler {
	return &DeleteProjectHandler{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
		clock:       clock,
	}
}

// Handle deletes the project with its tasks and snapshots.
func (h *DeleteProjectHandler) Handle(ctx context.Context, cmd DeleteProjectCommand) (*DeleteProjectResult, error) {
	var result *DeleteProjectResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		project, err := h.projectRepo.FindByID(txCtx, cmd.ProjectID)
		if err != nil {
			return err
		}

		count, err := h.taskRepo.CountByProject(txCtx, project.ID())
		if err != nil {
			return err
		}

		if err := h.projectRepo.Delete(txCtx, project.ID()); err != nil {
			return err
		}

		project.MarkDeleted(count, h.clock.Now())
		if err := saveEvents(txCtx, h.outboxRepo, project); err != nil {
			return err
		}

		result = &DeleteProjectResult{ProjectID: project.ID(), DeletedTaskCount: count}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
