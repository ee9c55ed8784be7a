package commands

import (
	"context"

	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	sharedApplication "github.com/felixgeelhaar/pacer/internal/shared/application"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// UpdateProjectCommand contains the data needed to update a project.
// Nil fields are left unchanged.
type UpdateProjectCommand struct {
	ProjectID   uuid.UUID
	Name        *string
	Category    *string
	Description *string
}

// UpdateProjectHandler handles the UpdateProjectCommand.
type UpdateProjectHandler struct {
	projectRepo domain.ProjectRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
	clock       sharedApplication.Clock
}

// NewUpdateProjectHandler creates a new UpdateProjectHandler.
func NewUpdateProjectHandler(
	projectRepo domain.ProjectRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedApplication.Clock,
) *UpdateProjectHandler {
	return &UpdateProjectHandler{
		projectRepo: projectRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
		clock:       clock,
	}
}

// Handle executes the UpdateProjectCommand.
func (h *UpdateProjectHandler) Handle(ctx context.Context, cmd UpdateProjectCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		project, err := h.projectRepo.FindByID(txCtx, cmd.ProjectID)
		if err != nil {
			return err
		}

		err = project.Update(domain.ProjectPatch{
			Name:        cmd.Name,
			Category:    cmd.Category,
			Description: cmd.Description,
		}, h.clock.Now())
		if err != nil {
			return err
		}

		if err := h.projectRepo.Save(txCtx, project); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, project)
	})
}
