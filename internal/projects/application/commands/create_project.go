package commands

import (
	"context"

	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	sharedApplication "github.com/felixgeelhaar/pacer/internal/shared/application"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// CreateProjectCommand contains the data needed to create a project.
type CreateProjectCommand struct {
	Name        string
	Category    string
	Description string
}

// CreateProjectResult contains the result of creating a project.
type CreateProjectResult struct {
	ProjectID uuid.UUID
}

// CreateProjectHandler handles the CreateProjectCommand.
type CreateProjectHandler struct {
	projectRepo domain.ProjectRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
	clock       sharedApplication.Clock
}

// NewCreateProjectHandler creates a new CreateProjectHandler.
func NewCreateProjectHandler(
	projectRepo domain.ProjectRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedApplication.Clock,
) *CreateProjectHandler {
	return &CreateProjectHandler{
		projectRepo: projectRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
		clock:       clock,
	}
}

// Handle executes the CreateProjectCommand.
func (h *CreateProjectHandler) Handle(ctx context.Context, cmd CreateProjectCommand) (*CreateProjectResult, error) {
	var result *CreateProjectResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		project, err := domain.NewProject(cmd.Name, cmd.Category, cmd.Description, h.clock.Now())
		if err != nil {
			return err
		}

		if err := h.projectRepo.Save(txCtx, project); err != nil {
			return err
		}
		if err := saveEvents(txCtx, h.outboxRepo, project); err != nil {
			return err
		}

		result = &CreateProjectResult{ProjectID: project.ID()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
