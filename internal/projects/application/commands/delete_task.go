package commands

import (
	"context"

	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	sharedApplication "github.com/felixgeelhaar/pacer/internal/shared/application"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// DeleteTaskCommand contains the data needed to delete a task.
type DeleteTaskCommand struct {
	TaskID uuid.UUID
}

// DeleteTaskHandler handles the DeleteTaskCommand.
type DeleteTaskHandler struct {
	projectRepo domain.ProjectRepository
	taskRepo    domain.TaskRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
	clock       sharedApplication.Clock
}

// NewDeleteTaskHandler creates a new DeleteTaskHandler.
func NewDeleteTaskHandler(
	projectRepo domain.ProjectRepository,
	taskRepo domain.TaskRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedApplication.Clock,
) *DeleteTaskHandler {
	return &DeleteTaskHandler{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
		clock:       clock,
	}
}

// Handle removes the task; its snapshots go with it.
func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		task, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}

		if err := h.taskRepo.Delete(txCtx, task.ID()); err != nil {
			return err
		}

		now := h.clock.Now()
		if err := h.projectRepo.Touch(txCtx, task.ProjectID(), now); err != nil {
			return err
		}

		task.MarkDeleted(now)
		return saveEvents(txCtx, h.outboxRepo, task)
	})
}
