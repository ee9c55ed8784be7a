package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	sharedApplication "github.com/felixgeelhaar/pacer/internal/shared/application"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// CreateTaskCommand contains the data needed to create a task.
type CreateTaskCommand struct {
	ProjectID       uuid.UUID
	Name            string
	Responsible     string
	Weight          float64
	PlannedProgress float64
	EstimatedDate   *time.Time
	Comments        string
	Evidence        string
	Priority        int
	ParentTaskID    *uuid.UUID
	OrderIndex      int
	IsMacroProcess  bool
}

// CreateTaskResult contains the result of creating a task.
type CreateTaskResult struct {
	TaskID uuid.UUID
	Status domain.Status
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	projectRepo domain.ProjectRepository
	taskRepo    domain.TaskRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
	clock       sharedApplication.Clock
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(
	projectRepo domain.ProjectRepository,
	taskRepo domain.TaskRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedApplication.Clock,
) *CreateTaskHandler {
	return &CreateTaskHandler{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
		clock:       clock,
	}
}

// Handle executes the CreateTaskCommand.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*CreateTaskResult, error) {
	var result *CreateTaskResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if _, err := h.projectRepo.FindByID(txCtx, cmd.ProjectID); err != nil {
			return err
		}

		if cmd.ParentTaskID != nil {
			parent, err := h.taskRepo.FindByID(txCtx, *cmd.ParentTaskID)
			if err != nil {
				return err
			}
			if parent.ProjectID() != cmd.ProjectID {
				return domain.ErrTaskProjectMismatch
			}
		}

		now := h.clock.Now()
		task, err := domain.NewTask(domain.NewTaskParams{
			ProjectID:       cmd.ProjectID,
			Name:            cmd.Name,
			Responsible:     cmd.Responsible,
			Weight:          cmd.Weight,
			PlannedProgress: cmd.PlannedProgress,
			EstimatedDate:   cmd.EstimatedDate,
			Comments:        cmd.Comments,
			Evidence:        cmd.Evidence,
			Priority:        cmd.Priority,
			ParentTaskID:    cmd.ParentTaskID,
			OrderIndex:      cmd.OrderIndex,
			IsMacroProcess:  cmd.IsMacroProcess,
		}, now)
		if err != nil {
			return err
		}

		if err := h.taskRepo.Save(txCtx, task); err != nil {
			return err
		}
		if err := h.projectRepo.Touch(txCtx, cmd.ProjectID, now); err != nil {
			return err
		}
		if err := saveEvents(txCtx, h.outboxRepo, task); err != nil {
			return err
		}

		result = &CreateTaskResult{TaskID: task.ID(), Status: task.Status()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
