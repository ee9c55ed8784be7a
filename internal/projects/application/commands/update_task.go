package commands

import (
	"context"
	"time"

	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	sharedApplication "github.com/felixgeelhaar/pacer/internal/shared/application"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// UpdateTaskCommand contains a partial task update. Nil fields are left
// unchanged; status and delay are always recomputed.
type UpdateTaskCommand struct {
	TaskID           uuid.UUID
	Name             *string
	Responsible      *string
	Weight           *float64
	PlannedProgress  *float64
	ActualProgress   *float64
	EstimatedDate    *time.Time
	RealDeliveryDate *time.Time
	DelayDays        *int
	Comments         *string
	Evidence         *string
	Priority         *int
	ParentTaskID     *uuid.UUID
	OrderIndex       *int
	IsMacroProcess   *bool
}

// UpdateTaskResult reports the derived fields after the update.
type UpdateTaskResult struct {
	TaskID         uuid.UUID
	Status         domain.Status
	PreviousStatus domain.Status
	DelayDays      int
}

// UpdateTaskHandler handles the UpdateTaskCommand.
type UpdateTaskHandler struct {
	projectRepo domain.ProjectRepository
	taskRepo    domain.TaskRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
	clock       sharedApplication.Clock
}

// NewUpdateTaskHandler creates a new UpdateTaskHandler.
func NewUpdateTaskHandler(
	projectRepo domain.ProjectRepository,
	taskRepo domain.TaskRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedApplication.Clock,
) *UpdateTaskHandler {
	return &UpdateTaskHandler{
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		outboxRepo:  outboxRepo,
		uow:         uow,
		clock:       clock,
	}
}

// Handle executes the UpdateTaskCommand.
func (h *UpdateTaskHandler) Handle(ctx context.Context, cmd UpdateTaskCommand) (*UpdateTaskResult, error) {
	var result *UpdateTaskResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		task, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}

		if cmd.ParentTaskID != nil && *cmd.ParentTaskID != task.ID() {
			parent, err := h.taskRepo.FindByID(txCtx, *cmd.ParentTaskID)
			if err != nil {
				return err
			}
			if parent.ProjectID() != task.ProjectID() {
				return domain.ErrTaskProjectMismatch
			}
		}

		previous := task.Status()
		now := h.clock.Now()
		if err := task.Update(cmd.patch(), now); err != nil {
			return err
		}

		if err := h.taskRepo.Save(txCtx, task); err != nil {
			return err
		}
		if err := h.projectRepo.Touch(txCtx, task.ProjectID(), now); err != nil {
			return err
		}
		if err := saveEvents(txCtx, h.outboxRepo, task); err != nil {
			return err
		}

		result = &UpdateTaskResult{
			TaskID:         task.ID(),
			Status:         task.Status(),
			PreviousStatus: previous,
			DelayDays:      task.DelayDays(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (cmd UpdateTaskCommand) patch() domain.TaskPatch {
	return domain.TaskPatch{
		Name:             cmd.Name,
		Responsible:      cmd.Responsible,
		Weight:           cmd.Weight,
		PlannedProgress:  cmd.PlannedProgress,
		ActualProgress:   cmd.ActualProgress,
		EstimatedDate:    cmd.EstimatedDate,
		RealDeliveryDate: cmd.RealDeliveryDate,
		DelayDays:        cmd.DelayDays,
		Comments:         cmd.Comments,
		Evidence:         cmd.Evidence,
		Priority:         cmd.Priority,
		ParentTaskID:     cmd.ParentTaskID,
		OrderIndex:       cmd.OrderIndex,
		IsMacroProcess:   cmd.IsMacroProcess,
	}
}
