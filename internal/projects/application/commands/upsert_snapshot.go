package commands

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	sharedApplication "github.com/felixgeelhaar/pacer/internal/shared/application"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// UpsertSnapshotCommand records a task's progress for one weekly bucket.
// On an existing bucket only the supplied fields change; a new bucket needs
// both status codes.
type UpsertSnapshotCommand struct {
	TaskID          uuid.UUID
	ProjectID       uuid.UUID
	Bucket          domain.Bucket
	PlannedStatus   *domain.WeekStatus
	ActualStatus    *domain.WeekStatus
	PlannedProgress *float64
	ActualProgress  *float64
	Comments        *string
}

// UpsertSnapshotResult identifies the stored snapshot.
type UpsertSnapshotResult struct {
	SnapshotID uuid.UUID
	Created    bool
}

// UpsertSnapshotHandler handles the UpsertSnapshotCommand.
type UpsertSnapshotHandler struct {
	taskRepo     domain.TaskRepository
	snapshotRepo domain.SnapshotRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
	clock        sharedApplication.Clock
}

// NewUpsertSnapshotHandler creates a new UpsertSnapshotHandler.
func NewUpsertSnapshotHandler(
	taskRepo domain.TaskRepository,
	snapshotRepo domain.SnapshotRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedApplication.Clock,
) *UpsertSnapshotHandler {
	return &UpsertSnapshotHandler{
		taskRepo:     taskRepo,
		snapshotRepo: snapshotRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
		clock:        clock,
	}
}

// Handle executes the UpsertSnapshotCommand.
func (h *UpsertSnapshotHandler) Handle(ctx context.Context, cmd UpsertSnapshotCommand) (*UpsertSnapshotResult, error) {
	var result *UpsertSnapshotResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var err error
		result, err = h.upsert(txCtx, cmd)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// HandleBatch applies every command in one unit of work. Any failure rolls
// back the whole batch.
func (h *UpsertSnapshotHandler) HandleBatch(ctx context.Context, cmds []UpsertSnapshotCommand) ([]UpsertSnapshotResult, error) {
	results := make([]UpsertSnapshotResult, 0, len(cmds))

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		for _, cmd := range cmds {
			res, err := h.upsert(txCtx, cmd)
			if err != nil {
				return err
			}
			results = append(results, *res)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

func (h *UpsertSnapshotHandler) upsert(ctx context.Context, cmd UpsertSnapshotCommand) (*UpsertSnapshotResult, error) {
	if err := cmd.Bucket.Validate(); err != nil {
		return nil, err
	}

	task, err := h.taskRepo.FindByID(ctx, cmd.TaskID)
	if err != nil {
		return nil, err
	}
	if task.ProjectID() != cmd.ProjectID {
		return nil, domain.ErrTaskProjectMismatch
	}

	patch := domain.SnapshotPatch{
		PlannedStatus:   cmd.PlannedStatus,
		ActualStatus:    cmd.ActualStatus,
		PlannedProgress: cmd.PlannedProgress,
		ActualProgress:  cmd.ActualProgress,
		Comments:        cmd.Comments,
	}
	now := h.clock.Now()

	snapshot, err := h.snapshotRepo.FindByBucket(ctx, cmd.TaskID, cmd.Bucket)
	created := false
	switch {
	case errors.Is(err, domain.ErrSnapshotNotFound):
		snapshot, err = domain.NewWeeklySnapshot(cmd.TaskID, cmd.ProjectID, cmd.Bucket, patch, now)
		if err != nil {
			return nil, err
		}
		created = true
	case err != nil:
		return nil, err
	default:
		if err := snapshot.Patch(patch, now); err != nil {
			return nil, err
		}
	}

	if err := h.snapshotRepo.Save(ctx, snapshot); err != nil {
		return nil, err
	}
	if err := saveEvents(ctx, h.outboxRepo, snapshot); err != nil {
		return nil, err
	}

	return &UpsertSnapshotResult{SnapshotID: snapshot.ID(), Created: created}, nil
}
