package commands

import (
	"context"

	"github.com/felixgeelhaar/pacer/internal/projects/domain"
	sharedApplication "github.com/felixgeelhaar/pacer/internal/shared/application"
	"github.com/felixgeelhaar/pacer/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// DeleteSnapshotCommand contains the data needed to delete a snapshot.
type DeleteSnapshotCommand struct {
	SnapshotID uuid.UUID
}

// DeleteSnapshotHandler handles the DeleteSnapshotCommand.
type DeleteSnapshotHandler struct {
	snapshotRepo domain.SnapshotRepository
	outboxRepo   outbox.Repository
	uow          sharedApplication.UnitOfWork
	clock        sharedApplication.Clock
}

// NewDeleteSnapshotHandler creates a new DeleteSnapshotHandler.
func NewDeleteSnapshotHandler(
	snapshotRepo domain.SnapshotRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedApplication.Clock,
) *DeleteSnapshotHandler {
	return &DeleteSnapshotHandler{
		snapshotRepo: snapshotRepo,
		outboxRepo:   outboxRepo,
		uow:          uow,
		clock:        clock,
	}
}

// Handle executes the DeleteSnapshotCommand.
func (h *DeleteSnapshotHandler) Handle(ctx context.Context, cmd DeleteSnapshotCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		snapshot, err := h.snapshotRepo.FindByID(txCtx, cmd.SnapshotID)
		if err != nil {
			return err
		}

		if err := h.snapshotRepo.Delete(txCtx, snapshot.ID()); err != nil {
			return err
		}

		snapshot.MarkDeleted(h.clock.Now())
		return saveEvents(txCtx, h.outboxRepo, snapshot)
	})
}
