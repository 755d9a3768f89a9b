package commands

import (
	"context"

	"dispatch/internal/core/domain/model/batch"
)

// DeclineBatchCommandHandler applies the decline rules:
//   - unassigned batch: the driver is recorded as having declined it
//   - batch held by the driver: it is released back to ready_for_pickup
//   - batch held by another driver: batch.ErrAssignedToAnotherDriver
type DeclineBatchCommandHandler struct {
	uowFactory BatchUoWFactory
}

func NewDeclineBatchCommandHandler(uowFactory BatchUoWFactory) DeclineBatchCommandHandler {
	return DeclineBatchCommandHandler{uowFactory: uowFactory}
}

// Handle returns what the decline did.
func (h DeclineBatchCommandHandler) Handle(
	ctx context.Context,
	command DeclineBatchCommand,
) (batch.DeclineOutcome, error) {
	if err := command.Validate(); err != nil {
		return "", err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.BatchRepository()

	b, err := repo.GetForUpdate(ctx, command.BatchID())
	if err != nil {
		return "", err
	}

	outcome, err := b.Decline(command.DriverID())
	if err != nil {
		return "", err
	}

	if err = repo.Update(ctx, b); err != nil {
		return "", err
	}

	if err = repo.AddDecline(ctx, b.ID(), command.DriverID(), command.Reason()); err != nil {
		return "", err
	}

	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	return outcome, nil
}
