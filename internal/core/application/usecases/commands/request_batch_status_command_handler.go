package commands

import (
	"context"

	"dispatch/internal/core/domain/model/batch"
)

// RequestBatchStatusCommandHandler issues a status request and applies the
// result only once the backend accepted it.
//
// No request is issued for a batch that is already Completed or Cancelled.
// A rejected request returns ports.ErrStatusRejected and the stored status
// stays as it was.
type RequestBatchStatusCommandHandler struct {
	uowFactory BatchUoWFactory
}

func NewRequestBatchStatusCommandHandler(uowFactory BatchUoWFactory) RequestBatchStatusCommandHandler {
	return RequestBatchStatusCommandHandler{uowFactory: uowFactory}
}

// Handle returns the confirmed canonical status.
func (h RequestBatchStatusCommandHandler) Handle(
	ctx context.Context,
	command RequestBatchStatusCommand,
) (batch.Status, error) {
	if err := command.Validate(); err != nil {
		return batch.Draft, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return batch.Draft, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.BatchRepository()

	b, err := repo.GetForUpdate(ctx, command.BatchID())
	if err != nil {
		return batch.Draft, err
	}

	if err = b.CanRequestStatusChange(); err != nil {
		return b.Status(), err
	}

	previous := b.Status()
	raw := command.Target().WireValue()
	if err = repo.UpdateStatus(ctx, b.ID(), b.RawStatus(), raw); err != nil {
		return previous, err
	}

	if err = uow.Commit(ctx); err != nil {
		return previous, err
	}

	if err = b.ConfirmStatus(raw); err != nil {
		return previous, err
	}

	return b.Status(), nil
}
