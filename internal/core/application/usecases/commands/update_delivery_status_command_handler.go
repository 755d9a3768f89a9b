package commands

import (
	"context"

	"dispatch/internal/core/domain/model/batch"
)

// UpdateDeliveryStatusCommandHandler is the single-delivery counterpart of
// RequestBatchStatusCommandHandler.
type UpdateDeliveryStatusCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewUpdateDeliveryStatusCommandHandler(uowFactory OrderUoWFactory) UpdateDeliveryStatusCommandHandler {
	return UpdateDeliveryStatusCommandHandler{uowFactory: uowFactory}
}

// Handle returns the confirmed canonical status of the delivery.
func (h UpdateDeliveryStatusCommandHandler) Handle(
	ctx context.Context,
	command UpdateDeliveryStatusCommand,
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

	repo := uow.OrderRepository()

	o, err := repo.GetForUpdate(ctx, command.OrderID())
	if err != nil {
		return batch.Draft, err
	}

	previous := o.Status()
	if previous.IsTerminal() {
		return previous, batch.ErrTerminalStatus
	}

	raw := command.Target().DeliveryWireValue()
	if err = repo.UpdateStatus(ctx, o.ID(), o.RawStatus(), raw); err != nil {
		return previous, err
	}

	if err = uow.Commit(ctx); err != nil {
		return previous, err
	}

	if err = o.ApplyStatus(raw); err != nil {
		return previous, err
	}

	return o.Status(), nil
}
