package commands

import (
	"context"

	"dispatch/internal/core/domain/model/batch"
)

// DeclineDeliveryCommandHandler applies the same decline rules as batches:
// record the decline, release own work back to pending, or refuse when
// another driver holds it.
type DeclineDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewDeclineDeliveryCommandHandler(uowFactory OrderUoWFactory) DeclineDeliveryCommandHandler {
	return DeclineDeliveryCommandHandler{uowFactory: uowFactory}
}

func (h DeclineDeliveryCommandHandler) Handle(
	ctx context.Context,
	command DeclineDeliveryCommand,
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

	repo := uow.OrderRepository()

	o, err := repo.GetForUpdate(ctx, command.OrderID())
	if err != nil {
		return "", err
	}

	outcome, err := o.Decline(command.DriverID())
	if err != nil {
		return "", err
	}

	if err = repo.Update(ctx, o); err != nil {
		return "", err
	}

	if err = repo.AddDecline(ctx, o.ID(), command.DriverID(), command.Reason()); err != nil {
		return "", err
	}

	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	return outcome, nil
}
