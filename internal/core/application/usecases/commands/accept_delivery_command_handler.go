package commands

import (
	"context"
)

// AcceptDeliveryCommandHandler assigns a delivery to a driver under a row lock.
type AcceptDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
}

func NewAcceptDeliveryCommandHandler(uowFactory OrderUoWFactory) AcceptDeliveryCommandHandler {
	return AcceptDeliveryCommandHandler{uowFactory: uowFactory}
}

// Handle returns batch.ErrAssignedToAnotherDriver when the delivery was taken
// and batch.ErrTerminalStatus when it is already finished.
func (h AcceptDeliveryCommandHandler) Handle(ctx context.Context, command AcceptDeliveryCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	o, err := repo.GetForUpdate(ctx, command.OrderID())
	if err != nil {
		return err
	}

	if err = o.Accept(command.DriverID()); err != nil {
		return err
	}

	if err = repo.Update(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
