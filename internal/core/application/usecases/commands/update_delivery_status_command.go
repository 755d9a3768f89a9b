package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateDeliveryStatusCommandIsNotConstructed = errors.New(
	"UpdateDeliveryStatusCommand must be created via NewUpdateDeliveryStatusCommand constructor",
)

// UpdateDeliveryStatusCommand asks the backend to move a single delivery
// toward a status. The request is sent in the delivery vocabulary
// (picked_up, in_transit, delivered).
type UpdateDeliveryStatusCommand struct {
	orderID kernel.UUID
	target  batch.Status

	guard guard.ConstructorGuard
}

func NewUpdateDeliveryStatusCommand(orderID kernel.UUID, requested string) (UpdateDeliveryStatusCommand, error) {
	if err := orderID.Validate(); err != nil {
		return UpdateDeliveryStatusCommand{}, errs.NewValueIsRequiredErrorWithCause("order_id", err)
	}
	target, err := batch.ParseRequest(requested)
	if err != nil {
		return UpdateDeliveryStatusCommand{}, err
	}

	return UpdateDeliveryStatusCommand{
		orderID: orderID,
		target:  target,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateDeliveryStatusCommand) OrderID() kernel.UUID { return c.orderID }
func (c UpdateDeliveryStatusCommand) Target() batch.Status { return c.target }

func (c UpdateDeliveryStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDeliveryStatusCommandIsNotConstructed)
}
