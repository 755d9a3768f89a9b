package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAcceptDeliveryCommandIsNotConstructed = errors.New(
	"AcceptDeliveryCommand must be created via NewAcceptDeliveryCommand constructor",
)

// AcceptDeliveryCommand assigns a single-order offer to the accepting driver.
type AcceptDeliveryCommand struct {
	orderID  kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAcceptDeliveryCommand(orderID, driverID kernel.UUID) (AcceptDeliveryCommand, error) {
	if err := orderID.Validate(); err != nil {
		return AcceptDeliveryCommand{}, errs.NewValueIsRequiredErrorWithCause("order_id", err)
	}
	if err := driverID.Validate(); err != nil {
		return AcceptDeliveryCommand{}, errs.NewValueIsRequiredErrorWithCause("driver_id", err)
	}

	return AcceptDeliveryCommand{
		orderID:  orderID,
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c AcceptDeliveryCommand) OrderID() kernel.UUID  { return c.orderID }
func (c AcceptDeliveryCommand) DriverID() kernel.UUID { return c.driverID }

func (c AcceptDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAcceptDeliveryCommandIsNotConstructed)
}
