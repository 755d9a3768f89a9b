package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrDeclineDeliveryCommandIsNotConstructed = errors.New(
	"DeclineDeliveryCommand must be created via NewDeclineDeliveryCommand constructor",
)

// DeclineDeliveryCommand turns down a single-order offer or releases a held delivery.
type DeclineDeliveryCommand struct {
	orderID  kernel.UUID
	driverID kernel.UUID
	reason   string

	guard guard.ConstructorGuard
}

func NewDeclineDeliveryCommand(orderID, driverID kernel.UUID, reason string) (DeclineDeliveryCommand, error) {
	if err := orderID.Validate(); err != nil {
		return DeclineDeliveryCommand{}, errs.NewValueIsRequiredErrorWithCause("order_id", err)
	}
	if err := driverID.Validate(); err != nil {
		return DeclineDeliveryCommand{}, errs.NewValueIsRequiredErrorWithCause("driver_id", err)
	}
	reason, err := normalizeReason(reason)
	if err != nil {
		return DeclineDeliveryCommand{}, err
	}

	return DeclineDeliveryCommand{
		orderID:  orderID,
		driverID: driverID,
		reason:   reason,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c DeclineDeliveryCommand) OrderID() kernel.UUID  { return c.orderID }
func (c DeclineDeliveryCommand) DriverID() kernel.UUID { return c.driverID }
func (c DeclineDeliveryCommand) Reason() string        { return c.reason }

func (c DeclineDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrDeclineDeliveryCommandIsNotConstructed)
}
