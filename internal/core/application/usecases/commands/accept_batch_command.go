package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAcceptBatchCommandIsNotConstructed = errors.New(
	"AcceptBatchCommand must be created via NewAcceptBatchCommand constructor",
)

// AcceptBatchCommand assigns a batch to the driver who accepted its offer.
//
// Example:
//
//	cmd, err := NewAcceptBatchCommand(batchID, driverID)
//	if err != nil {
//	    return err
//	}
//	err = handler.Handle(ctx, cmd)
type AcceptBatchCommand struct {
	batchID  kernel.UUID
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAcceptBatchCommand validates both identifiers.
func NewAcceptBatchCommand(batchID, driverID kernel.UUID) (AcceptBatchCommand, error) {
	if err := batchID.Validate(); err != nil {
		return AcceptBatchCommand{}, errs.NewValueIsRequiredErrorWithCause("batch_id", err)
	}
	if err := driverID.Validate(); err != nil {
		return AcceptBatchCommand{}, errs.NewValueIsRequiredErrorWithCause("driver_id", err)
	}

	return AcceptBatchCommand{
		batchID:  batchID,
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c AcceptBatchCommand) BatchID() kernel.UUID {
	return c.batchID
}

func (c AcceptBatchCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Validate ensures the command was created through the constructor.
func (c AcceptBatchCommand) Validate() error {
	return c.guard.Validate(ErrAcceptBatchCommandIsNotConstructed)
}
