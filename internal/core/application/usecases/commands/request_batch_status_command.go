package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrRequestBatchStatusCommandIsNotConstructed = errors.New(
	"RequestBatchStatusCommand must be created via NewRequestBatchStatusCommand constructor",
)

// RequestBatchStatusCommand asks the backend to move a batch toward a status.
//
// Example:
//
//	cmd, err := NewRequestBatchStatusCommand(batchID, "start_pickup")
//	status, err := handler.Handle(ctx, cmd) // batch.Collected once confirmed
type RequestBatchStatusCommand struct {
	batchID kernel.UUID
	target  batch.Status

	guard guard.ConstructorGuard
}

// NewRequestBatchStatusCommand accepts an intent ("start_pickup") or a
// canonical status name ("COLLECTED").
func NewRequestBatchStatusCommand(batchID kernel.UUID, requested string) (RequestBatchStatusCommand, error) {
	if err := batchID.Validate(); err != nil {
		return RequestBatchStatusCommand{}, errs.NewValueIsRequiredErrorWithCause("batch_id", err)
	}
	target, err := batch.ParseRequest(requested)
	if err != nil {
		return RequestBatchStatusCommand{}, err
	}

	return RequestBatchStatusCommand{
		batchID: batchID,
		target:  target,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c RequestBatchStatusCommand) BatchID() kernel.UUID { return c.batchID }
func (c RequestBatchStatusCommand) Target() batch.Status { return c.target }

func (c RequestBatchStatusCommand) Validate() error {
	return c.guard.Validate(ErrRequestBatchStatusCommandIsNotConstructed)
}
