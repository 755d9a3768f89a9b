package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// MaxDeclineReasonLength bounds the free-text reason a driver may give.
const MaxDeclineReasonLength = 500

var ErrDeclineBatchCommandIsNotConstructed = errors.New(
	"DeclineBatchCommand must be created via NewDeclineBatchCommand constructor",
)

// DeclineBatchCommand turns down a batch offer or releases a batch the driver holds.
type DeclineBatchCommand struct {
	batchID  kernel.UUID
	driverID kernel.UUID
	reason   string

	guard guard.ConstructorGuard
}

// NewDeclineBatchCommand validates the identifiers; reason is optional.
func NewDeclineBatchCommand(batchID, driverID kernel.UUID, reason string) (DeclineBatchCommand, error) {
	if err := batchID.Validate(); err != nil {
		return DeclineBatchCommand{}, errs.NewValueIsRequiredErrorWithCause("batch_id", err)
	}
	if err := driverID.Validate(); err != nil {
		return DeclineBatchCommand{}, errs.NewValueIsRequiredErrorWithCause("driver_id", err)
	}
	reason, err := normalizeReason(reason)
	if err != nil {
		return DeclineBatchCommand{}, err
	}

	return DeclineBatchCommand{
		batchID:  batchID,
		driverID: driverID,
		reason:   reason,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c DeclineBatchCommand) BatchID() kernel.UUID  { return c.batchID }
func (c DeclineBatchCommand) DriverID() kernel.UUID { return c.driverID }
func (c DeclineBatchCommand) Reason() string        { return c.reason }

func (c DeclineBatchCommand) Validate() error {
	return c.guard.Validate(ErrDeclineBatchCommandIsNotConstructed)
}

func normalizeReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if n := len([]rune(reason)); n > MaxDeclineReasonLength {
		return "", errs.NewValueIsOutOfRangeError("reason", n, 0, MaxDeclineReasonLength)
	}
	return reason, nil
}
