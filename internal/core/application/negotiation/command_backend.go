package negotiation

import (
	"context"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"
)

type (
	AcceptBatchHandler interface {
		Handle(ctx context.Context, command commands.AcceptBatchCommand) error
	}

	DeclineBatchHandler interface {
		Handle(ctx context.Context, command commands.DeclineBatchCommand) (batch.DeclineOutcome, error)
	}

	AcceptDeliveryHandler interface {
		Handle(ctx context.Context, command commands.AcceptDeliveryCommand) error
	}

	DeclineDeliveryHandler interface {
		Handle(ctx context.Context, command commands.DeclineDeliveryCommand) (batch.DeclineOutcome, error)
	}
)

// CommandBackend routes offer answers to the command handlers by offer kind.
type CommandBackend struct {
	acceptBatch     AcceptBatchHandler
	declineBatch    DeclineBatchHandler
	acceptDelivery  AcceptDeliveryHandler
	declineDelivery DeclineDeliveryHandler
}

func NewCommandBackend(
	acceptBatch AcceptBatchHandler,
	declineBatch DeclineBatchHandler,
	acceptDelivery AcceptDeliveryHandler,
	declineDelivery DeclineDeliveryHandler,
) *CommandBackend {
	return &CommandBackend{
		acceptBatch:     acceptBatch,
		declineBatch:    declineBatch,
		acceptDelivery:  acceptDelivery,
		declineDelivery: declineDelivery,
	}
}

func (b *CommandBackend) Accept(ctx context.Context, kind offer.Kind, subjectID, driverID kernel.UUID) error {
	if kind == offer.KindBatch {
		cmd, err := commands.NewAcceptBatchCommand(subjectID, driverID)
		if err != nil {
			return err
		}
		return b.acceptBatch.Handle(ctx, cmd)
	}

	cmd, err := commands.NewAcceptDeliveryCommand(subjectID, driverID)
	if err != nil {
		return err
	}
	return b.acceptDelivery.Handle(ctx, cmd)
}

func (b *CommandBackend) Decline(ctx context.Context, kind offer.Kind, subjectID, driverID kernel.UUID, reason string) error {
	if kind == offer.KindBatch {
		cmd, err := commands.NewDeclineBatchCommand(subjectID, driverID, reason)
		if err != nil {
			return err
		}
		_, err = b.declineBatch.Handle(ctx, cmd)
		return err
	}

	cmd, err := commands.NewDeclineDeliveryCommand(subjectID, driverID, reason)
	if err != nil {
		return err
	}
	_, err = b.declineDelivery.Handle(ctx, cmd)
	return err
}
