// Package queries contains the read side: batch details, navigation
// payloads and a driver's active deliveries.
package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrGetBatchQueryIsNotConstructed = errors.New("GetBatchQuery must be created via NewGetBatchQuery constructor")

// GetBatchQuery reads one batch with its orders.
type GetBatchQuery struct {
	batchID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetBatchQuery(batchID kernel.UUID) (GetBatchQuery, error) {
	if err := batchID.Validate(); err != nil {
		return GetBatchQuery{}, errs.NewValueIsRequiredErrorWithCause("batch_id", err)
	}
	return GetBatchQuery{batchID: batchID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetBatchQuery) BatchID() kernel.UUID { return q.batchID }

func (q GetBatchQuery) Validate() error {
	return q.guard.Validate(ErrGetBatchQueryIsNotConstructed)
}
