package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrGetNavigationPayloadQueryIsNotConstructed = errors.New(
	"GetNavigationPayloadQuery must be created via NewGetNavigationPayloadQuery constructor",
)

// GetNavigationPayloadQuery asks for the navigation payload of an accepted batch.
type GetNavigationPayloadQuery struct {
	batchID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetNavigationPayloadQuery(batchID kernel.UUID) (GetNavigationPayloadQuery, error) {
	if err := batchID.Validate(); err != nil {
		return GetNavigationPayloadQuery{}, errs.NewValueIsRequiredErrorWithCause("batch_id", err)
	}
	return GetNavigationPayloadQuery{batchID: batchID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetNavigationPayloadQuery) BatchID() kernel.UUID { return q.batchID }

func (q GetNavigationPayloadQuery) Validate() error {
	return q.guard.Validate(ErrGetNavigationPayloadQueryIsNotConstructed)
}
