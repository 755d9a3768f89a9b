package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/routing"
)

// NavigationPayloadRepository stores the latest navigation payload per batch.
type NavigationPayloadRepository interface {
	// Save replaces any payload stored for payload.BatchID.
	Save(ctx context.Context, payload routing.NavigationPayload) error

	// Get returns errs.ErrObjectNotFound when no payload was stored yet.
	Get(ctx context.Context, batchID kernel.UUID) (routing.NavigationPayload, error)
}
