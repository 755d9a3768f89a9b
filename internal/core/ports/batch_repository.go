// Package ports defines the contracts between the dispatch core and the
// backend it talks to: batch and order persistence, navigation payload
// storage, tenant settings and offer event delivery.
package ports

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"
)

// ErrStatusRejected is returned when the backend refuses a status change,
// e.g. because the row moved on since it was read.
var ErrStatusRejected = errors.New("status change rejected by backend")

// BatchRepository is the backend contract for batches and their orders.
type BatchRepository interface {
	// Get returns the batch with its orders in backend order.
	Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error)

	// GetForUpdate is Get with the batch row locked until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*batch.Batch, error)

	// Update persists assignment and status of an existing batch.
	Update(ctx context.Context, aggregate *batch.Batch) error

	// UpdateStatus moves the batch from expectedRaw to raw. It returns
	// ErrStatusRejected when the stored status no longer equals expectedRaw.
	UpdateStatus(ctx context.Context, id kernel.UUID, expectedRaw, raw string) error

	// AddDecline records a driver's decline with an optional free-text reason.
	AddDecline(ctx context.Context, id, driverID kernel.UUID, reason string) error
}
