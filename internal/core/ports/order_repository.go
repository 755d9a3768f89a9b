package ports

import (
	"context"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"
)

// OrderRepository is the backend contract for single deliveries.
type OrderRepository interface {
	Get(ctx context.Context, id kernel.UUID) (*batch.Order, error)

	// GetForUpdate is Get with the order row locked until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*batch.Order, error)

	// Update persists assignment and status of an existing order.
	Update(ctx context.Context, aggregate *batch.Order) error

	// UpdateStatus moves the order from expectedRaw to raw, or returns ErrStatusRejected.
	UpdateStatus(ctx context.Context, id kernel.UUID, expectedRaw, raw string) error

	// AddDecline records a driver's decline with an optional reason.
	AddDecline(ctx context.Context, id, driverID kernel.UUID, reason string) error
}
