package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrGetActiveDeliveriesQueryIsNotConstructed = errors.New(
	"GetActiveDeliveriesQuery must be created via NewGetActiveDeliveriesQuery constructor",
)

// ActiveDeliveryStatuses are the raw backend statuses that put a delivery
// on the driver's route screen.
var ActiveDeliveryStatuses = []string{"assigned", "accepted", "picked_up", "in_transit"}

// GetActiveDeliveriesQuery lists the deliveries a driver still has to work on.
//
// Example:
//
//	query, err := NewGetActiveDeliveriesQuery(driverID)
//	deliveries, err := handler.Handle(ctx, query)
//	for _, d := range deliveries {
//	    fmt.Printf("%s %s\n", d.OrderNumber, d.RawStatus)
//	}
type GetActiveDeliveriesQuery struct {
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetActiveDeliveriesQuery(driverID kernel.UUID) (GetActiveDeliveriesQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetActiveDeliveriesQuery{}, errs.NewValueIsRequiredErrorWithCause("driver_id", err)
	}
	return GetActiveDeliveriesQuery{driverID: driverID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetActiveDeliveriesQuery) DriverID() kernel.UUID { return q.driverID }

func (q GetActiveDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveDeliveriesQueryIsNotConstructed)
}

// GetActiveDeliveriesQueryResponse is one routable delivery. At least one of
// PickupCoordinates and DeliveryCoordinates is set.
type GetActiveDeliveriesQueryResponse struct {
	ID                  kernel.UUID
	BatchID             *kernel.UUID
	OrderNumber         string
	CustomerName        string
	CustomerPhone       string
	PickupAddress       string
	PickupCoordinates   *kernel.Coordinate
	DeliveryAddress     string
	DeliveryCoordinates *kernel.Coordinate
	RawStatus           string
}
