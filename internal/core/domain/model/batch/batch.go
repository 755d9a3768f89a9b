package batch

import (
	"errors"
	"slices"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrBatchIsNotConstructed is returned when a Batch was not created through NewBatch.
var ErrBatchIsNotConstructed = errors.New("Batch must be created via NewBatch constructor")

// Backend status strings written when a batch changes hands.
const (
	batchStatusDriverAssigned = "driver_assigned"
	batchStatusReadyForPickup = "ready_for_pickup"
)

// Params carries the backend fields of a batch.
type Params struct {
	ID                  kernel.UUID
	BatchNumber         string
	Name                string
	RawStatus           string
	DriverID            *kernel.UUID
	Pickup              PickupLocation
	ScheduledPickup     *ScheduledPickup
	SmartRoutingEnabled bool
	Notes               string
	Orders              []*Order
	DeclinedBy          []kernel.UUID
}

// Batch is a group of orders collected together from one pickup location.
//
// The backend owns batches. The engine holds a read-mostly projection that is
// only changed after the backend confirms a change (ConfirmStatus, Accept,
// Decline); a rejected request leaves the projection untouched.
//
// Invariants:
//   - valid identifier
//   - every order is a constructed Order
//   - no change is accepted once the status is terminal
type Batch struct {
	id                  kernel.UUID
	batchNumber         string
	name                string
	rawStatus           string
	pickup              PickupLocation
	scheduledPickup     *ScheduledPickup
	smartRoutingEnabled bool
	notes               string
	orders              []*Order
	assignment          assignment

	isConstructed bool
}

// NewBatch validates p and builds a Batch.
//
// Example:
//
//	b, err := batch.NewBatch(batch.Params{
//	    ID:                  kernel.NewUUID(),
//	    BatchNumber:         "B-2024-0042",
//	    RawStatus:           "ready_for_pickup",
//	    Pickup:              batch.PickupLocation{Address: "Al Quoz 3, Dubai", Coordinates: &pickup},
//	    SmartRoutingEnabled: true,
//	    Orders:              orders,
//	})
func NewBatch(p Params) (*Batch, error) {
	b := &Batch{
		batchNumber:         p.BatchNumber,
		name:                p.Name,
		rawStatus:           p.RawStatus,
		pickup:              p.Pickup,
		smartRoutingEnabled: p.SmartRoutingEnabled,
		notes:               p.Notes,
		isConstructed:       true,
	}
	if p.ScheduledPickup != nil {
		sp := *p.ScheduledPickup
		b.scheduledPickup = &sp
	}
	b.pickup.Coordinates = copyCoordinate(p.Pickup.Coordinates)

	assigned, assignErr := newAssignment(p.DriverID, p.DeclinedBy)
	b.assignment = assigned

	if err := errors.Join(
		b.setID(p.ID),
		b.setOrders(p.Orders),
		assignErr,
	); err != nil {
		return nil, err
	}

	return b, nil
}

// Validate ensures the Batch was created through NewBatch.
func (b *Batch) Validate() error {
	if b == nil || !b.isConstructed {
		return ErrBatchIsNotConstructed
	}
	return nil
}

func (b *Batch) ID() kernel.UUID { return b.id }
func (b *Batch) BatchNumber() string { return b.batchNumber }
func (b *Batch) Name() string { return b.name }
func (b *Batch) RawStatus() string { return b.rawStatus }
func (b *Batch) SmartRoutingEnabled() bool { return b.smartRoutingEnabled }
func (b *Batch) Notes() string { return b.notes }
func (b *Batch) Driver() *kernel.UUID { return b.assignment.driver() }
func (b *Batch) DeclinedBy() []kernel.UUID { return slices.Clone(b.assignment.declinedBy) }

// Pickup returns the pickup location; the coordinate pointer is a copy.
func (b *Batch) Pickup() PickupLocation {
	p := b.pickup
	p.Coordinates = copyCoordinate(b.pickup.Coordinates)
	return p
}

func (b *Batch) ScheduledPickup() *ScheduledPickup {
	if b.scheduledPickup == nil {
		return nil
	}
	sp := *b.scheduledPickup
	return &sp
}

// Orders returns the orders in backend order. The slice is a copy.
func (b *Batch) Orders() []*Order {
	return slices.Clone(b.orders)
}

// Status maps the raw backend status to the canonical vocabulary.
func (b *Batch) Status() Status {
	return MapBackendStatus(b.rawStatus)
}

func (b *Batch) TotalOrders() int {
	return len(b.orders)
}

// TotalItems sums item quantities across all orders.
func (b *Batch) TotalItems() int {
	total := 0
	for _, o := range b.orders {
		total += o.ItemCount()
	}
	return total
}

func (b *Batch) IsAssignedTo(driverID kernel.UUID) bool {
	return b.assignment.isAssignedTo(driverID)
}

func (b *Batch) HasDeclined(driverID kernel.UUID) bool {
	return b.assignment.hasDeclined(driverID)
}

// CanRequestStatusChange reports ErrTerminalStatus once the batch is completed
// or cancelled. Callers check it before issuing a status request to the backend.
func (b *Batch) CanRequestStatusChange() error {
	if b.Status().IsTerminal() {
		return ErrTerminalStatus
	}
	return nil
}

// ConfirmStatus applies a status the backend has confirmed.
// Re-confirming the current terminal status is a no-op; moving away from a
// terminal status is rejected.
func (b *Batch) ConfirmStatus(raw string) error {
	current := b.Status()
	if current.IsTerminal() {
		if MapBackendStatus(raw) == current {
			return nil
		}
		return ErrTerminalStatus
	}
	b.rawStatus = raw
	return nil
}

// Accept assigns the batch to driverID and moves it to driver_assigned.
func (b *Batch) Accept(driverID kernel.UUID) error {
	if err := b.CanRequestStatusChange(); err != nil {
		return err
	}
	if err := b.assignment.accept(driverID); err != nil {
		return err
	}
	b.rawStatus = batchStatusDriverAssigned
	return nil
}

// Decline applies the decline rules for driverID. A driver releasing their own
// batch puts it back to ready_for_pickup. Completed or cancelled batches
// reject every decline with ErrTerminalStatus.
func (b *Batch) Decline(driverID kernel.UUID) (DeclineOutcome, error) {
	if err := b.CanRequestStatusChange(); err != nil {
		return "", err
	}
	outcome, err := b.assignment.decline(driverID)
	if err != nil {
		return "", err
	}
	if outcome == DeclineUnassigned {
		b.rawStatus = batchStatusReadyForPickup
	}
	return outcome, nil
}

func (b *Batch) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("id", err)
	}
	b.id = id
	return nil
}

func (b *Batch) setOrders(orders []*Order) error {
	for _, o := range orders {
		if err := o.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause("orders", err)
		}
	}
	b.orders = slices.Clone(orders)
	return nil
}
