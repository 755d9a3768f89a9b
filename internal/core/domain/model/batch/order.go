package batch

import (
	"errors"
	"fmt"
	"slices"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrOrderIsNotConstructed is returned when an Order was not created through NewOrder.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

// Backend status strings written when a single delivery changes hands.
const (
	orderStatusAccepted = "accepted"
	orderStatusPending  = "pending"
)

// OrderParams carries the backend fields of an order. It is used both for new
// orders and for rebuilding orders read from the backend.
type OrderParams struct {
	ID                  kernel.UUID
	OrderNumber         string
	CustomerName        string
	CustomerPhone       string
	DeliveryAddress     string
	DeliveryCoordinates *kernel.Coordinate
	PickupAddress       string
	PickupCoordinates   *kernel.Coordinate
	Instructions        string
	Items               []Item
	Total               decimal.Decimal
	PaymentMethod       PaymentMethod
	Flags               PaymentFlags
	CODAmount           decimal.Decimal
	UseFranchiseNetwork bool
	RawStatus           string
	DriverID            *kernel.UUID
	DeclinedBy          []kernel.UUID
}

// Order is a single customer delivery. It is either part of a Batch or offered
// to drivers on its own, in which case it carries its own assignment state.
//
// Order keeps the backend's raw status string; Status maps it to the canonical
// vocabulary on every read so that unknown values degrade to Draft.
type Order struct {
	id                  kernel.UUID
	orderNumber         string
	customerName        string
	customerPhone       string
	deliveryAddress     string
	deliveryCoordinates *kernel.Coordinate
	pickupAddress       string
	pickupCoordinates   *kernel.Coordinate
	instructions        string
	items               []Item
	total               decimal.Decimal
	paymentMethod       PaymentMethod
	flags               PaymentFlags
	codAmount           decimal.Decimal
	useFranchiseNetwork bool
	rawStatus           string
	assignment          assignment

	isConstructed bool
}

// NewOrder validates p and builds an Order.
//
// Returns:
//   - *Order: the order
//   - error: joined validation errors (invalid id, negative amounts, empty item lines)
func NewOrder(p OrderParams) (*Order, error) {
	o := &Order{
		orderNumber:         p.OrderNumber,
		customerName:        p.CustomerName,
		customerPhone:       p.CustomerPhone,
		deliveryAddress:     p.DeliveryAddress,
		deliveryCoordinates: copyCoordinate(p.DeliveryCoordinates),
		pickupAddress:       p.PickupAddress,
		pickupCoordinates:   copyCoordinate(p.PickupCoordinates),
		instructions:        p.Instructions,
		paymentMethod:       p.PaymentMethod,
		flags:               p.Flags,
		useFranchiseNetwork: p.UseFranchiseNetwork,
		rawStatus:           p.RawStatus,
		isConstructed:       true,
	}

	assigned, assignErr := newAssignment(p.DriverID, p.DeclinedBy)
	o.assignment = assigned

	if err := errors.Join(
		o.setID(p.ID),
		o.setItems(p.Items),
		o.setAmounts(p.Total, p.CODAmount),
		assignErr,
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order was created through NewOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID { return o.id }
func (o *Order) OrderNumber() string { return o.orderNumber }
func (o *Order) CustomerName() string { return o.customerName }
func (o *Order) CustomerPhone() string { return o.customerPhone }
func (o *Order) DeliveryAddress() string { return o.deliveryAddress }
func (o *Order) PickupAddress() string { return o.pickupAddress }
func (o *Order) Instructions() string { return o.instructions }
func (o *Order) Total() decimal.Decimal { return o.total }
func (o *Order) PaymentMethod() PaymentMethod { return o.paymentMethod }
func (o *Order) Flags() PaymentFlags { return o.flags }
func (o *Order) CODAmount() decimal.Decimal { return o.codAmount }
func (o *Order) UsesFranchiseNetwork() bool { return o.useFranchiseNetwork }
func (o *Order) RawStatus() string { return o.rawStatus }
func (o *Order) Driver() *kernel.UUID { return o.assignment.driver() }
func (o *Order) Items() []Item { return slices.Clone(o.items) }
func (o *Order) DeclinedBy() []kernel.UUID { return slices.Clone(o.assignment.declinedBy) }

// DeliveryCoordinates returns a copy of the delivery coordinate, or nil when unknown.
func (o *Order) DeliveryCoordinates() *kernel.Coordinate {
	return copyCoordinate(o.deliveryCoordinates)
}

// PickupCoordinates returns a copy of the pickup coordinate, or nil when unknown.
func (o *Order) PickupCoordinates() *kernel.Coordinate {
	return copyCoordinate(o.pickupCoordinates)
}

// Status maps the raw backend status to the canonical vocabulary.
func (o *Order) Status() Status {
	return MapBackendStatus(o.rawStatus)
}

// ItemCount is the sum of item quantities.
func (o *Order) ItemCount() int {
	total := 0
	for _, it := range o.items {
		total += it.Quantity
	}
	return total
}

func (o *Order) IsAssignedTo(driverID kernel.UUID) bool {
	return o.assignment.isAssignedTo(driverID)
}

func (o *Order) HasDeclined(driverID kernel.UUID) bool {
	return o.assignment.hasDeclined(driverID)
}

// Accept assigns the delivery to driverID and marks it accepted.
//
// Returns ErrTerminalStatus for completed or cancelled deliveries and
// ErrAssignedToAnotherDriver when someone else already holds it.
func (o *Order) Accept(driverID kernel.UUID) error {
	if o.Status().IsTerminal() {
		return ErrTerminalStatus
	}
	if err := o.assignment.accept(driverID); err != nil {
		return err
	}
	o.rawStatus = orderStatusAccepted
	return nil
}

// Decline applies the decline rules for driverID. Releasing own work returns
// the delivery to the pending pool. Terminal deliveries stay as they are.
func (o *Order) Decline(driverID kernel.UUID) (DeclineOutcome, error) {
	if o.Status().IsTerminal() {
		return "", ErrTerminalStatus
	}
	outcome, err := o.assignment.decline(driverID)
	if err != nil {
		return "", err
	}
	if outcome == DeclineUnassigned {
		o.rawStatus = orderStatusPending
	}
	return outcome, nil
}

// ApplyStatus stores a backend-confirmed raw status.
// Once the delivery is terminal every further change is rejected.
func (o *Order) ApplyStatus(raw string) error {
	if o.Status().IsTerminal() {
		return ErrTerminalStatus
	}
	o.rawStatus = raw
	return nil
}

// ToStop projects the order into a navigation stop with the given sequence number.
func (o *Order) ToStop(sequence int) DeliveryStop {
	return DeliveryStop{
		OrderID:       o.id,
		Sequence:      sequence,
		Address:       o.deliveryAddress,
		Coordinates:   o.DeliveryCoordinates(),
		ContactName:   o.customerName,
		ContactPhone:  o.customerPhone,
		Instructions:  o.instructions,
		Items:         o.Items(),
		Total:         o.total,
		PaymentMethod: o.paymentMethod,
		Flags:         o.flags,
		CODAmount:     o.codAmount,
	}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("id", err)
	}
	o.id = id
	return nil
}

func (o *Order) setItems(items []Item) error {
	for i, it := range items {
		if it.Quantity < 1 {
			return errs.NewValueIsInvalidErrorWithCause(
				"items",
				fmt.Errorf("item %d (%s) has quantity %d", i, it.Name, it.Quantity),
			)
		}
		if it.UnitPrice.IsNegative() {
			return errs.NewValueIsInvalidErrorWithCause(
				"items",
				fmt.Errorf("item %d (%s) has negative price", i, it.Name),
			)
		}
	}
	o.items = slices.Clone(items)
	return nil
}

func (o *Order) setAmounts(total, cod decimal.Decimal) error {
	if total.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("total", fmt.Errorf("%s is negative", total))
	}
	if cod.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("cod_amount", fmt.Errorf("%s is negative", cod))
	}
	o.total = total
	o.codAmount = cod
	return nil
}

func copyCoordinate(c *kernel.Coordinate) *kernel.Coordinate {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}
