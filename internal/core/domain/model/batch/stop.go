package batch

import (
	"dispatch/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// PaymentMethod is the backend payment method tag, e.g. "cash" or "card".
type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"
	PaymentCard    PaymentMethod = "card"
	PaymentPrepaid PaymentMethod = "prepaid"
)

// PaymentFlags are the per-stop handling requirements shown to the driver.
type PaymentFlags struct {
	RequiresSignature      bool `json:"requires_signature"`
	RequiresIDVerification bool `json:"requires_id_verification"`
	CashOnDelivery         bool `json:"cash_on_delivery"`
}

// Item is one order line.
type Item struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// DeliveryStop is one delivery point of a navigation payload. Stops are
// created per classification run and are not modified once a payload is built.
type DeliveryStop struct {
	OrderID       kernel.UUID        `json:"id"`
	Sequence      int                `json:"sequence"`
	Address       string             `json:"address"`
	Coordinates   *kernel.Coordinate `json:"coordinates,omitempty"`
	ContactName   string             `json:"contact_name"`
	ContactPhone  string             `json:"contact_phone"`
	Instructions  string             `json:"instructions,omitempty"`
	Items         []Item             `json:"items"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod PaymentMethod      `json:"payment_method"`
	Flags         PaymentFlags       `json:"flags"`
	CODAmount     decimal.Decimal    `json:"cod_amount"`
}

// StopsFromOrders builds one stop per order in the given order, numbering them from 1.
func StopsFromOrders(orders []*Order) []DeliveryStop {
	stops := make([]DeliveryStop, 0, len(orders))
	for i, o := range orders {
		stops = append(stops, o.ToStop(i+1))
	}
	return stops
}
