// Package orderrepo maps single deliveries between the backend's orders
// table and the batch.Order domain type.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// OrderDTO is a row of the backend orders table. Status holds the raw
// backend string, never the canonical status.
type OrderDTO struct {
	ID                     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BatchID                *uuid.UUID      `gorm:"type:uuid;index"`
	Position               int             `gorm:"not null;default:0"`
	OrderNumber            string          `gorm:"size:64;index"`
	CustomerName           string          `gorm:"size:255"`
	CustomerPhone          string          `gorm:"size:32"`
	DeliveryAddress        string          `gorm:"size:512"`
	Delivery               CoordinateDTO   `gorm:"embedded;embeddedPrefix:delivery_"`
	PickupAddress          string          `gorm:"size:512"`
	Pickup                 CoordinateDTO   `gorm:"embedded;embeddedPrefix:pickup_"`
	Instructions           string          `gorm:"type:text"`
	Items                  []ItemDTO       `gorm:"type:jsonb;serializer:json"`
	Total                  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	PaymentMethod          string          `gorm:"size:32"`
	RequiresSignature      bool
	RequiresIDVerification bool `gorm:"column:requires_id_verification"`
	CashOnDelivery         bool
	CODAmount              decimal.Decimal `gorm:"column:cod_amount;type:numeric(12,2);not null;default:0"`
	UseFranchiseNetwork    bool
	Status                 string         `gorm:"size:64;index"`
	DriverID               *uuid.UUID     `gorm:"type:uuid;index"`
	DeclinedBy             pq.StringArray `gorm:"type:text[]"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (OrderDTO) TableName() string {
	return "orders"
}

// CoordinateDTO stores an optional coordinate as two nullable columns.
type CoordinateDTO struct {
	Latitude  *float64
	Longitude *float64
}

// ItemDTO is one element of the items JSON column.
type ItemDTO struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// DeclineDTO records every decline of a single delivery.
type DeclineDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index"`
	DriverID  uuid.UUID `gorm:"type:uuid"`
	Reason    string    `gorm:"type:text"`
	CreatedAt time.Time
}

func (DeclineDTO) TableName() string {
	return "order_declines"
}

// NewCoordinateDTO flattens an optional coordinate.
func NewCoordinateDTO(c *kernel.Coordinate) CoordinateDTO {
	if c == nil {
		return CoordinateDTO{}
	}
	lat, lng := c.Latitude(), c.Longitude()
	return CoordinateDTO{Latitude: &lat, Longitude: &lng}
}

// ToDomain returns nil when either column is null.
func (d CoordinateDTO) ToDomain() (*kernel.Coordinate, error) {
	if d.Latitude == nil || d.Longitude == nil {
		return nil, nil
	}
	c, err := kernel.NewCoordinate(*d.Latitude, *d.Longitude)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FromDomain maps an order; batchID and position place it inside its batch.
func FromDomain(o *batch.Order, batchID *kernel.UUID, position int) OrderDTO {
	items := make([]ItemDTO, 0, len(o.Items()))
	for _, it := range o.Items() {
		items = append(items, ItemDTO{Name: it.Name, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}

	flags := o.Flags()
	return OrderDTO{
		ID:                     o.ID().Bytes(),
		BatchID:                uuidPtr(batchID),
		Position:               position,
		OrderNumber:            o.OrderNumber(),
		CustomerName:           o.CustomerName(),
		CustomerPhone:          o.CustomerPhone(),
		DeliveryAddress:        o.DeliveryAddress(),
		Delivery:               NewCoordinateDTO(o.DeliveryCoordinates()),
		PickupAddress:          o.PickupAddress(),
		Pickup:                 NewCoordinateDTO(o.PickupCoordinates()),
		Instructions:           o.Instructions(),
		Items:                  items,
		Total:                  o.Total(),
		PaymentMethod:          string(o.PaymentMethod()),
		RequiresSignature:      flags.RequiresSignature,
		RequiresIDVerification: flags.RequiresIDVerification,
		CashOnDelivery:         flags.CashOnDelivery,
		CODAmount:              o.CODAmount(),
		UseFranchiseNetwork:    o.UsesFranchiseNetwork(),
		Status:                 o.RawStatus(),
		DriverID:               uuidPtr(o.Driver()),
		DeclinedBy:             DriverIDsToArray(o.DeclinedBy()),
	}
}

// ToDomain rebuilds an order from its row.
func ToDomain(dto OrderDTO) (*batch.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	delivery, err := dto.Delivery.ToDomain()
	if err != nil {
		return nil, err
	}
	pickup, err := dto.Pickup.ToDomain()
	if err != nil {
		return nil, err
	}
	driverID, err := UUIDFromPtr(dto.DriverID)
	if err != nil {
		return nil, err
	}
	declinedBy, err := DriverIDsFromArray(dto.DeclinedBy)
	if err != nil {
		return nil, err
	}

	items := make([]batch.Item, 0, len(dto.Items))
	for _, it := range dto.Items {
		items = append(items, batch.Item{Name: it.Name, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}

	return batch.NewOrder(batch.OrderParams{
		ID:                  id,
		OrderNumber:         dto.OrderNumber,
		CustomerName:        dto.CustomerName,
		CustomerPhone:       dto.CustomerPhone,
		DeliveryAddress:     dto.DeliveryAddress,
		DeliveryCoordinates: delivery,
		PickupAddress:       dto.PickupAddress,
		PickupCoordinates:   pickup,
		Instructions:        dto.Instructions,
		Items:               items,
		Total:               dto.Total,
		PaymentMethod:       batch.PaymentMethod(dto.PaymentMethod),
		Flags: batch.PaymentFlags{
			RequiresSignature:      dto.RequiresSignature,
			RequiresIDVerification: dto.RequiresIDVerification,
			CashOnDelivery:         dto.CashOnDelivery,
		},
		CODAmount:           dto.CODAmount,
		UseFranchiseNetwork: dto.UseFranchiseNetwork,
		RawStatus:           dto.Status,
		DriverID:            driverID,
		DeclinedBy:          declinedBy,
	})
}

// DriverIDsToArray stores driver ids in a text[] column.
func DriverIDsToArray(ids []kernel.UUID) pq.StringArray {
	out := make(pq.StringArray, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

// DriverIDsFromArray parses a text[] column of driver ids.
func DriverIDsFromArray(values pq.StringArray) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(values))
	for _, v := range values {
		id, err := kernel.UUIDFromString(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// UUIDFromPtr converts a nullable uuid column.
func UUIDFromPtr(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func uuidPtr(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}
