// Package batchrepo maps batches and their orders between the backend's
// batches/orders tables and the batch aggregate.
package batchrepo

import (
	"time"

	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// BatchDTO is a row of the backend batches table.
type BatchDTO struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey"`
	BatchNumber         string         `gorm:"size:64;uniqueIndex"`
	Name                string         `gorm:"size:255"`
	Status              string         `gorm:"size:64;index"`
	DriverID            *uuid.UUID     `gorm:"type:uuid;index"`
	DeclinedBy          pq.StringArray `gorm:"type:text[]"`
	Pickup              PickupDTO      `gorm:"embedded;embeddedPrefix:pickup_"`
	ScheduledDate       string         `gorm:"size:16"`
	ScheduledTime       string         `gorm:"size:16"`
	SmartRoutingEnabled bool
	Notes               string               `gorm:"type:text"`
	Orders              []orderrepo.OrderDTO `gorm:"foreignKey:BatchID"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (BatchDTO) TableName() string {
	return "batches"
}

// PickupDTO is the pickup location flattened into pickup_* columns.
type PickupDTO struct {
	Address      string                  `gorm:"size:512"`
	Coordinate   orderrepo.CoordinateDTO `gorm:"embedded"`
	ContactName  string                  `gorm:"size:255"`
	ContactPhone string                  `gorm:"size:32"`
	Instructions string                  `gorm:"type:text"`
}

// DeclineDTO records every decline of a batch together with its reason.
type DeclineDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	BatchID   uuid.UUID `gorm:"type:uuid;index"`
	DriverID  uuid.UUID `gorm:"type:uuid"`
	Reason    string    `gorm:"type:text"`
	CreatedAt time.Time
}

func (DeclineDTO) TableName() string {
	return "batch_declines"
}

func fromDomain(b *batch.Batch) BatchDTO {
	id := b.ID()
	orders := make([]orderrepo.OrderDTO, 0, b.TotalOrders())
	for i, o := range b.Orders() {
		orders = append(orders, orderrepo.FromDomain(o, &id, i))
	}

	pickup := b.Pickup()
	dto := BatchDTO{
		ID:          id.Bytes(),
		BatchNumber: b.BatchNumber(),
		Name:        b.Name(),
		Status:      b.RawStatus(),
		DeclinedBy:  orderrepo.DriverIDsToArray(b.DeclinedBy()),
		Pickup: PickupDTO{
			Address:      pickup.Address,
			Coordinate:   orderrepo.NewCoordinateDTO(pickup.Coordinates),
			ContactName:  pickup.ContactName,
			ContactPhone: pickup.ContactPhone,
			Instructions: pickup.Instructions,
		},
		SmartRoutingEnabled: b.SmartRoutingEnabled(),
		Notes:               b.Notes(),
		Orders:              orders,
	}
	if driver := b.Driver(); driver != nil {
		raw := driver.Bytes()
		dto.DriverID = &raw
	}
	if sp := b.ScheduledPickup(); sp != nil {
		dto.ScheduledDate = sp.Date
		dto.ScheduledTime = sp.Time
	}
	return dto
}

func toDomain(dto BatchDTO) (*batch.Batch, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := orderrepo.UUIDFromPtr(dto.DriverID)
	if err != nil {
		return nil, err
	}
	declinedBy, err := orderrepo.DriverIDsFromArray(dto.DeclinedBy)
	if err != nil {
		return nil, err
	}
	pickupCoordinates, err := dto.Pickup.Coordinate.ToDomain()
	if err != nil {
		return nil, err
	}

	orders := make([]*batch.Order, 0, len(dto.Orders))
	for _, od := range dto.Orders {
		o, err := orderrepo.ToDomain(od)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	var scheduled *batch.ScheduledPickup
	if dto.ScheduledDate != "" || dto.ScheduledTime != "" {
		scheduled = &batch.ScheduledPickup{Date: dto.ScheduledDate, Time: dto.ScheduledTime}
	}

	return batch.NewBatch(batch.Params{
		ID:          id,
		BatchNumber: dto.BatchNumber,
		Name:        dto.Name,
		RawStatus:   dto.Status,
		DriverID:    driverID,
		Pickup: batch.PickupLocation{
			Address:      dto.Pickup.Address,
			Coordinates:  pickupCoordinates,
			ContactName:  dto.Pickup.ContactName,
			ContactPhone: dto.Pickup.ContactPhone,
			Instructions: dto.Pickup.Instructions,
		},
		ScheduledPickup:     scheduled,
		SmartRoutingEnabled: dto.SmartRoutingEnabled,
		Notes:               dto.Notes,
		Orders:              orders,
		DeclinedBy:          declinedBy,
	})
}
