package queries

import (
	"context"
	"database/sql"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetActiveDeliveriesQueryHandler struct {
	db *gorm.DB
}

func NewGetActiveDeliveriesQueryHandler(db *gorm.DB) GetActiveDeliveriesQueryHandler {
	return GetActiveDeliveriesQueryHandler{db: db}
}

// Handle returns the driver's deliveries in an active status that carry a
// pickup or delivery coordinate, oldest first.
func (h GetActiveDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetActiveDeliveriesQuery,
) ([]GetActiveDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	deliveries := make([]GetActiveDeliveriesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			batch_id,
			order_number,
			customer_name,
			customer_phone,
			pickup_address,
			pickup_latitude,
			pickup_longitude,
			delivery_address,
			delivery_latitude,
			delivery_longitude,
			status
		FROM orders
		WHERE driver_id = ?
			AND status IN ?
			AND (
				(pickup_latitude IS NOT NULL AND pickup_longitude IS NOT NULL)
				OR (delivery_latitude IS NOT NULL AND delivery_longitude IS NOT NULL)
			)
		ORDER BY created_at, id
	`, query.DriverID().Bytes(), ActiveDeliveryStatuses).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			d                    GetActiveDeliveriesQueryResponse
			id                   uuid.UUID
			batchID              uuid.NullUUID
			pickupLat, pickupLng sql.NullFloat64
			dropLat, dropLng     sql.NullFloat64
		)

		err = rows.Scan(
			&id,
			&batchID,
			&d.OrderNumber,
			&d.CustomerName,
			&d.CustomerPhone,
			&d.PickupAddress,
			&pickupLat,
			&pickupLng,
			&d.DeliveryAddress,
			&dropLat,
			&dropLng,
			&d.RawStatus,
		)
		if err != nil {
			return nil, err
		}

		if d.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if d.BatchID, err = nullableUUID(batchID); err != nil {
			return nil, err
		}
		if d.PickupCoordinates, err = nullableCoordinate(pickupLat, pickupLng); err != nil {
			return nil, err
		}
		if d.DeliveryCoordinates, err = nullableCoordinate(dropLat, dropLng); err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return deliveries, nil
}
