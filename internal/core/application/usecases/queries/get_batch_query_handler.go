package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetBatchQueryResponse is the batch as shown to the driver before and after acceptance.
type GetBatchQueryResponse struct {
	ID                  kernel.UUID
	BatchNumber         string
	Name                string
	Status              batch.Status
	RawStatus           string
	DriverID            *kernel.UUID
	Pickup              batch.PickupLocation
	ScheduledPickup     *batch.ScheduledPickup
	SmartRoutingEnabled bool
	Notes               string
	Orders              []BatchOrderResponse
	TotalItems          int
}

// BatchOrderResponse is one order line of GetBatchQueryResponse, in backend order.
type BatchOrderResponse struct {
	ID                  kernel.UUID
	OrderNumber         string
	CustomerName        string
	CustomerPhone       string
	DeliveryAddress     string
	DeliveryCoordinates *kernel.Coordinate
	Instructions        string
	ItemCount           int
	Total               decimal.Decimal
	PaymentMethod       string
	CashOnDelivery      bool
	CODAmount           decimal.Decimal
	Status              batch.Status
	RawStatus           string
}

type GetBatchQueryHandler struct {
	db *gorm.DB
}

func NewGetBatchQueryHandler(db *gorm.DB) GetBatchQueryHandler {
	return GetBatchQueryHandler{db: db}
}

// Handle returns errs.ErrObjectNotFound for an unknown batch.
func (h GetBatchQueryHandler) Handle(ctx context.Context, query GetBatchQuery) (GetBatchQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetBatchQueryResponse{}, err
	}

	resp, err := h.readBatch(ctx, query.BatchID())
	if err != nil {
		return GetBatchQueryResponse{}, err
	}

	orders, err := h.readOrders(ctx, query.BatchID())
	if err != nil {
		return GetBatchQueryResponse{}, err
	}
	resp.Orders = orders
	for _, o := range orders {
		resp.TotalItems += o.ItemCount
	}

	return resp, nil
}

func (h GetBatchQueryHandler) readBatch(ctx context.Context, batchID kernel.UUID) (GetBatchQueryResponse, error) {
	var (
		resp           GetBatchQueryResponse
		id             uuid.UUID
		driverID       uuid.NullUUID
		pickupLat      sql.NullFloat64
		pickupLng      sql.NullFloat64
		scheduledDate  string
		scheduledTime  string
		pickupInstruct sql.NullString
		notes          sql.NullString
	)

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			batch_number,
			name,
			status,
			driver_id,
			pickup_address,
			pickup_latitude,
			pickup_longitude,
			pickup_contact_name,
			pickup_contact_phone,
			pickup_instructions,
			scheduled_date,
			scheduled_time,
			smart_routing_enabled,
			notes
		FROM batches
		WHERE id = ?
	`, batchID.Bytes()).Row()

	err := row.Scan(
		&id,
		&resp.BatchNumber,
		&resp.Name,
		&resp.RawStatus,
		&driverID,
		&resp.Pickup.Address,
		&pickupLat,
		&pickupLng,
		&resp.Pickup.ContactName,
		&resp.Pickup.ContactPhone,
		&pickupInstruct,
		&scheduledDate,
		&scheduledTime,
		&resp.SmartRoutingEnabled,
		&notes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetBatchQueryResponse{}, errs.NewObjectNotFoundError("batch", batchID.String())
		}
		return GetBatchQueryResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetBatchQueryResponse{}, err
	}
	if resp.DriverID, err = nullableUUID(driverID); err != nil {
		return GetBatchQueryResponse{}, err
	}
	if resp.Pickup.Coordinates, err = nullableCoordinate(pickupLat, pickupLng); err != nil {
		return GetBatchQueryResponse{}, err
	}
	if scheduledDate != "" || scheduledTime != "" {
		resp.ScheduledPickup = &batch.ScheduledPickup{Date: scheduledDate, Time: scheduledTime}
	}
	resp.Pickup.Instructions = pickupInstruct.String
	resp.Notes = notes.String
	resp.Status = batch.MapBackendStatus(resp.RawStatus)

	return resp, nil
}

func (h GetBatchQueryHandler) readOrders(ctx context.Context, batchID kernel.UUID) ([]BatchOrderResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			customer_name,
			customer_phone,
			delivery_address,
			delivery_latitude,
			delivery_longitude,
			instructions,
			items,
			total,
			payment_method,
			cash_on_delivery,
			cod_amount,
			status
		FROM orders
		WHERE batch_id = ?
		ORDER BY position, id
	`, batchID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]BatchOrderResponse, 0)
	for rows.Next() {
		var (
			o            BatchOrderResponse
			id           uuid.UUID
			lat, lng     sql.NullFloat64
			instructions sql.NullString
			items        []byte
		)

		err = rows.Scan(
			&id,
			&o.OrderNumber,
			&o.CustomerName,
			&o.CustomerPhone,
			&o.DeliveryAddress,
			&lat,
			&lng,
			&instructions,
			&items,
			&o.Total,
			&o.PaymentMethod,
			&o.CashOnDelivery,
			&o.CODAmount,
			&o.RawStatus,
		)
		if err != nil {
			return nil, err
		}

		if o.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if o.DeliveryCoordinates, err = nullableCoordinate(lat, lng); err != nil {
			return nil, err
		}
		if o.ItemCount, err = itemCount(items); err != nil {
			return nil, err
		}
		o.Instructions = instructions.String
		o.Status = batch.MapBackendStatus(o.RawStatus)
		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func itemCount(raw []byte) (int, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	var items []struct {
		Quantity int `json:"quantity"`
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return 0, err
	}
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total, nil
}

func nullableUUID(id uuid.NullUUID) (*kernel.UUID, error) {
	if !id.Valid {
		return nil, nil
	}
	parsed, err := kernel.UUIDFromBytes(id.UUID[:])
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func nullableCoordinate(lat, lng sql.NullFloat64) (*kernel.Coordinate, error) {
	if !lat.Valid || !lng.Valid {
		return nil, nil
	}
	c, err := kernel.NewCoordinate(lat.Float64, lng.Float64)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
