package http

import (
	"time"

	"dispatch/internal/core/application/negotiation"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"

	"github.com/shopspring/decimal"
)

type StatusRequest struct {
	Status string `json:"status"`
}

type DeclineRequest struct {
	Reason string `json:"reason"`
}

type PresentOfferRequest struct {
	SubjectID      kernel.UUID `json:"subject_id"`
	Kind           offer.Kind  `json:"kind"`
	TimeoutSeconds int         `json:"timeout_seconds"`
	PresentedAt    *time.Time  `json:"presented_at"`
}

type StatusResponse struct {
	Success   bool   `json:"success"`
	Status    string `json:"status"`
	RawStatus string `json:"raw_status"`
}

type BatchResponse struct {
	ID                  kernel.UUID            `json:"id"`
	BatchNumber         string                 `json:"batch_number"`
	Name                string                 `json:"name"`
	Status              string                 `json:"status"`
	RawStatus           string                 `json:"raw_status"`
	DriverID            *kernel.UUID           `json:"driver_id,omitempty"`
	Pickup              batch.PickupLocation   `json:"pickup"`
	ScheduledPickup     *batch.ScheduledPickup `json:"scheduled_pickup,omitempty"`
	SmartRoutingEnabled bool                   `json:"smart_routing_enabled"`
	Notes               string                 `json:"notes,omitempty"`
	Orders              []BatchOrderResponse   `json:"orders"`
	TotalItems          int                    `json:"total_items"`
}

type BatchOrderResponse struct {
	ID                  kernel.UUID        `json:"id"`
	OrderNumber         string             `json:"order_number"`
	CustomerName        string             `json:"customer_name"`
	CustomerPhone       string             `json:"customer_phone"`
	DeliveryAddress     string             `json:"delivery_address"`
	DeliveryCoordinates *kernel.Coordinate `json:"delivery_coordinates,omitempty"`
	Instructions        string             `json:"instructions,omitempty"`
	ItemCount           int                `json:"item_count"`
	Total               decimal.Decimal    `json:"total"`
	PaymentMethod       string             `json:"payment_method"`
	CashOnDelivery      bool               `json:"cash_on_delivery"`
	CODAmount           decimal.Decimal    `json:"cod_amount"`
	Status              string             `json:"status"`
	RawStatus           string             `json:"raw_status"`
}

type ActiveDeliveryResponse struct {
	ID                  kernel.UUID        `json:"id"`
	BatchID             *kernel.UUID       `json:"batch_id,omitempty"`
	OrderNumber         string             `json:"order_number"`
	CustomerName        string             `json:"customer_name"`
	CustomerPhone       string             `json:"customer_phone"`
	PickupAddress       string             `json:"pickup_address"`
	PickupCoordinates   *kernel.Coordinate `json:"pickup_coordinates,omitempty"`
	DeliveryAddress     string             `json:"delivery_address"`
	DeliveryCoordinates *kernel.Coordinate `json:"delivery_coordinates,omitempty"`
	Status              string             `json:"status"`
	RawStatus           string             `json:"raw_status"`
}

type OfferResponse struct {
	OfferID          kernel.UUID `json:"offer_id"`
	SubjectID        kernel.UUID `json:"subject_id"`
	Kind             offer.Kind  `json:"kind"`
	DriverID         kernel.UUID `json:"driver_id"`
	State            offer.State `json:"state"`
	PresentedAt      time.Time   `json:"presented_at"`
	RemainingSeconds int         `json:"remaining_seconds"`
	TotalSeconds     int         `json:"total_seconds"`
	Progress         float64     `json:"progress"`
}

// OfferActionResponse carries the offer even when the backend refused the
// answer, since the local outcome stands either way.
type OfferActionResponse struct {
	Success bool          `json:"success"`
	Offer   OfferResponse `json:"offer"`
	Error   string        `json:"error,omitempty"`
}

func newBatchResponse(r queries.GetBatchQueryResponse) BatchResponse {
	orders := make([]BatchOrderResponse, len(r.Orders))
	for i, o := range r.Orders {
		orders[i] = BatchOrderResponse{
			ID:                  o.ID,
			OrderNumber:         o.OrderNumber,
			CustomerName:        o.CustomerName,
			CustomerPhone:       o.CustomerPhone,
			DeliveryAddress:     o.DeliveryAddress,
			DeliveryCoordinates: o.DeliveryCoordinates,
			Instructions:        o.Instructions,
			ItemCount:           o.ItemCount,
			Total:               o.Total,
			PaymentMethod:       o.PaymentMethod,
			CashOnDelivery:      o.CashOnDelivery,
			CODAmount:           o.CODAmount,
			Status:              o.Status.String(),
			RawStatus:           o.RawStatus,
		}
	}

	return BatchResponse{
		ID:                  r.ID,
		BatchNumber:         r.BatchNumber,
		Name:                r.Name,
		Status:              r.Status.String(),
		RawStatus:           r.RawStatus,
		DriverID:            r.DriverID,
		Pickup:              r.Pickup,
		ScheduledPickup:     r.ScheduledPickup,
		SmartRoutingEnabled: r.SmartRoutingEnabled,
		Notes:               r.Notes,
		Orders:              orders,
		TotalItems:          r.TotalItems,
	}
}

func newActiveDeliveryResponse(d queries.GetActiveDeliveriesQueryResponse) ActiveDeliveryResponse {
	return ActiveDeliveryResponse{
		ID:                  d.ID,
		BatchID:             d.BatchID,
		OrderNumber:         d.OrderNumber,
		CustomerName:        d.CustomerName,
		CustomerPhone:       d.CustomerPhone,
		PickupAddress:       d.PickupAddress,
		PickupCoordinates:   d.PickupCoordinates,
		DeliveryAddress:     d.DeliveryAddress,
		DeliveryCoordinates: d.DeliveryCoordinates,
		Status:              batch.MapBackendStatus(d.RawStatus).String(),
		RawStatus:           d.RawStatus,
	}
}

func newOfferResponse(s negotiation.Snapshot) OfferResponse {
	return OfferResponse{
		OfferID:          s.OfferID,
		SubjectID:        s.SubjectID,
		Kind:             s.Kind,
		DriverID:         s.DriverID,
		State:            s.State,
		PresentedAt:      s.PresentedAt,
		RemainingSeconds: s.RemainingSeconds,
		TotalSeconds:     s.TotalSeconds,
		Progress:         s.Progress,
	}
}
