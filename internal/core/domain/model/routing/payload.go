package routing

import (
	"time"

	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"
)

// Waypoint is a single non-customer stop (pickup, warehouse).
type Waypoint struct {
	Address      string             `json:"address"`
	Coordinates  *kernel.Coordinate `json:"coordinates,omitempty"`
	ContactName  string             `json:"contact_name,omitempty"`
	ContactPhone string             `json:"contact_phone,omitempty"`
	Instructions string             `json:"instructions,omitempty"`
}

// NavigationPayload is what the navigation UI renders for an accepted batch.
// BatchType and Phase tell it which leg the driver is on.
type NavigationPayload struct {
	BatchID               kernel.UUID          `json:"batch_id"`
	BatchNumber           string               `json:"batch_number"`
	BatchType             string               `json:"batch_type"`
	Phase                 int                  `json:"phase"`
	TotalPhases           int                  `json:"total_phases"`
	Instruction           string               `json:"instruction"`
	StartPoint            Waypoint             `json:"start_point"`
	Destination           *Waypoint            `json:"destination,omitempty"`
	DeliveryPoints        []batch.DeliveryStop `json:"delivery_points"`
	TotalOrders           int                  `json:"total_orders"`
	TotalItems            int                  `json:"total_items"`
	SmartRoutingEnabled   bool                 `json:"smart_routing_enabled"`
	IsWarehouseBatch      bool                 `json:"is_warehouse_batch"`
	UsesFranchiseNetwork  bool                 `json:"uses_franchise_network"`
	RequiresHubCollection bool                 `json:"requires_hub_collection"`
	AssignedHub           *Hub                 `json:"assigned_hub,omitempty"`
	DestinationHubs       []DestinationHub     `json:"destination_hubs,omitempty"`
	Fallback              bool                 `json:"fallback"`
	GeneratedAt           time.Time            `json:"generated_at"`
}
