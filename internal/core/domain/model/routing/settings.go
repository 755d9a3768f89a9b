package routing

import "dispatch/internal/core/domain/model/kernel"

// WarehouseLocation is the tenant's own warehouse.
type WarehouseLocation struct {
	Address     string             `json:"address"`
	Coordinates *kernel.Coordinate `json:"coordinates,omitempty"`
}

// Settings are the local capability settings that steer classification.
// They are passed in per call so every branch can be exercised without a store.
type Settings struct {
	// ConsolidateToWarehouse mirrors consolidate_to_warehouse.
	ConsolidateToWarehouse bool
	// TenantHasWarehouse mirrors tenant_warehouse_capabilities.has_warehouse.
	TenantHasWarehouse bool
	// TenantWarehouse is optional; without it the payload destination carries no address.
	TenantWarehouse *WarehouseLocation
}

// DefaultSettings are used whenever the settings store cannot be read.
func DefaultSettings() Settings {
	return Settings{
		ConsolidateToWarehouse: true,
		TenantHasWarehouse:     false,
	}
}
