// Package settingsrepo reads tenant capability settings from the backend's
// key/value settings table.
package settingsrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/routing"

	"gorm.io/gorm"
)

// Setting keys consulted for routing.
const (
	KeyConsolidateToWarehouse      = "consolidate_to_warehouse"
	KeyTenantWarehouseCapabilities = "tenant_warehouse_capabilities"
)

// SettingDTO is a row of the backend settings table. Value is raw JSON.
type SettingDTO struct {
	Key       string `gorm:"primaryKey;size:128"`
	Value     []byte `gorm:"type:jsonb"`
	UpdatedAt time.Time
}

func (SettingDTO) TableName() string {
	return "settings"
}

type warehouseCapabilities struct {
	HasWarehouse bool `json:"has_warehouse"`
	Warehouse    *struct {
		Address   string   `json:"address"`
		Latitude  *float64 `json:"latitude"`
		Longitude *float64 `json:"longitude"`
	} `json:"warehouse"`
}

// GormSettingsProvider implements ports.SettingsProvider.
type GormSettingsProvider struct {
	db *gorm.DB
}

func NewGormSettingsProvider(db *gorm.DB) *GormSettingsProvider {
	return &GormSettingsProvider{db: db}
}

// RoutingSettings starts from routing.DefaultSettings and overrides every key
// that is present. A present but malformed value is an error.
func (p *GormSettingsProvider) RoutingSettings(ctx context.Context) (routing.Settings, error) {
	var rows []SettingDTO
	err := p.db.WithContext(ctx).
		Where("key IN ?", []string{KeyConsolidateToWarehouse, KeyTenantWarehouseCapabilities}).
		Find(&rows).Error
	if err != nil {
		return routing.Settings{}, err
	}

	settings := routing.DefaultSettings()
	for _, row := range rows {
		switch row.Key {
		case KeyConsolidateToWarehouse:
			if err := json.Unmarshal(row.Value, &settings.ConsolidateToWarehouse); err != nil {
				return routing.Settings{}, fmt.Errorf("setting %s: %w", row.Key, err)
			}
		case KeyTenantWarehouseCapabilities:
			if err := applyCapabilities(&settings, row.Value); err != nil {
				return routing.Settings{}, fmt.Errorf("setting %s: %w", row.Key, err)
			}
		}
	}
	return settings, nil
}

// Set upserts a single setting. The backend owns settings; Set serves
// seeding and tests.
func (p *GormSettingsProvider) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return p.db.WithContext(ctx).Save(&SettingDTO{Key: key, Value: raw}).Error
}

func applyCapabilities(settings *routing.Settings, raw []byte) error {
	var caps warehouseCapabilities
	if err := json.Unmarshal(raw, &caps); err != nil {
		return err
	}

	settings.TenantHasWarehouse = caps.HasWarehouse
	if caps.Warehouse == nil {
		return nil
	}

	location := &routing.WarehouseLocation{Address: caps.Warehouse.Address}
	if caps.Warehouse.Latitude != nil && caps.Warehouse.Longitude != nil {
		c, err := kernel.NewCoordinate(*caps.Warehouse.Latitude, *caps.Warehouse.Longitude)
		if err != nil {
			return err
		}
		location.Coordinates = &c
	}
	settings.TenantWarehouse = location
	return nil
}
