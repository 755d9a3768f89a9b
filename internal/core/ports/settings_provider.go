package ports

import (
	"context"

	"dispatch/internal/core/domain/model/routing"
)

// SettingsProvider reads the tenant capability settings that steer routing.
// Callers treat any error as "use routing.DefaultSettings".
type SettingsProvider interface {
	RoutingSettings(ctx context.Context) (routing.Settings, error)
}
