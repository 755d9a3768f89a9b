// Package usecases holds helpers shared by the command and query handlers.
package usecases

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/routing"
	"dispatch/internal/core/ports"
)

// RoutingSettings reads tenant settings and falls back to
// routing.DefaultSettings when they cannot be read.
func RoutingSettings(ctx context.Context, provider ports.SettingsProvider, logger *slog.Logger) routing.Settings {
	if provider == nil {
		return routing.DefaultSettings()
	}

	settings, err := provider.RoutingSettings(ctx)
	if err != nil {
		logger.WarnContext(ctx, "Routing settings unavailable, using defaults", "error", err)
		return routing.DefaultSettings()
	}
	return settings
}
