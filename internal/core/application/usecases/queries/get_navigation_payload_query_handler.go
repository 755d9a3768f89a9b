package queries

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/application/usecases"
	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/routing"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

type (
	// BatchReader loads a batch aggregate outside any transaction.
	BatchReader interface {
		Get(ctx context.Context, id kernel.UUID) (*batch.Batch, error)
	}

	// Router builds a navigation payload; it never fails.
	Router interface {
		Route(ctx context.Context, b *batch.Batch, settings routing.Settings) routing.NavigationPayload
	}
)

// GetNavigationPayloadQueryHandler serves the payload stored when the batch
// was accepted. When nothing was stored (the post-accept routing step failed
// or the batch was accepted elsewhere) it computes one on the fly without
// storing it.
type GetNavigationPayloadQueryHandler struct {
	payloads ports.NavigationPayloadRepository
	batches  BatchReader
	router   Router
	settings ports.SettingsProvider
	logger   *slog.Logger
}

func NewGetNavigationPayloadQueryHandler(
	payloads ports.NavigationPayloadRepository,
	batches BatchReader,
	router Router,
	settings ports.SettingsProvider,
	logger *slog.Logger,
) GetNavigationPayloadQueryHandler {
	return GetNavigationPayloadQueryHandler{
		payloads: payloads,
		batches:  batches,
		router:   router,
		settings: settings,
		logger:   logger.With("component", "get_navigation_payload_query"),
	}
}

func (h GetNavigationPayloadQueryHandler) Handle(
	ctx context.Context,
	query GetNavigationPayloadQuery,
) (routing.NavigationPayload, error) {
	if err := query.Validate(); err != nil {
		return routing.NavigationPayload{}, err
	}

	stored, err := h.payloads.Get(ctx, query.BatchID())
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		h.logger.WarnContext(ctx, "Stored navigation payload unreadable, recomputing",
			"batch_id", query.BatchID().String(), "error", err)
	}

	b, err := h.batches.Get(ctx, query.BatchID())
	if err != nil {
		return routing.NavigationPayload{}, err
	}

	settings := usecases.RoutingSettings(ctx, h.settings, h.logger)
	return h.router.Route(ctx, b, settings), nil
}
