package commands

import (
	"context"
	"fmt"
	"log/slog"

	"dispatch/internal/core/application/usecases"
	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/routing"
	"dispatch/internal/core/ports"
)

// Router builds the navigation payload for an accepted batch. It never fails;
// problems degrade to a fallback payload.
type Router interface {
	Route(ctx context.Context, b *batch.Batch, settings routing.Settings) routing.NavigationPayload
}

// AcceptBatchCommandHandler accepts a batch for a driver and then prepares
// its navigation payload.
//
// The two steps are separate failure domains: once the acceptance is
// committed, nothing in payload routing or storage can fail the command.
//
// Example:
//
//	handler := NewAcceptBatchCommandHandler(batchUoWs, navigationUoWs, selector, settings, logger)
//	err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, batch.ErrAssignedToAnotherDriver):
//	    // someone else was faster
//	case errors.Is(err, batch.ErrTerminalStatus):
//	    // batch was completed or cancelled meanwhile
//	}
type AcceptBatchCommandHandler struct {
	batchUoWs      BatchUoWFactory
	navigationUoWs NavigationUoWFactory
	router         Router
	settings       ports.SettingsProvider
	logger         *slog.Logger
}

func NewAcceptBatchCommandHandler(
	batchUoWs BatchUoWFactory,
	navigationUoWs NavigationUoWFactory,
	router Router,
	settings ports.SettingsProvider,
	logger *slog.Logger,
) AcceptBatchCommandHandler {
	return AcceptBatchCommandHandler{
		batchUoWs:      batchUoWs,
		navigationUoWs: navigationUoWs,
		router:         router,
		settings:       settings,
		logger:         logger.With("component", "accept_batch_handler"),
	}
}

// Handle accepts the batch. The returned error only ever concerns the
// acceptance itself.
func (h AcceptBatchCommandHandler) Handle(ctx context.Context, command AcceptBatchCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	accepted, err := h.accept(ctx, command)
	if err != nil {
		return err
	}

	h.storeNavigation(ctx, accepted)
	return nil
}

func (h AcceptBatchCommandHandler) accept(ctx context.Context, command AcceptBatchCommand) (*batch.Batch, error) {
	uow := h.batchUoWs.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.BatchRepository()

	b, err := repo.GetForUpdate(ctx, command.BatchID())
	if err != nil {
		return nil, err
	}

	if err = b.Accept(command.DriverID()); err != nil {
		return nil, err
	}

	if err = repo.Update(ctx, b); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return b, nil
}

func (h AcceptBatchCommandHandler) storeNavigation(ctx context.Context, b *batch.Batch) {
	settings := usecases.RoutingSettings(ctx, h.settings, h.logger)
	payload := h.router.Route(ctx, b, settings)

	if err := h.savePayload(ctx, payload); err != nil {
		h.logger.ErrorContext(ctx, "Failed to store navigation payload",
			"batch_id", b.ID().String(), "error", err)
		return
	}

	h.logger.InfoContext(ctx, "Batch accepted",
		"batch_id", b.ID().String(),
		"batch_type", payload.BatchType,
		"phase", payload.Phase,
		"fallback", payload.Fallback)
}

func (h AcceptBatchCommandHandler) savePayload(ctx context.Context, payload routing.NavigationPayload) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while storing navigation payload: %v", r)
		}
	}()

	uow := h.navigationUoWs.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.NavigationPayloadRepository().Save(ctx, payload); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
