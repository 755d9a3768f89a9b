// Package http exposes the dispatch engine over a JSON API.
package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"dispatch/internal/core/application/negotiation"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/routing"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type (
	BatchQueryHandler interface {
		Handle(ctx context.Context, query queries.GetBatchQuery) (queries.GetBatchQueryResponse, error)
	}

	NavigationQueryHandler interface {
		Handle(ctx context.Context, query queries.GetNavigationPayloadQuery) (routing.NavigationPayload, error)
	}

	ActiveDeliveriesQueryHandler interface {
		Handle(ctx context.Context, query queries.GetActiveDeliveriesQuery) ([]queries.GetActiveDeliveriesQueryResponse, error)
	}

	BatchStatusCommandHandler interface {
		Handle(ctx context.Context, command commands.RequestBatchStatusCommand) (batch.Status, error)
	}

	DeliveryStatusCommandHandler interface {
		Handle(ctx context.Context, command commands.UpdateDeliveryStatusCommand) (batch.Status, error)
	}

	OfferSessions interface {
		Present(p negotiation.Presentation) (negotiation.Snapshot, error)
		Get(driverID kernel.UUID) (*negotiation.Negotiator, bool)
	}

	DriverStream interface {
		Serve(w http.ResponseWriter, r *http.Request, driverID kernel.UUID)
	}
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	getBatchHandler            BatchQueryHandler
	getNavigationHandler       NavigationQueryHandler
	getActiveDeliveriesHandler ActiveDeliveriesQueryHandler

	requestBatchStatusHandler   BatchStatusCommandHandler
	updateDeliveryStatusHandler DeliveryStatusCommandHandler

	sessions OfferSessions
	stream   DriverStream
	logger   *slog.Logger
}

func NewServer(
	getBatchHandler BatchQueryHandler,
	getNavigationHandler NavigationQueryHandler,
	getActiveDeliveriesHandler ActiveDeliveriesQueryHandler,
	requestBatchStatusHandler BatchStatusCommandHandler,
	updateDeliveryStatusHandler DeliveryStatusCommandHandler,
	sessions OfferSessions,
	stream DriverStream,
	logger *slog.Logger,
) *Server {
	return &Server{
		getBatchHandler:             getBatchHandler,
		getNavigationHandler:        getNavigationHandler,
		getActiveDeliveriesHandler:  getActiveDeliveriesHandler,
		requestBatchStatusHandler:   requestBatchStatusHandler,
		updateDeliveryStatusHandler: updateDeliveryStatusHandler,
		sessions:                    sessions,
		stream:                      stream,
		logger:                      logger.With("component", "http_server"),
	}
}

// GetBatch handles GET /api/v1/batches/:id.
func (s *Server) GetBatch(c echo.Context) error {
	batchID, err := pathUUID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetBatchQuery(batchID)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.getBatchHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, newBatchResponse(result))
}

// GetBatchNavigation handles GET /api/v1/batches/:id/navigation.
func (s *Server) GetBatchNavigation(c echo.Context) error {
	batchID, err := pathUUID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetNavigationPayloadQuery(batchID)
	if err != nil {
		return s.fail(c, err)
	}

	payload, err := s.getNavigationHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, payload)
}

// RequestBatchStatus handles POST /api/v1/batches/:id/status.
func (s *Server) RequestBatchStatus(c echo.Context) error {
	batchID, err := pathUUID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	var body StatusRequest
	if err := c.Bind(&body); err != nil {
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	cmd, err := commands.NewRequestBatchStatusCommand(batchID, body.Status)
	if err != nil {
		return s.fail(c, err)
	}

	status, err := s.requestBatchStatusHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, StatusResponse{
		Success:   true,
		Status:    status.String(),
		RawStatus: status.WireValue(),
	})
}

// UpdateDeliveryStatus handles POST /api/v1/deliveries/:id/status.
func (s *Server) UpdateDeliveryStatus(c echo.Context) error {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	var body StatusRequest
	if err := c.Bind(&body); err != nil {
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	cmd, err := commands.NewUpdateDeliveryStatusCommand(orderID, body.Status)
	if err != nil {
		return s.fail(c, err)
	}

	status, err := s.updateDeliveryStatusHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, StatusResponse{
		Success:   true,
		Status:    status.String(),
		RawStatus: status.DeliveryWireValue(),
	})
}

// GetActiveDeliveries handles GET /api/v1/drivers/:driverId/deliveries/active.
func (s *Server) GetActiveDeliveries(c echo.Context) error {
	driverID, err := pathUUID(c, "driverId")
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetActiveDeliveriesQuery(driverID)
	if err != nil {
		return s.fail(c, err)
	}

	deliveries, err := s.getActiveDeliveriesHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}

	response := make([]ActiveDeliveryResponse, len(deliveries))
	for i, d := range deliveries {
		response[i] = newActiveDeliveryResponse(d)
	}
	return c.JSON(http.StatusOK, response)
}

// PresentOffer handles POST /api/v1/drivers/:driverId/offers.
func (s *Server) PresentOffer(c echo.Context) error {
	driverID, err := pathUUID(c, "driverId")
	if err != nil {
		return s.fail(c, err)
	}
	var body PresentOfferRequest
	if err := c.Bind(&body); err != nil {
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	p := negotiation.Presentation{
		DriverID:       driverID,
		SubjectID:      body.SubjectID,
		Kind:           body.Kind,
		TimeoutSeconds: body.TimeoutSeconds,
	}
	if body.PresentedAt != nil {
		p.PresentedAt = *body.PresentedAt
	}

	snapshot, err := s.sessions.Present(p)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, newOfferResponse(snapshot))
}

// GetCurrentOffer handles GET /api/v1/drivers/:driverId/offers/current.
func (s *Server) GetCurrentOffer(c echo.Context) error {
	n, err := s.negotiator(c)
	if err != nil {
		return s.fail(c, err)
	}
	snapshot, ok := n.Current()
	if !ok {
		return s.fail(c, negotiation.ErrNoLiveOffer)
	}
	return c.JSON(http.StatusOK, newOfferResponse(snapshot))
}

// AcceptOffer handles POST /api/v1/drivers/:driverId/offers/current/accept.
func (s *Server) AcceptOffer(c echo.Context) error {
	n, err := s.negotiator(c)
	if err != nil {
		return s.fail(c, err)
	}
	snapshot, err := n.Accept(c.Request().Context())
	return s.answer(c, snapshot, err)
}

// DeclineOffer handles POST /api/v1/drivers/:driverId/offers/current/decline.
// The body is optional.
func (s *Server) DeclineOffer(c echo.Context) error {
	n, err := s.negotiator(c)
	if err != nil {
		return s.fail(c, err)
	}
	var body DeclineRequest
	if err := c.Bind(&body); err != nil && !errors.Is(err, io.EOF) {
		return s.fail(c, errs.NewValueIsInvalidErrorWithCause("body", err))
	}

	snapshot, err := n.Decline(c.Request().Context(), body.Reason)
	return s.answer(c, snapshot, err)
}

// SkipOffer handles POST /api/v1/drivers/:driverId/offers/current/skip.
func (s *Server) SkipOffer(c echo.Context) error {
	n, err := s.negotiator(c)
	if err != nil {
		return s.fail(c, err)
	}
	snapshot, err := n.Skip()
	return s.answer(c, snapshot, err)
}

// CancelOffer handles POST /api/v1/drivers/:driverId/offers/current/cancel.
func (s *Server) CancelOffer(c echo.Context) error {
	n, err := s.negotiator(c)
	if err != nil {
		return s.fail(c, err)
	}
	snapshot, err := n.Cancel()
	return s.answer(c, snapshot, err)
}

// StreamOffers handles GET /ws/drivers/:driverId.
func (s *Server) StreamOffers(c echo.Context) error {
	driverID, err := pathUUID(c, "driverId")
	if err != nil {
		return s.fail(c, err)
	}
	s.stream.Serve(c.Response(), c.Request(), driverID)
	return nil
}

func (s *Server) negotiator(c echo.Context) (*negotiation.Negotiator, error) {
	driverID, err := pathUUID(c, "driverId")
	if err != nil {
		return nil, err
	}
	n, ok := s.sessions.Get(driverID)
	if !ok {
		return nil, negotiation.ErrNoLiveOffer
	}
	return n, nil
}

// answer renders the outcome of an offer action. Without a resolved offer the
// error alone is returned; otherwise the offer is included next to it.
func (s *Server) answer(c echo.Context, snapshot negotiation.Snapshot, err error) error {
	if err == nil {
		return c.JSON(http.StatusOK, OfferActionResponse{Success: true, Offer: newOfferResponse(snapshot)})
	}
	if snapshot.OfferID.Validate() != nil {
		return s.fail(c, err)
	}

	code := statusFor(err)
	if code == http.StatusInternalServerError {
		code = http.StatusBadGateway
	}
	return c.JSON(code, OfferActionResponse{
		Success: false,
		Offer:   newOfferResponse(snapshot),
		Error:   err.Error(),
	})
}

func pathUUID(c echo.Context, name string) (kernel.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, c.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return kernel.UUIDFromBytes(id[:])
}
