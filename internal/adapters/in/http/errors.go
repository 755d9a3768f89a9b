package http

import (
	"errors"
	"net/http"

	"dispatch/internal/core/application/negotiation"
	"dispatch/internal/core/domain/model/batch"
	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// statusFor maps domain and application errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound), errors.Is(err, negotiation.ErrNoLiveOffer):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, offer.ErrOfferIsNotPending),
		errors.Is(err, negotiation.ErrOfferAlreadyStarted),
		errors.Is(err, batch.ErrTerminalStatus),
		errors.Is(err, batch.ErrAssignedToAnotherDriver),
		errors.Is(err, ports.ErrStatusRejected):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c echo.Context, err error) error {
	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "Request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err)
		message = "internal error"
	}
	return c.JSON(code, ErrorResponse{Success: false, Error: message})
}
