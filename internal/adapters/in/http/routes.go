package http

import (
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

var registerDocsOnce sync.Once

// RegisterDocs publishes doc for the /swagger UI. Only the first call has an
// effect.
func RegisterDocs(doc *openapi3.T) error {
	data, err := doc.MarshalJSON()
	if err != nil {
		return err
	}

	registerDocsOnce.Do(func() {
		swag.Register(swag.Name, &swag.Spec{
			Version:          doc.Info.Version,
			Title:            doc.Info.Title,
			Description:      doc.Info.Description,
			InfoInstanceName: swag.Name,
			SwaggerTemplate:  string(data),
			LeftDelim:        "{%",
			RightDelim:       "%}",
		})
	})
	return nil
}

// Register mounts the API on e. validator guards the /api/v1 group and may be
// nil.
func (s *Server) Register(e *echo.Echo, validator echo.MiddlewareFunc) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/ws/drivers/:driverId", s.StreamOffers)

	var middleware []echo.MiddlewareFunc
	if validator != nil {
		middleware = append(middleware, validator)
	}
	api := e.Group("/api/v1", middleware...)

	api.GET("/batches/:id", s.GetBatch)
	api.GET("/batches/:id/navigation", s.GetBatchNavigation)
	api.POST("/batches/:id/status", s.RequestBatchStatus)
	api.POST("/deliveries/:id/status", s.UpdateDeliveryStatus)

	api.GET("/drivers/:driverId/deliveries/active", s.GetActiveDeliveries)
	api.POST("/drivers/:driverId/offers", s.PresentOffer)
	api.GET("/drivers/:driverId/offers/current", s.GetCurrentOffer)
	api.POST("/drivers/:driverId/offers/current/accept", s.AcceptOffer)
	api.POST("/drivers/:driverId/offers/current/decline", s.DeclineOffer)
	api.POST("/drivers/:driverId/offers/current/skip", s.SkipOffer)
	api.POST("/drivers/:driverId/offers/current/cancel", s.CancelOffer)
}
