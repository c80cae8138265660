// Package v1 provides the storefront-facing HTTP handlers.
package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shoplift/engage/internal/domain"
	"github.com/shoplift/engage/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers external routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/v1/chat", h.Chat)

	e.POST("/v1/carts/abandoned", h.CartAbandoned)
	e.POST("/v1/carts/:cart_id/recovered", h.CartRecovered)

	e.GET("/v1/recommendations", h.Recommendations)

	e.POST("/v1/discounts/validate", h.ValidateCode)
	e.POST("/v1/discounts/redeem", h.RedeemCode)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// writeError maps domain error kinds onto HTTP statuses.
func writeError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch domain.KindOf(err) {
	case domain.KindValidation:
		status = http.StatusBadRequest
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindPrecondition:
		status = http.StatusConflict
	case domain.KindTransient:
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, map[string]string{"error": err.Error()})
}
