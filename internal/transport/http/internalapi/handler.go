// Package internalapi provides the job-orchestrator-facing HTTP handlers.
package internalapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shoplift/engage/internal/service"
)

// Handler handles internal HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new internal handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers internal routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/internal/jobs/recover-carts", h.RecoverCarts)
	e.POST("/internal/jobs/second-reminders", h.SecondReminders)
	e.POST("/internal/jobs/resegment", h.Resegment)
	e.POST("/internal/jobs/purge", h.Purge)
	e.POST("/internal/jobs/daily-report", h.DailyReport)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}
