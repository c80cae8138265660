package internalapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Batch entry points. Each returns the structured pass summary; per-item
// errors are inside it, never thrown past this boundary.

// RecoverCarts runs a first-reminder pass.
// POST /internal/jobs/recover-carts
func (h *Handler) RecoverCarts(c echo.Context) error {
	summary := h.service.RecoverCarts(c.Request().Context())
	return c.JSON(http.StatusOK, summary)
}

// SecondReminders runs a second-reminder pass.
// POST /internal/jobs/second-reminders
func (h *Handler) SecondReminders(c echo.Context) error {
	summary := h.service.SendSecondReminders(c.Request().Context())
	return c.JSON(http.StatusOK, summary)
}

// Resegment rescores all customers.
// POST /internal/jobs/resegment
func (h *Handler) Resegment(c echo.Context) error {
	summary := h.service.ResegmentCustomers(c.Request().Context())
	return c.JSON(http.StatusOK, summary)
}

// Purge removes records past their retention window.
// POST /internal/jobs/purge
func (h *Handler) Purge(c echo.Context) error {
	summary := h.service.PurgeStaleRecords(c.Request().Context())
	return c.JSON(http.StatusOK, summary)
}

// DailyReport aggregates the last day of engagement outcomes.
// POST /internal/jobs/daily-report
func (h *Handler) DailyReport(c echo.Context) error {
	report, err := h.service.GenerateDailyReport(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, report)
}
