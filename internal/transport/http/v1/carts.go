package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shoplift/engage/internal/domain"
)

// CartAbandoned is the cart-abandonment webhook.
// POST /v1/carts/abandoned
func (h *Handler) CartAbandoned(c echo.Context) error {
	var req domain.AbandonmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	resp, err := h.service.RecordAbandonment(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// CartRecovered marks a cart recovered after checkout completes.
// POST /v1/carts/:cart_id/recovered
func (h *Handler) CartRecovered(c echo.Context) error {
	cartID := c.Param("cart_id")
	if err := h.service.MarkRecovered(c.Request().Context(), cartID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"cart_id": cartID, "status": "recovered"})
}
