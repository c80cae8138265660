package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shoplift/engage/internal/domain"
)

// ValidateCode checks a code against an order amount without consuming it.
// POST /v1/discounts/validate
func (h *Handler) ValidateCode(c echo.Context) error {
	var req domain.ValidateCodeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Code == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "code is required"})
	}

	resp, err := h.service.ValidateCode(c.Request().Context(), req.Code, req.OrderAmount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// RedeemCode validates and consumes one use of a code atomically.
// POST /v1/discounts/redeem
func (h *Handler) RedeemCode(c echo.Context) error {
	var req domain.ValidateCodeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if req.Code == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "code is required"})
	}

	resp, err := h.service.RedeemCode(c.Request().Context(), req.Code, req.OrderAmount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}
