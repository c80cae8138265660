package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shoplift/engage/internal/domain"
)

// Chat handles one inbound chat message.
// POST /v1/chat
func (h *Handler) Chat(c echo.Context) error {
	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	reply, err := h.service.HandleMessage(c.Request().Context(), req.SessionID, req.CustomerID, req.Text)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, reply)
}
