package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/shoplift/engage/internal/domain"
)

// Recommendations returns a ranked product list.
// GET /v1/recommendations?mode=&customer_id=&product_ids=a,b&limit=
func (h *Handler) Recommendations(c echo.Context) error {
	req := domain.RecommendRequest{
		Mode:       domain.RecommendationMode(c.QueryParam("mode")),
		CustomerID: c.QueryParam("customer_id"),
	}
	if ids := c.QueryParam("product_ids"); ids != "" {
		req.ProductIDs = strings.Split(ids, ",")
	}
	if l := c.QueryParam("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil {
			req.Limit = val
		}
	}

	products, err := h.service.Recommend(c.Request().Context(), req)
	if err != nil {
		// Exhausted is a neutral empty state, not an error.
		if domain.IsKind(err, domain.KindExhausted) {
			return c.JSON(http.StatusOK, map[string]interface{}{
				"products": []domain.Product{},
			})
		}
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
	})
}
