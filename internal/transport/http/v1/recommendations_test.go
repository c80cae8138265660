package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/shoplift/engage/internal/domain"
)

func TestRecommendationsEmptyStateIsOK(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/recommendations?mode=trending", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Recommendations(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	// No data is an empty list, not a client or server error.
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Products []domain.Product `json:"products"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Products) != 0 {
		t.Fatalf("expected empty list, got %+v", resp.Products)
	}
}

func TestRecommendationsUnknownMode(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/v1/recommendations?mode=psychic", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Recommendations(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRecommendationsTrending(t *testing.T) {
	e := echo.New()
	h, db := newTestHandler(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i, id := range []string{"p-a", "p-b"} {
		err := db.UpsertProduct(ctx, &domain.Product{
			ProductID: id, Name: id, Category: "coffee", Price: 100, Rating: 4, CreatedAt: now,
		})
		if err != nil {
			t.Fatalf("UpsertProduct failed: %v", err)
		}
		for j := 0; j <= i; j++ {
			err := db.CreateEvent(ctx, &domain.InteractionEvent{
				EventID:    uuid.NewString(),
				CustomerID: fmt.Sprintf("c-%d-%d", i, j),
				Type:       domain.EventTypeProductView,
				Payload:    json.RawMessage(fmt.Sprintf(`{"product_id":%q}`, id)),
				CreatedAt:  now.Add(-time.Duration(j+1) * time.Hour),
			})
			if err != nil {
				t.Fatalf("CreateEvent failed: %v", err)
			}
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/recommendations?mode=trending&limit=5", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Recommendations(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Products []domain.Product `json:"products"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Products) != 2 || resp.Products[0].ProductID != "p-b" {
		t.Fatalf("unexpected products: %+v", resp.Products)
	}
}
