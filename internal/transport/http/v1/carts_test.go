package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/shoplift/engage/internal/domain"
)

func postJSON(t *testing.T, e *echo.Echo, target string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func TestCartAbandonedWebhook(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	rec, c := postJSON(t, e, "/v1/carts/abandoned", domain.AbandonmentRequest{
		CustomerID: "cust-1",
		Items:      []domain.CartItem{{ProductID: "p-espresso", Quantity: 1, Price: 120}},
		CartTotal:  120,
	})
	if err := h.CartAbandoned(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp domain.AbandonmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.CartID == "" || resp.Stage != domain.CartStageAbandoned {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCartAbandonedWebhookRejectsBadPayloads(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	cases := []struct {
		name string
		req  domain.AbandonmentRequest
	}{
		{
			name: "missing customer id",
			req: domain.AbandonmentRequest{
				Items: []domain.CartItem{{ProductID: "p-espresso", Quantity: 1, Price: 120}},
			},
		},
		{
			name: "empty items",
			req:  domain.AbandonmentRequest{CustomerID: "cust-1"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, c := postJSON(t, e, "/v1/carts/abandoned", tc.req)
			if err := h.CartAbandoned(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestCartRecovered(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	rec, c := postJSON(t, e, "/v1/carts/abandoned", domain.AbandonmentRequest{
		CustomerID: "cust-1",
		Items:      []domain.CartItem{{ProductID: "p-espresso", Quantity: 1, Price: 120}},
		CartTotal:  120,
	})
	if err := h.CartAbandoned(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var created domain.AbandonmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	rec, c = postJSON(t, e, "/v1/carts/"+created.CartID+"/recovered", nil)
	c.SetPath("/v1/carts/:cart_id/recovered")
	c.SetParamNames("cart_id")
	c.SetParamValues(created.CartID)
	if err := h.CartRecovered(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCartRecoveredUnknownCart(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	rec, c := postJSON(t, e, "/v1/carts/nope/recovered", nil)
	c.SetPath("/v1/carts/:cart_id/recovered")
	c.SetParamNames("cart_id")
	c.SetParamValues("nope")
	if err := h.CartRecovered(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
