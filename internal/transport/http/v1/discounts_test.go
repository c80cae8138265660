package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/shoplift/engage/internal/domain"
	store "github.com/shoplift/engage/internal/repository"
)

func seedCode(t *testing.T, db *store.SQLiteStore, code *domain.DiscountCode) {
	t.Helper()
	if err := db.CreateDiscountCode(context.Background(), code); err != nil {
		t.Fatalf("CreateDiscountCode failed: %v", err)
	}
}

func TestValidateCodeEndpoint(t *testing.T) {
	e := echo.New()
	h, db := newTestHandler(t)
	now := time.Now().UTC()

	seedCode(t, db, &domain.DiscountCode{
		Code:           "SAVE10",
		DiscountType:   domain.DiscountTypePercentage,
		DiscountValue:  10,
		MinOrderAmount: 20,
		ExpiresAt:      now.Add(24 * time.Hour),
		UsageLimit:     1,
		IsActive:       true,
		CreatedAt:      now,
	})

	rec, c := postJSON(t, e, "/v1/discounts/validate", domain.ValidateCodeRequest{Code: "SAVE10", OrderAmount: 50})
	assert.NoError(t, h.ValidateCode(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp domain.ValidateCodeResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)

	rec, c = postJSON(t, e, "/v1/discounts/validate", domain.ValidateCodeRequest{Code: "SAVE10", OrderAmount: 5})
	assert.NoError(t, h.ValidateCode(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	assert.Equal(t, "below_minimum", resp.Reason)

	rec, c = postJSON(t, e, "/v1/discounts/validate", domain.ValidateCodeRequest{OrderAmount: 50})
	assert.NoError(t, h.ValidateCode(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRedeemCodeEndpoint(t *testing.T) {
	e := echo.New()
	h, db := newTestHandler(t)
	now := time.Now().UTC()

	seedCode(t, db, &domain.DiscountCode{
		Code:          "ONEUSE",
		DiscountType:  domain.DiscountTypePercentage,
		DiscountValue: 15,
		ExpiresAt:     now.Add(24 * time.Hour),
		UsageLimit:    1,
		IsActive:      true,
		CreatedAt:     now,
	})

	rec, c := postJSON(t, e, "/v1/discounts/redeem", domain.ValidateCodeRequest{Code: "ONEUSE", OrderAmount: 50})
	assert.NoError(t, h.RedeemCode(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp domain.ValidateCodeResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)

	// The single use is consumed; a repeat reports the limit.
	rec, c = postJSON(t, e, "/v1/discounts/redeem", domain.ValidateCodeRequest{Code: "ONEUSE", OrderAmount: 50})
	assert.NoError(t, h.RedeemCode(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Valid)
	assert.Equal(t, "limit_reached", resp.Reason)
}
