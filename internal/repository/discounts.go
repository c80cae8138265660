package store

import (
	"context"
	"database/sql"

	"time"

	"github.com/shoplift/engage/internal/domain"
)

// CreateDiscountCode mints a new code.
func (s *SQLiteStore) CreateDiscountCode(ctx context.Context, code *domain.DiscountCode) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO discount_codes (code, discount_type, discount_value, min_order_amount, expires_at, usage_limit, used_count, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		code.Code, code.DiscountType, code.DiscountValue, code.MinOrderAmount,
		code.ExpiresAt, code.UsageLimit, code.UsedCount, code.IsActive, code.CreatedAt)
	return err
}

// GetDiscountCode retrieves a code by value.
func (s *SQLiteStore) GetDiscountCode(ctx context.Context, code string) (*domain.DiscountCode, error) {
	var dc domain.DiscountCode
	err := s.db.QueryRowContext(ctx,
		`SELECT code, discount_type, discount_value, min_order_amount, expires_at, usage_limit, used_count, is_active, created_at
		 FROM discount_codes WHERE code = ?`,
		code).Scan(&dc.Code, &dc.DiscountType, &dc.DiscountValue, &dc.MinOrderAmount,
		&dc.ExpiresAt, &dc.UsageLimit, &dc.UsedCount, &dc.IsActive, &dc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dc, nil
}

// RedeemDiscountCode consumes one use as a single guarded increment: the
// update applies only while every validity condition still holds, so N
// concurrent redemptions of a code with k remaining uses succeed exactly k
// times. Returns whether this call consumed a use.
func (s *SQLiteStore) RedeemDiscountCode(ctx context.Context, code string, orderAmount float64, now time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE discount_codes SET used_count = used_count + 1
		 WHERE code = ? AND is_active = 1 AND used_count < usage_limit AND expires_at > ? AND min_order_amount <= ?`,
		code, now, orderAmount)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// DeactivateExpiredCodes flips is_active off for codes past expiry, returning
// how many were deactivated.
func (s *SQLiteStore) DeactivateExpiredCodes(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE discount_codes SET is_active = 0 WHERE is_active = 1 AND expires_at <= ?`,
		now)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}
