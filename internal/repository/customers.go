package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/shoplift/engage/internal/domain"
)

// GetCustomer retrieves a customer by ID.
func (s *SQLiteStore) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	var c domain.Customer
	var lastUpdate sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT customer_id, segment, value_score, last_segment_update, created_at FROM customers WHERE customer_id = ?`,
		customerID).Scan(&c.CustomerID, &c.Segment, &c.ValueScore, &lastUpdate, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if lastUpdate.Valid {
		c.LastSegmentUpdate = lastUpdate.Time
	}
	return &c, nil
}

// GetOrCreateCustomer gets an existing customer or creates a new one in the
// entry tier.
func (s *SQLiteStore) GetOrCreateCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	c, err := s.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}

	c = &domain.Customer{
		CustomerID: customerID,
		Segment:    domain.SegmentNew,
		CreatedAt:  time.Now(),
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO customers (customer_id, segment, value_score, created_at) VALUES (?, ?, 0, ?)`,
		c.CustomerID, c.Segment, c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCustomerIDs pages through customer ids in ascending order. Pass the
// last id of the previous page to resume.
func (s *SQLiteStore) ListCustomerIDs(ctx context.Context, afterID string, limit int) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT customer_id FROM customers WHERE customer_id > ? ORDER BY customer_id ASC LIMIT ?`,
		afterID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UpdateCustomerScore writes the score and segment only when either changed,
// so an unchanged re-score performs zero writes. Returns whether a row was
// written.
func (s *SQLiteStore) UpdateCustomerScore(ctx context.Context, customerID string, score float64, segment domain.Segment, now time.Time) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE customers SET value_score = ?, segment = ?, last_segment_update = ?
		 WHERE customer_id = ? AND (value_score != ? OR segment != ?)`,
		score, segment, now, customerID, score, segment)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// CountCustomersBySegment returns the population of each tier.
func (s *SQLiteStore) CountCustomersBySegment(ctx context.Context) (map[domain.Segment]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT segment, COUNT(*) FROM customers GROUP BY segment`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.Segment]int)
	for rows.Next() {
		var seg domain.Segment
		var n int
		if err := rows.Scan(&seg, &n); err != nil {
			return nil, err
		}
		counts[seg] = n
	}
	return counts, rows.Err()
}
