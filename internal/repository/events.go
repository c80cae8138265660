package store

import (
	"context"
	"time"

	"github.com/shoplift/engage/internal/domain"
)

// CreateEvent appends one interaction event. Events are never updated.
func (s *SQLiteStore) CreateEvent(ctx context.Context, e *domain.InteractionEvent) error {
	payload := ""
	if e.Payload != nil {
		payload = string(e.Payload)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interaction_events (event_id, customer_id, session_id, type, payload, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.EventID, e.CustomerID, nullString(e.SessionID), e.Type, nullString(payload), e.CreatedAt)
	return err
}

// CountEventsSince counts a customer's events newer than since.
func (s *SQLiteStore) CountEventsSince(ctx context.Context, customerID string, since time.Time) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM interaction_events WHERE customer_id = ? AND created_at >= ?`,
		customerID, since).Scan(&n)
	return n, err
}

// TopProductCounts aggregates view and purchase volume per product over the
// recent window, most interacted first, ties broken by most recent event.
func (s *SQLiteStore) TopProductCounts(ctx context.Context, since time.Time, limit int) ([]ProductCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT json_extract(payload, '$.product_id') AS pid, COUNT(*) AS cnt
		 FROM interaction_events
		 WHERE type IN (?, ?) AND created_at >= ? AND json_extract(payload, '$.product_id') IS NOT NULL
		 GROUP BY pid
		 ORDER BY cnt DESC, MAX(created_at) DESC, pid ASC
		 LIMIT ?`,
		domain.EventTypeProductView, domain.EventTypePurchase, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []ProductCount
	for rows.Next() {
		var pc ProductCount
		if err := rows.Scan(&pc.ProductID, &pc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, pc)
	}
	return counts, rows.Err()
}

// CustomerCategoryCounts aggregates a customer's views and purchases per
// product category across their whole history.
func (s *SQLiteStore) CustomerCategoryCounts(ctx context.Context, customerID string) ([]CategoryCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.category, COUNT(*) AS cnt
		 FROM interaction_events e
		 JOIN products p ON p.product_id = json_extract(e.payload, '$.product_id')
		 WHERE e.customer_id = ? AND e.type IN (?, ?)
		 GROUP BY p.category
		 ORDER BY cnt DESC, p.category ASC`,
		customerID, domain.EventTypeProductView, domain.EventTypePurchase)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []CategoryCount
	for rows.Next() {
		var cc CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, cc)
	}
	return counts, rows.Err()
}

// PurgeEventsBefore deletes up to limit events older than cutoff, returning
// the number deleted. Bounded so a retention pass has bounded latency.
func (s *SQLiteStore) PurgeEventsBefore(ctx context.Context, cutoff time.Time, limit int) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM interaction_events WHERE rowid IN (
			SELECT rowid FROM interaction_events WHERE created_at < ? ORDER BY created_at ASC LIMIT ?
		)`,
		cutoff, limit)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}
