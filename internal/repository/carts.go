package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/shoplift/engage/internal/domain"
)

// UpsertOpenCart creates the abandoned-cart record, or refreshes the items,
// total and abandonment time of the customer's existing unemailed open cart.
// The unique open-cart index makes the upsert atomic: two racing webhook
// deliveries for one customer converge on a single row. Returns the id of
// the tracked cart.
func (s *SQLiteStore) UpsertOpenCart(ctx context.Context, cart *domain.AbandonedCart) (string, error) {
	items, _ := json.Marshal(cart.Items)
	var id string
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO abandoned_carts (cart_id, customer_id, items, cart_total, abandoned_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (customer_id) WHERE recovered = 0 AND email_sent = 0
		 DO UPDATE SET items = excluded.items, cart_total = excluded.cart_total, abandoned_at = excluded.abandoned_at
		 RETURNING cart_id`,
		cart.CartID, cart.CustomerID, string(items), cart.CartTotal, cart.AbandonedAt, cart.CreatedAt).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetCart retrieves a cart by ID.
func (s *SQLiteStore) GetCart(ctx context.Context, cartID string) (*domain.AbandonedCart, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT cart_id, customer_id, items, cart_total, abandoned_at, recovered, email_sent,
		        reminder_count, last_reminder_at, claimed_at, discount_code, created_at
		 FROM abandoned_carts WHERE cart_id = ?`, cartID)
	cart, err := scanCart(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCart(row rowScanner) (*domain.AbandonedCart, error) {
	var c domain.AbandonedCart
	var items string
	var lastReminder, claimed sql.NullTime
	var code sql.NullString
	err := row.Scan(&c.CartID, &c.CustomerID, &items, &c.CartTotal, &c.AbandonedAt,
		&c.Recovered, &c.EmailSent, &c.ReminderCount, &lastReminder, &claimed, &code, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(items), &c.Items); err != nil {
		return nil, err
	}
	if lastReminder.Valid {
		t := lastReminder.Time
		c.LastReminderAt = &t
	}
	if claimed.Valid {
		t := claimed.Time
		c.ClaimedAt = &t
	}
	if code.Valid {
		c.DiscountCode = code.String
	}
	return &c, nil
}

// ListCartsForFirstReminder returns unemailed, unrecovered carts whose
// abandonment time falls inside [oldest, newest], oldest first.
func (s *SQLiteStore) ListCartsForFirstReminder(ctx context.Context, oldest, newest time.Time, limit int) ([]domain.AbandonedCart, error) {
	return s.listCarts(ctx,
		`SELECT cart_id, customer_id, items, cart_total, abandoned_at, recovered, email_sent,
		        reminder_count, last_reminder_at, claimed_at, discount_code, created_at
		 FROM abandoned_carts
		 WHERE recovered = 0 AND email_sent = 0 AND abandoned_at BETWEEN ? AND ?
		 ORDER BY abandoned_at ASC LIMIT ?`,
		oldest, newest, limit)
}

// ListCartsForSecondReminder returns once-reminded, unrecovered carts whose
// last reminder falls inside [oldest, newest], oldest first.
func (s *SQLiteStore) ListCartsForSecondReminder(ctx context.Context, oldest, newest time.Time, limit int) ([]domain.AbandonedCart, error) {
	return s.listCarts(ctx,
		`SELECT cart_id, customer_id, items, cart_total, abandoned_at, recovered, email_sent,
		        reminder_count, last_reminder_at, claimed_at, discount_code, created_at
		 FROM abandoned_carts
		 WHERE recovered = 0 AND reminder_count = 1 AND last_reminder_at BETWEEN ? AND ?
		 ORDER BY last_reminder_at ASC LIMIT ?`,
		oldest, newest, limit)
}

func (s *SQLiteStore) listCarts(ctx context.Context, query string, args ...interface{}) ([]domain.AbandonedCart, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var carts []domain.AbandonedCart
	for rows.Next() {
		cart, err := scanCart(rows)
		if err != nil {
			return nil, err
		}
		carts = append(carts, *cart)
	}
	return carts, rows.Err()
}

// ClaimCart reserves a cart for one reminder send. Only the claimant may
// send the email. The guard carries the reminder precondition (reminder 1
// requires email_sent=0, reminder 2 requires reminder_count=1), so a claim
// cannot land on a cart whose state was already advanced by a concurrent
// pass between listing and claiming. A previous claim older than claimTTL
// is taken over, covering a pass that died mid-page.
func (s *SQLiteStore) ClaimCart(ctx context.Context, cartID string, reminder int, now time.Time, claimTTL time.Duration) (bool, error) {
	precondition := `email_sent = 0`
	if reminder == 2 {
		precondition = `reminder_count = 1`
	}
	stale := now.Add(-claimTTL)
	res, err := s.db.ExecContext(ctx,
		`UPDATE abandoned_carts SET claimed_at = ?
		 WHERE cart_id = ? AND recovered = 0 AND `+precondition+` AND (claimed_at IS NULL OR claimed_at < ?)`,
		now, cartID, stale)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ReleaseCartClaim clears the claim without advancing reminder state, so a
// failed send is retried on the next eligible pass.
func (s *SQLiteStore) ReleaseCartClaim(ctx context.Context, cartID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE abandoned_carts SET claimed_at = NULL WHERE cart_id = ?`, cartID)
	return err
}

// CommitReminder advances the reminder state after a successful send. The
// guard re-checks the preconditions, so a stale claimant cannot double-send:
// reminder 1 requires email_sent=0, reminder 2 requires reminder_count=1.
func (s *SQLiteStore) CommitReminder(ctx context.Context, cartID string, reminder int, code string, now time.Time) (bool, error) {
	var res sql.Result
	var err error
	switch reminder {
	case 1:
		res, err = s.db.ExecContext(ctx,
			`UPDATE abandoned_carts
			 SET email_sent = 1, reminder_count = 1, last_reminder_at = ?, discount_code = ?, claimed_at = NULL
			 WHERE cart_id = ? AND recovered = 0 AND email_sent = 0`,
			now, nullString(code), cartID)
	case 2:
		res, err = s.db.ExecContext(ctx,
			`UPDATE abandoned_carts
			 SET reminder_count = 2, last_reminder_at = ?, claimed_at = NULL
			 WHERE cart_id = ? AND recovered = 0 AND reminder_count = 1`,
			now, cartID)
	default:
		return false, nil
	}
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// MarkCartRecovered flips the terminal recovered flag. Idempotent: returns
// false when the cart was already recovered or does not exist.
func (s *SQLiteStore) MarkCartRecovered(ctx context.Context, cartID string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE abandoned_carts SET recovered = 1, claimed_at = NULL WHERE cart_id = ? AND recovered = 0`,
		cartID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// PurgeCartsBefore deletes unrecovered carts abandoned before cutoff, at
// most limit rows per call. Recovered carts are kept: they feed the revenue
// reports.
func (s *SQLiteStore) PurgeCartsBefore(ctx context.Context, cutoff time.Time, limit int) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM abandoned_carts WHERE cart_id IN (
			SELECT cart_id FROM abandoned_carts
			WHERE recovered = 0 AND abandoned_at < ? ORDER BY abandoned_at ASC LIMIT ?
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

// CartReportStats aggregates cart outcomes since the given time.
func (s *SQLiteStore) CartReportStats(ctx context.Context, since time.Time) (*CartStats, error) {
	var stats CartStats
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(recovered), 0),
		        COALESCE(SUM(reminder_count), 0),
		        COALESCE(SUM(CASE WHEN recovered = 1 THEN cart_total ELSE 0 END), 0)
		 FROM abandoned_carts WHERE abandoned_at >= ?`,
		since).Scan(&stats.Abandoned, &stats.Recovered, &stats.RemindersSent, &stats.RecoveredRevenue)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
