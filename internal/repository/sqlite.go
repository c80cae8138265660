// Package store implements the SQLite store of record.
package store

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements the store of record using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS customers (
			customer_id TEXT PRIMARY KEY,
			segment TEXT NOT NULL DEFAULT 'new',
			value_score REAL NOT NULL DEFAULT 0,
			last_segment_update DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			product_id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL,
			price REAL NOT NULL,
			rating REAL NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category, price)`,
		`CREATE TABLE IF NOT EXISTS orders (
			order_id TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL,
			total REAL NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS interaction_events (
			event_id TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL,
			session_id TEXT,
			type TEXT NOT NULL,
			payload TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_customer ON interaction_events(customer_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_events_created ON interaction_events(created_at)`,
		`CREATE TABLE IF NOT EXISTS product_associations (
			product_id TEXT NOT NULL,
			associated_product_id TEXT NOT NULL,
			strength INTEGER NOT NULL,
			PRIMARY KEY (product_id, associated_product_id)
		)`,
		`CREATE TABLE IF NOT EXISTS abandoned_carts (
			cart_id TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL,
			items TEXT NOT NULL,
			cart_total REAL NOT NULL,
			abandoned_at DATETIME NOT NULL,
			recovered INTEGER NOT NULL DEFAULT 0,
			email_sent INTEGER NOT NULL DEFAULT 0,
			reminder_count INTEGER NOT NULL DEFAULT 0,
			last_reminder_at DATETIME,
			claimed_at DATETIME,
			discount_code TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_carts_customer ON abandoned_carts(customer_id, recovered)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_open ON abandoned_carts(customer_id)
			WHERE recovered = 0 AND email_sent = 0`,
		`CREATE INDEX IF NOT EXISTS idx_carts_first ON abandoned_carts(recovered, email_sent, abandoned_at)`,
		`CREATE INDEX IF NOT EXISTS idx_carts_second ON abandoned_carts(recovered, reminder_count, last_reminder_at)`,
		`CREATE TABLE IF NOT EXISTS discount_codes (
			code TEXT PRIMARY KEY,
			discount_type TEXT NOT NULL,
			discount_value REAL NOT NULL,
			min_order_amount REAL NOT NULL DEFAULT 0,
			expires_at DATETIME NOT NULL,
			usage_limit INTEGER NOT NULL DEFAULT 1,
			used_count INTEGER NOT NULL DEFAULT 0,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_codes_active ON discount_codes(is_active, expires_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
