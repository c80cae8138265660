package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shoplift/engage/internal/domain"
)

// UpsertProduct creates or replaces a catalog product.
func (s *SQLiteStore) UpsertProduct(ctx context.Context, p *domain.Product) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO products (product_id, name, category, price, rating, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ProductID, p.Name, p.Category, p.Price, p.Rating, p.CreatedAt)
	return err
}

// GetProduct retrieves a product by ID.
func (s *SQLiteStore) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	var p domain.Product
	err := s.db.QueryRowContext(ctx,
		`SELECT product_id, name, category, price, rating, created_at FROM products WHERE product_id = ?`,
		productID).Scan(&p.ProductID, &p.Name, &p.Category, &p.Price, &p.Rating, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProductsByIDs retrieves products for the given ids. Order of the result
// is unspecified; callers re-rank.
func (s *SQLiteStore) GetProductsByIDs(ctx context.Context, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT product_id, name, category, price, rating, created_at FROM products WHERE product_id IN (%s)`,
			strings.Join(placeholders, ",")), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

// ListProductsInCategoryAbovePrice returns same-category products strictly
// pricier than the reference, cheapest first.
func (s *SQLiteStore) ListProductsInCategoryAbovePrice(ctx context.Context, category string, price float64) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, name, category, price, rating, created_at FROM products
		 WHERE category = ? AND price > ? ORDER BY price ASC`,
		category, price)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProducts(rows)
}

func scanProducts(rows *sql.Rows) ([]domain.Product, error) {
	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ProductID, &p.Name, &p.Category, &p.Price, &p.Rating, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// UpsertAssociation creates or replaces a directional association edge.
func (s *SQLiteStore) UpsertAssociation(ctx context.Context, a *domain.ProductAssociation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO product_associations (product_id, associated_product_id, strength) VALUES (?, ?, ?)`,
		a.ProductID, a.AssociatedProductID, a.Strength)
	return err
}

// ListAssociationsFrom returns all edges whose source is one of productIDs.
func (s *SQLiteStore) ListAssociationsFrom(ctx context.Context, productIDs []string) ([]domain.ProductAssociation, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(productIDs))
	args := make([]interface{}, len(productIDs))
	for i, id := range productIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT product_id, associated_product_id, strength FROM product_associations WHERE product_id IN (%s)`,
			strings.Join(placeholders, ",")), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assocs []domain.ProductAssociation
	for rows.Next() {
		var a domain.ProductAssociation
		if err := rows.Scan(&a.ProductID, &a.AssociatedProductID, &a.Strength); err != nil {
			return nil, err
		}
		assocs = append(assocs, a)
	}
	return assocs, rows.Err()
}

// CreateOrder records one completed order.
func (s *SQLiteStore) CreateOrder(ctx context.Context, o *domain.Order) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO orders (order_id, customer_id, total, created_at) VALUES (?, ?, ?, ?)`,
		o.OrderID, o.CustomerID, o.Total, o.CreatedAt)
	return err
}

// OrderStats returns order count, lifetime spend and last order time for a
// customer. The last order time comes from a second query so the driver sees
// a plain column, not an aggregate expression it cannot type.
func (s *SQLiteStore) OrderStats(ctx context.Context, customerID string) (int, float64, *time.Time, error) {
	var count int
	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total), 0) FROM orders WHERE customer_id = ?`,
		customerID).Scan(&count, &total)
	if err != nil {
		return 0, 0, nil, err
	}
	if count == 0 {
		return 0, 0, nil, nil
	}

	var last time.Time
	err = s.db.QueryRowContext(ctx,
		`SELECT created_at FROM orders WHERE customer_id = ? ORDER BY created_at DESC LIMIT 1`,
		customerID).Scan(&last)
	if err == sql.ErrNoRows {
		return count, total.Float64, nil, nil
	}
	if err != nil {
		return 0, 0, nil, err
	}
	return count, total.Float64, &last, nil
}
