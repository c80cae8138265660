package store

import (
	"context"
	"time"

	"github.com/shoplift/engage/internal/domain"
)

// Store defines the interface for data persistence.
type Store interface {
	// Customer operations
	GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error)
	GetOrCreateCustomer(ctx context.Context, customerID string) (*domain.Customer, error)
	ListCustomerIDs(ctx context.Context, afterID string, limit int) ([]string, error)
	UpdateCustomerScore(ctx context.Context, customerID string, score float64, segment domain.Segment, now time.Time) (bool, error)
	CountCustomersBySegment(ctx context.Context) (map[domain.Segment]int, error)

	// Catalog operations (read models maintained externally)
	UpsertProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	GetProductsByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	ListProductsInCategoryAbovePrice(ctx context.Context, category string, price float64) ([]domain.Product, error)
	UpsertAssociation(ctx context.Context, a *domain.ProductAssociation) error
	ListAssociationsFrom(ctx context.Context, productIDs []string) ([]domain.ProductAssociation, error)

	// Order history
	CreateOrder(ctx context.Context, o *domain.Order) error
	OrderStats(ctx context.Context, customerID string) (count int, total float64, last *time.Time, err error)

	// Interaction events (append-only)
	CreateEvent(ctx context.Context, e *domain.InteractionEvent) error
	CountEventsSince(ctx context.Context, customerID string, since time.Time) (int, error)
	TopProductCounts(ctx context.Context, since time.Time, limit int) ([]ProductCount, error)
	CustomerCategoryCounts(ctx context.Context, customerID string) ([]CategoryCount, error)
	PurgeEventsBefore(ctx context.Context, cutoff time.Time, limit int) (int, error)

	// Abandoned carts
	UpsertOpenCart(ctx context.Context, cart *domain.AbandonedCart) (string, error)
	GetCart(ctx context.Context, cartID string) (*domain.AbandonedCart, error)
	ListCartsForFirstReminder(ctx context.Context, oldest, newest time.Time, limit int) ([]domain.AbandonedCart, error)
	ListCartsForSecondReminder(ctx context.Context, oldest, newest time.Time, limit int) ([]domain.AbandonedCart, error)
	ClaimCart(ctx context.Context, cartID string, reminder int, now time.Time, claimTTL time.Duration) (bool, error)
	ReleaseCartClaim(ctx context.Context, cartID string) error
	CommitReminder(ctx context.Context, cartID string, reminder int, code string, now time.Time) (bool, error)
	MarkCartRecovered(ctx context.Context, cartID string) (bool, error)
	PurgeCartsBefore(ctx context.Context, cutoff time.Time, limit int) (int, error)
	CartReportStats(ctx context.Context, since time.Time) (*CartStats, error)

	// Discount codes
	CreateDiscountCode(ctx context.Context, code *domain.DiscountCode) error
	GetDiscountCode(ctx context.Context, code string) (*domain.DiscountCode, error)
	RedeemDiscountCode(ctx context.Context, code string, orderAmount float64, now time.Time) (bool, error)
	DeactivateExpiredCodes(ctx context.Context, now time.Time) (int, error)

	// Lifecycle
	Close() error
}

// ProductCount is one row of the trending aggregate, already in rank order.
type ProductCount struct {
	ProductID string
	Count     int
}

// CategoryCount is one row of a customer's category-affinity aggregate.
type CategoryCount struct {
	Category string
	Count    int
}

// CartStats aggregates cart outcomes for reporting.
type CartStats struct {
	Abandoned        int
	Recovered        int
	RemindersSent    int
	RecoveredRevenue float64
}
