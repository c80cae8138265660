package domain

import (
	"encoding/json"
	"time"
)

// Customer holds identity plus the segmentation state owned by the
// segmentation engine. Identity is immutable once created.
type Customer struct {
	CustomerID        string    `json:"customer_id"`
	Segment           Segment   `json:"segment"`
	ValueScore        float64   `json:"value_score"`
	LastSegmentUpdate time.Time `json:"last_segment_update"`
	CreatedAt         time.Time `json:"created_at"`
}

// Product is a catalog read model; the catalog itself is maintained
// externally, the engines only read it.
type Product struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Rating    float64   `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// Order is an order-history read model used by segmentation.
type Order struct {
	OrderID    string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	Total      float64   `json:"total"`
	CreatedAt  time.Time `json:"created_at"`
}

// InteractionEvent is one append-only behavioral event.
type InteractionEvent struct {
	EventID    string          `json:"event_id"`
	CustomerID string          `json:"customer_id"`
	SessionID  string          `json:"session_id,omitempty"`
	Type       EventType       `json:"type"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ProductAssociation is a directional co-occurrence edge; direction matters
// for cross-sell vs upsell queries.
type ProductAssociation struct {
	ProductID           string `json:"product_id"`
	AssociatedProductID string `json:"associated_product_id"`
	Strength            int    `json:"strength"` // 0-100
}

// CartItem is one line of an abandoned cart.
type CartItem struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// AbandonedCart tracks one abandoned purchase intent through the reminder
// lifecycle. Mutated only by the cart recovery state machine.
type AbandonedCart struct {
	CartID         string     `json:"cart_id"`
	CustomerID     string     `json:"customer_id"`
	Items          []CartItem `json:"items"`
	CartTotal      float64    `json:"cart_total"`
	AbandonedAt    time.Time  `json:"abandoned_at"`
	Recovered      bool       `json:"recovered"`
	EmailSent      bool       `json:"email_sent"`
	ReminderCount  int        `json:"reminder_count"`
	LastReminderAt *time.Time `json:"last_reminder_at,omitempty"`
	ClaimedAt      *time.Time `json:"claimed_at,omitempty"`
	DiscountCode   string     `json:"discount_code,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Stage derives the lifecycle stage from the cart record.
func (c *AbandonedCart) Stage() CartStage {
	switch {
	case c.Recovered:
		return CartStageRecovered
	case c.ReminderCount >= MaxReminders:
		return CartStageExpired
	case c.ReminderCount == 1:
		return CartStageFirstReminder
	default:
		return CartStageAbandoned
	}
}

// DiscountCode is a redeemable code. used_count never exceeds usage_limit;
// the store enforces that with a guarded update, not a read-modify-write.
type DiscountCode struct {
	Code           string       `json:"code"`
	DiscountType   DiscountType `json:"discount_type"`
	DiscountValue  float64      `json:"discount_value"`
	MinOrderAmount float64      `json:"min_order_amount"`
	ExpiresAt      time.Time    `json:"expires_at"`
	UsageLimit     int          `json:"usage_limit"`
	UsedCount      int          `json:"used_count"`
	IsActive       bool         `json:"is_active"`
	CreatedAt      time.Time    `json:"created_at"`
}

// Offer is a segment-selected promotion with a minted code.
type Offer struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Code            string  `json:"code"`
	DiscountPercent float64 `json:"discount_percent"`
}

// ScoredProduct pairs a product with the score that ranked it.
type ScoredProduct struct {
	Product Product `json:"product"`
	Score   float64 `json:"score"`
}
