package domain

// AbandonmentRequest is the wire contract for the cart-abandonment webhook.
type AbandonmentRequest struct {
	CustomerID string     `json:"customer_id"`
	Items      []CartItem `json:"items"`
	CartTotal  float64    `json:"cart_total"`
}

// AbandonmentResponse returns the identifier of the tracked cart.
type AbandonmentResponse struct {
	CartID string    `json:"cart_id"`
	Stage  CartStage `json:"stage"`
}

// ChatRequest is one inbound chat message.
type ChatRequest struct {
	SessionID  string `json:"session_id"`
	CustomerID string `json:"customer_id,omitempty"`
	Text       string `json:"text"`
}

// RecommendRequest parameterizes a recommendation query.
type RecommendRequest struct {
	Mode       RecommendationMode `json:"mode"`
	CustomerID string             `json:"customer_id,omitempty"`
	ProductIDs []string           `json:"product_ids,omitempty"`
	Limit      int                `json:"limit,omitempty"`
}

// ValidateCodeRequest checks a discount code against an order amount.
type ValidateCodeRequest struct {
	Code        string  `json:"code"`
	OrderAmount float64 `json:"order_amount"`
}

// ValidateCodeResponse reports validity and, when invalid, the reason.
type ValidateCodeResponse struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// ItemError records one failed item inside a batch pass.
type ItemError struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// JobSummary is the structured result of a batch entry point. Batch jobs
// never propagate a per-item error past this boundary.
type JobSummary struct {
	Processed int         `json:"processed"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
	Errors    []ItemError `json:"errors,omitempty"`
}

// Add merges a per-item outcome into the summary.
func (s *JobSummary) Add(id string, err error) {
	s.Processed++
	if err == nil {
		s.Succeeded++
		return
	}
	s.Failed++
	s.Errors = append(s.Errors, ItemError{ID: id, Reason: err.Error()})
}

// DailyReport aggregates engagement outcomes for one reporting window.
type DailyReport struct {
	Date             string          `json:"date"`
	CartsAbandoned   int             `json:"carts_abandoned"`
	CartsRecovered   int             `json:"carts_recovered"`
	RemindersSent    int             `json:"reminders_sent"`
	RecoveryRate     float64         `json:"recovery_rate"`
	RecoveredRevenue float64         `json:"recovered_revenue"`
	SegmentCounts    map[Segment]int `json:"segment_counts"`
}
