package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ScoringWeights combine the four value-score inputs. They are business
// configuration, not code: override them from the engine config file.
type ScoringWeights struct {
	OrderCount   float64 `yaml:"order_count"`   // points per historical order
	Spend        float64 `yaml:"spend"`         // points per currency unit spent
	Recency      float64 `yaml:"recency"`       // scales the 0-100 recency score
	Interactions float64 `yaml:"interactions"`  // points per recent interaction
	RecencyHalf  int     `yaml:"recency_half"`  // days after which recency score halves
	RecentWindow int     `yaml:"recent_window"` // days of interactions counted
}

// SegmentThresholds partition the score range into contiguous half-open
// tiers: [0, Regular) new, [Regular, Loyal) regular, [Loyal, VIP) loyal,
// [VIP, inf) vip.
type SegmentThresholds struct {
	Regular float64 `yaml:"regular"`
	Loyal   float64 `yaml:"loyal"`
	VIP     float64 `yaml:"vip"`
}

// OfferSpec is one row of the segment-to-offer table.
type OfferSpec struct {
	Title           string  `yaml:"title"`
	Description     string  `yaml:"description"`
	DiscountPercent float64 `yaml:"discount_percent"`
	MinOrderAmount  float64 `yaml:"min_order_amount"`
	ExpiresInDays   int     `yaml:"expires_in_days"`
	UsageLimit      int     `yaml:"usage_limit"`
}

// ReminderWindows are the closed elapsed-time intervals that gate reminder
// eligibility. Windows, not single cutoffs, so a pass neither reprocesses
// carts the instant they cross a threshold nor retries frozen carts forever.
type ReminderWindows struct {
	FirstMinHours  int `yaml:"first_min_hours"`
	FirstMaxHours  int `yaml:"first_max_hours"`
	SecondMinHours int `yaml:"second_min_hours"`
	SecondMaxHours int `yaml:"second_max_hours"`
}

// Tunables are the documented, test-visible engine parameters.
type Tunables struct {
	Weights                ScoringWeights       `yaml:"weights"`
	Thresholds             SegmentThresholds    `yaml:"thresholds"`
	Offers                 map[string]OfferSpec `yaml:"offers"` // keyed by segment
	Windows                ReminderWindows      `yaml:"windows"`
	TrendingWindowDays     int                  `yaml:"trending_window_days"`
	CategoryWeight         float64              `yaml:"category_weight"`
	TrendingWeight         float64              `yaml:"trending_weight"`
	SessionTTLMinutes      int                  `yaml:"session_ttl_minutes"`
	RetentionDays          int                  `yaml:"retention_days"`
	ReportingRetentionDays int                  `yaml:"reporting_retention_days"`
	FallbackReplies        []string             `yaml:"fallback_replies"`
}

// DefaultTunables returns the built-in parameter set.
func DefaultTunables() *Tunables {
	return &Tunables{
		Weights: ScoringWeights{
			OrderCount:   10,
			Spend:        0.1,
			Recency:      1,
			Interactions: 0.5,
			RecencyHalf:  30,
			RecentWindow: 30,
		},
		Thresholds: SegmentThresholds{Regular: 50, Loyal: 150, VIP: 300},
		Offers: map[string]OfferSpec{
			"vip": {
				Title:           "VIP exclusive",
				Description:     "25% off your next order, just for you",
				DiscountPercent: 25,
				MinOrderAmount:  0,
				ExpiresInDays:   14,
				UsageLimit:      1,
			},
			"loyal": {
				Title:           "Loyalty reward",
				Description:     "20% off as a thank-you for sticking around",
				DiscountPercent: 20,
				MinOrderAmount:  10,
				ExpiresInDays:   14,
				UsageLimit:      1,
			},
			"regular": {
				Title:           "A treat for you",
				Description:     "15% off your next order",
				DiscountPercent: 15,
				MinOrderAmount:  20,
				ExpiresInDays:   7,
				UsageLimit:      1,
			},
			"new": {
				Title:           "Welcome aboard",
				Description:     "10% off your first order",
				DiscountPercent: 10,
				MinOrderAmount:  25,
				ExpiresInDays:   7,
				UsageLimit:      1,
			},
		},
		Windows: ReminderWindows{
			FirstMinHours:  1,
			FirstMaxHours:  24,
			SecondMinHours: 24,
			SecondMaxHours: 48,
		},
		TrendingWindowDays:     7,
		CategoryWeight:         2,
		TrendingWeight:         1,
		SessionTTLMinutes:      40,
		RetentionDays:          90,
		ReportingRetentionDays: 180,
		FallbackReplies: []string{
			"Sorry, I didn't quite catch that. Could you rephrase?",
			"I'm not sure I understood. I can help with products, orders and discounts.",
			"Hmm, that one's beyond me. Try asking about our products or current offers.",
		},
	}
}

// LoadTunables loads the engine config file at path, falling back to
// defaults when path is empty. File values override defaults field-by-field
// at the top level.
func LoadTunables(path string) (*Tunables, error) {
	t := DefaultTunables()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read engine config: %w", err)
	}
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, fmt.Errorf("failed to parse engine config: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate rejects parameter sets that would break engine invariants.
func (t *Tunables) Validate() error {
	if !(t.Thresholds.Regular < t.Thresholds.Loyal && t.Thresholds.Loyal < t.Thresholds.VIP) {
		return fmt.Errorf("segment thresholds must be strictly increasing: %+v", t.Thresholds)
	}
	if t.Windows.FirstMinHours >= t.Windows.FirstMaxHours || t.Windows.SecondMinHours >= t.Windows.SecondMaxHours {
		return fmt.Errorf("reminder windows must be non-empty intervals: %+v", t.Windows)
	}
	if t.TrendingWindowDays <= 0 {
		return fmt.Errorf("trending_window_days must be positive")
	}
	if len(t.FallbackReplies) == 0 {
		return fmt.Errorf("at least one fallback reply is required")
	}
	return nil
}

// SessionTTL returns the session TTL as a duration.
func (t *Tunables) SessionTTL() time.Duration {
	return time.Duration(t.SessionTTLMinutes) * time.Minute
}
