// Package domain defines the core domain models for the engagement engine.
package domain

// Segment represents a customer value tier.
type Segment string

const (
	SegmentNew     Segment = "new"
	SegmentRegular Segment = "regular"
	SegmentLoyal   Segment = "loyal"
	SegmentVIP     Segment = "vip"
)

// EventType represents the type of an interaction event.
type EventType string

const (
	EventTypePageView      EventType = "page_view"
	EventTypeProductView   EventType = "product_view"
	EventTypeAddToCart     EventType = "add_to_cart"
	EventTypeCartAbandoned EventType = "cart_abandoned"
	EventTypeChatMessage   EventType = "chat_message"
	EventTypeScrollDepth   EventType = "scroll_depth"
	EventTypePurchase      EventType = "purchase"
)

// RecommendationMode selects the ranking strategy.
type RecommendationMode string

const (
	ModeTrending     RecommendationMode = "trending"
	ModePersonalized RecommendationMode = "personalized"
	ModeCrossSell    RecommendationMode = "cross_sell"
	ModeUpsell       RecommendationMode = "upsell"
)

// DiscountType represents how a discount code is applied.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Intent represents a classified chat intent.
type Intent string

const (
	IntentGreeting       Intent = "greeting"
	IntentRecommendation Intent = "recommendation"
	IntentDiscount       Intent = "discount"
	IntentCart           Intent = "cart"
	IntentShipping       Intent = "shipping"
	IntentHours          Intent = "hours"
	IntentLocation       Intent = "location"
	IntentThanks         Intent = "thanks"
	IntentGoodbye        Intent = "goodbye"
	IntentHelp           Intent = "help"
	IntentFallback       Intent = "fallback"
)

// MaxReminders caps the reminder lifecycle; a cart that exhausts it without
// recovery is retained for reporting but never processed again.
const MaxReminders = 2

// CartStage is the derived lifecycle stage of an abandoned cart.
type CartStage string

const (
	CartStageAbandoned      CartStage = "abandoned"
	CartStageFirstReminder  CartStage = "first_reminder"
	CartStageSecondReminder CartStage = "second_reminder"
	CartStageRecovered      CartStage = "recovered"
	CartStageExpired        CartStage = "expired"
)
