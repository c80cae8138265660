// Package intent classifies free-text chat input against an ordered pattern
// list.
package intent

import (
	"regexp"

	"github.com/shoplift/engage/internal/domain"
)

type rule struct {
	intent  domain.Intent
	pattern *regexp.Regexp
}

// rules are evaluated in order; the first match wins. The order is behavior:
// a message matching both greeting and discount classifies as greeting.
// Reordering changes replies, so any change here must update the precedence
// tests alongside.
var rules = []rule{
	{domain.IntentGreeting, regexp.MustCompile(`(?i)\b(hi|hiya|hello|hey|howdy|good (morning|afternoon|evening))\b`)},
	{domain.IntentRecommendation, regexp.MustCompile(`(?i)\b(recommend|suggest|looking for|show me|best seller|bestseller|popular|trending|what should i (buy|get))\b`)},
	{domain.IntentDiscount, regexp.MustCompile(`(?i)\b(discount|coupon|promo|promotion|voucher|deal|sale|offer)s?\b`)},
	{domain.IntentCart, regexp.MustCompile(`(?i)\b(cart|basket|checkout|check out|my order|order status)\b`)},
	{domain.IntentShipping, regexp.MustCompile(`(?i)\b(ship|shipping|shipment|deliver|delivery|track|tracking)\b`)},
	{domain.IntentHours, regexp.MustCompile(`(?i)\b(hours|open|opening|close|closing)\b`)},
	{domain.IntentLocation, regexp.MustCompile(`(?i)\b(location|address|directions|where are you)\b`)},
	{domain.IntentThanks, regexp.MustCompile(`(?i)\b(thanks|thank you|thx|cheers)\b`)},
	{domain.IntentGoodbye, regexp.MustCompile(`(?i)\b(bye|goodbye|good night|see you|later)\b`)},
	{domain.IntentHelp, regexp.MustCompile(`(?i)\b(help|support|assist|assistance)\b`)},
}

// Classify returns the first matching intent, or IntentFallback when no
// pattern matches.
func Classify(text string) domain.Intent {
	for _, r := range rules {
		if r.pattern.MatchString(text) {
			return r.intent
		}
	}
	return domain.IntentFallback
}
