package intent

import (
	"testing"

	"github.com/shoplift/engage/internal/domain"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		text string
		want domain.Intent
	}{
		{"hello!", domain.IntentGreeting},
		{"Hey there", domain.IntentGreeting},
		{"good morning", domain.IntentGreeting},
		{"can you recommend a grinder?", domain.IntentRecommendation},
		{"show me your best sellers", domain.IntentRecommendation},
		{"what's trending right now", domain.IntentRecommendation},
		{"do you have any discount codes?", domain.IntentDiscount},
		{"is there a sale on?", domain.IntentDiscount},
		{"how do I check out?", domain.IntentCart},
		{"where is my order", domain.IntentCart},
		{"how long does delivery take", domain.IntentShipping},
		{"track my shipment", domain.IntentShipping},
		{"what are your hours", domain.IntentHours},
		{"where are you located? what's the address", domain.IntentLocation},
		{"thanks a lot", domain.IntentThanks},
		{"ok bye", domain.IntentGoodbye},
		{"I need some help", domain.IntentHelp},
		{"asdf qwerty", domain.IntentFallback},
		{"", domain.IntentFallback},
	}

	for _, tc := range cases {
		if got := Classify(tc.text); got != tc.want {
			t.Fatalf("Classify(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}

// Order is behavior: earlier rules win on messages matching several patterns.
func TestClassifyPrecedence(t *testing.T) {
	cases := []struct {
		text string
		want domain.Intent
	}{
		{"hi, do you have any discount codes?", domain.IntentGreeting},
		{"recommend me something on sale", domain.IntentRecommendation},
		{"any deals on shipping?", domain.IntentDiscount},
	}
	for _, tc := range cases {
		if got := Classify(tc.text); got != tc.want {
			t.Fatalf("Classify(%q) = %q, want %q", tc.text, got, tc.want)
		}
	}
}
