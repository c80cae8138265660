// Package metrics exposes the engine's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecoveryEmails counts reminder email outcomes by reminder number and result.
	RecoveryEmails = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engage_recovery_emails_total",
		Help: "Recovery reminder emails by reminder number and result.",
	}, []string{"reminder", "result"})

	// CartsRecovered counts carts marked recovered.
	CartsRecovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engage_carts_recovered_total",
		Help: "Abandoned carts marked recovered.",
	})

	// CodeRedemptions counts discount code redemption outcomes.
	CodeRedemptions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engage_code_redemptions_total",
		Help: "Discount code redemption attempts by result.",
	}, []string{"result"})

	// IntentsClassified counts chat messages by classified intent.
	IntentsClassified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engage_intents_classified_total",
		Help: "Chat messages by classified intent.",
	}, []string{"intent"})

	// Recommendations counts recommendation queries by mode and result.
	Recommendations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engage_recommendations_total",
		Help: "Recommendation queries by mode and result.",
	}, []string{"mode", "result"})
)
