package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shoplift/engage/internal/config"
	"github.com/shoplift/engage/internal/domain"
	"github.com/shoplift/engage/internal/metrics"
	"github.com/shoplift/engage/policy"
)

// Validation failure reasons for discount codes.
const (
	ReasonNotFound     = "not_found"
	ReasonInactive     = "inactive"
	ReasonExpired      = "expired"
	ReasonLimitReached = "limit_reached"
	ReasonBelowMinimum = "below_minimum"
)

// PersonalizedOffer selects the offer for the customer's tier and mints a
// discount code for it. The policy engine can veto issuance.
func (s *Service) PersonalizedOffer(ctx context.Context, customerID string) (*domain.Offer, error) {
	customer, err := s.store.GetOrCreateCustomer(ctx, customerID)
	if err != nil {
		return nil, domain.Wrap(domain.KindTransient, "failed to load customer", err)
	}
	return s.offerForSegment(ctx, customer.Segment, policy.Input{
		Segment: string(customer.Segment),
		Context: "chat",
	})
}

// offerForSegment mints the configured offer for a tier, subject to policy.
func (s *Service) offerForSegment(ctx context.Context, segment domain.Segment, input policy.Input) (*domain.Offer, error) {
	decision, err := s.policy.Evaluate(ctx, input)
	if err != nil {
		return nil, domain.Wrap(domain.KindTransient, "offer policy evaluation failed", err)
	}
	if decision != "allow" {
		return nil, domain.Ef(domain.KindPrecondition, "offer blocked by policy for segment %s", segment)
	}

	spec, ok := s.config.Tunables.Offers[string(segment)]
	if !ok {
		return nil, domain.Ef(domain.KindPrecondition, "no offer configured for segment %s", segment)
	}

	code, err := s.mintCode(ctx, segment, spec)
	if err != nil {
		return nil, err
	}
	return &domain.Offer{
		Title:           spec.Title,
		Description:     spec.Description,
		Code:            code,
		DiscountPercent: spec.DiscountPercent,
	}, nil
}

// mintCode creates a fresh single-customer discount code for the tier.
func (s *Service) mintCode(ctx context.Context, segment domain.Segment, spec config.OfferSpec) (string, error) {
	now := s.now()
	code := strings.ToUpper(string(segment)) + "-" + strings.ToUpper(uuid.NewString()[:8])
	dc := &domain.DiscountCode{
		Code:           code,
		DiscountType:   domain.DiscountTypePercentage,
		DiscountValue:  spec.DiscountPercent,
		MinOrderAmount: spec.MinOrderAmount,
		ExpiresAt:      now.Add(time.Duration(spec.ExpiresInDays) * 24 * time.Hour),
		UsageLimit:     spec.UsageLimit,
		IsActive:       true,
		CreatedAt:      now,
	}
	if err := s.store.CreateDiscountCode(ctx, dc); err != nil {
		return "", domain.Wrap(domain.KindTransient, "failed to mint discount code", err)
	}
	return code, nil
}

// ValidateCode checks a code against an order amount without consuming a
// use.
func (s *Service) ValidateCode(ctx context.Context, code string, orderAmount float64) (*domain.ValidateCodeResponse, error) {
	dc, err := s.store.GetDiscountCode(ctx, code)
	if err != nil {
		return nil, domain.Wrap(domain.KindTransient, "failed to load discount code", err)
	}
	if reason := s.invalidReason(dc, orderAmount); reason != "" {
		return &domain.ValidateCodeResponse{Valid: false, Reason: reason}, nil
	}
	return &domain.ValidateCodeResponse{Valid: true}, nil
}

// RedeemCode validates and consumes one use of a code in a single atomic
// step. The guarded increment is authoritative; the re-read after a refused
// update only explains which condition failed.
func (s *Service) RedeemCode(ctx context.Context, code string, orderAmount float64) (*domain.ValidateCodeResponse, error) {
	ok, err := s.store.RedeemDiscountCode(ctx, code, orderAmount, s.now())
	if err != nil {
		metrics.CodeRedemptions.WithLabelValues("error").Inc()
		return nil, domain.Wrap(domain.KindTransient, "failed to redeem discount code", err)
	}
	if ok {
		metrics.CodeRedemptions.WithLabelValues("ok").Inc()
		return &domain.ValidateCodeResponse{Valid: true}, nil
	}

	dc, err := s.store.GetDiscountCode(ctx, code)
	if err != nil {
		return nil, domain.Wrap(domain.KindTransient, "failed to load discount code", err)
	}
	reason := s.invalidReason(dc, orderAmount)
	if reason == "" {
		// Raced to the last use between the update and the re-read.
		reason = ReasonLimitReached
	}
	metrics.CodeRedemptions.WithLabelValues(reason).Inc()
	return &domain.ValidateCodeResponse{Valid: false, Reason: reason}, nil
}

// invalidReason classifies why a code is not redeemable, or "" when it is.
// Expiry and deactivation dominate remaining uses.
func (s *Service) invalidReason(dc *domain.DiscountCode, orderAmount float64) string {
	switch {
	case dc == nil:
		return ReasonNotFound
	case !dc.IsActive:
		return ReasonInactive
	case !s.now().Before(dc.ExpiresAt):
		return ReasonExpired
	case dc.UsedCount >= dc.UsageLimit:
		return ReasonLimitReached
	case orderAmount < dc.MinOrderAmount:
		return ReasonBelowMinimum
	default:
		return ""
	}
}
