package service

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/shoplift/engage/internal/domain"
)

// ScoreResult is the outcome of scoring one customer.
type ScoreResult struct {
	CustomerID string         `json:"customer_id"`
	Score      float64        `json:"score"`
	Segment    domain.Segment `json:"segment"`
	Updated    bool           `json:"updated"`
}

// ScoreCustomer recomputes the value score and tier for one customer.
// Re-scoring unchanged inputs yields the same result and performs no write.
func (s *Service) ScoreCustomer(ctx context.Context, customerID string) (*ScoreResult, error) {
	customer, err := s.store.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, domain.Wrap(domain.KindTransient, "failed to load customer", err)
	}
	if customer == nil {
		return nil, domain.Ef(domain.KindNotFound, "customer %s not found", customerID)
	}

	now := s.now()
	orderCount, spend, lastOrder, err := s.store.OrderStats(ctx, customerID)
	if err != nil {
		return nil, domain.Wrap(domain.KindTransient, "failed to load order stats", err)
	}

	w := s.config.Tunables.Weights
	recentSince := now.Add(-time.Duration(w.RecentWindow) * 24 * time.Hour)
	interactions, err := s.store.CountEventsSince(ctx, customerID, recentSince)
	if err != nil {
		return nil, domain.Wrap(domain.KindTransient, "failed to count interactions", err)
	}

	score := s.valueScore(now, orderCount, spend, lastOrder, interactions)
	segment := s.segmentFor(score)

	updated, err := s.store.UpdateCustomerScore(ctx, customerID, score, segment, now)
	if err != nil {
		return nil, domain.Wrap(domain.KindTransient, "failed to persist score", err)
	}
	if updated {
		s.logger.Info("customer resegmented",
			zap.String("customer_id", customerID),
			zap.Float64("score", score),
			zap.String("segment", string(segment)))
	}

	return &ScoreResult{
		CustomerID: customerID,
		Score:      score,
		Segment:    segment,
		Updated:    updated,
	}, nil
}

// valueScore combines order count, lifetime spend, order recency and recent
// interaction volume as a weighted sum. Recency contributes a 0-100 score
// that halves every Weights.RecencyHalf days since the last order. The
// result is rounded to two decimals so unchanged inputs compare equal.
func (s *Service) valueScore(now time.Time, orderCount int, spend float64, lastOrder *time.Time, interactions int) float64 {
	w := s.config.Tunables.Weights

	recency := 0.0
	if lastOrder != nil {
		days := now.Sub(*lastOrder).Hours() / 24
		if days < 0 {
			days = 0
		}
		recency = 100 * math.Pow(0.5, days/float64(w.RecencyHalf))
	}

	score := w.OrderCount*float64(orderCount) +
		w.Spend*spend +
		w.Recency*recency +
		w.Interactions*float64(interactions)
	return math.Round(score*100) / 100
}

// segmentFor maps a score onto the contiguous half-open tier ranges.
func (s *Service) segmentFor(score float64) domain.Segment {
	t := s.config.Tunables.Thresholds
	switch {
	case score >= t.VIP:
		return domain.SegmentVIP
	case score >= t.Loyal:
		return domain.SegmentLoyal
	case score >= t.Regular:
		return domain.SegmentRegular
	default:
		return domain.SegmentNew
	}
}

// ResegmentCustomers rescores every customer in id-ordered pages. Per-item
// failures are collected into the summary; segmentation writes are
// last-writer-wins, the next pass recomputes from source data.
func (s *Service) ResegmentCustomers(ctx context.Context) *domain.JobSummary {
	summary := &domain.JobSummary{}
	afterID := ""
	for {
		ids, err := s.store.ListCustomerIDs(ctx, afterID, s.config.BatchPageSize)
		if err != nil {
			s.logger.Warn("resegment page load failed", zap.Error(err))
			summary.Add("page:"+afterID, err)
			return summary
		}
		if len(ids) == 0 {
			return summary
		}
		for _, id := range ids {
			itemCtx, cancel := context.WithTimeout(ctx, s.config.ItemTimeout)
			_, err := s.ScoreCustomer(itemCtx, id)
			cancel()
			summary.Add(id, err)
			if err != nil {
				s.logger.Warn("failed to score customer", zap.String("customer_id", id), zap.Error(err))
			}
		}
		afterID = ids[len(ids)-1]
	}
}
