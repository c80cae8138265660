package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shoplift/engage/internal/domain"
)

// PurgeStaleRecords deletes interaction events older than the retention
// window and unrecovered carts past reporting retention (both in bounded
// pages), and deactivates expired discount codes. Recovered carts are kept
// for revenue reporting.
func (s *Service) PurgeStaleRecords(ctx context.Context) *domain.JobSummary {
	summary := &domain.JobSummary{}
	now := s.now()
	eventCutoff := now.Add(-time.Duration(s.config.Tunables.RetentionDays) * 24 * time.Hour)

	for {
		deleted, err := s.store.PurgeEventsBefore(ctx, eventCutoff, s.config.BatchPageSize)
		if err != nil {
			s.logger.Warn("event purge failed", zap.Error(err))
			summary.Add("events", err)
			break
		}
		summary.Processed += deleted
		summary.Succeeded += deleted
		if deleted < s.config.BatchPageSize {
			break
		}
	}

	cartCutoff := now.Add(-time.Duration(s.config.Tunables.ReportingRetentionDays) * 24 * time.Hour)
	for {
		deleted, err := s.store.PurgeCartsBefore(ctx, cartCutoff, s.config.BatchPageSize)
		if err != nil {
			s.logger.Warn("cart purge failed", zap.Error(err))
			summary.Add("carts", err)
			break
		}
		summary.Processed += deleted
		summary.Succeeded += deleted
		if deleted < s.config.BatchPageSize {
			break
		}
	}

	deactivated, err := s.store.DeactivateExpiredCodes(ctx, s.now())
	if err != nil {
		s.logger.Warn("code deactivation failed", zap.Error(err))
		summary.Add("discount_codes", err)
		return summary
	}
	summary.Processed += deactivated
	summary.Succeeded += deactivated
	return summary
}

// GenerateDailyReport aggregates the last 24 hours of engagement outcomes.
func (s *Service) GenerateDailyReport(ctx context.Context) (*domain.DailyReport, error) {
	now := s.now()
	since := now.Add(-24 * time.Hour)

	cartStats, err := s.store.CartReportStats(ctx, since)
	if err != nil {
		return nil, domain.Wrap(domain.KindTransient, "failed to load cart stats", err)
	}
	segments, err := s.store.CountCustomersBySegment(ctx)
	if err != nil {
		return nil, domain.Wrap(domain.KindTransient, "failed to load segment counts", err)
	}

	report := &domain.DailyReport{
		Date:             now.Format("2006-01-02"),
		CartsAbandoned:   cartStats.Abandoned,
		CartsRecovered:   cartStats.Recovered,
		RemindersSent:    cartStats.RemindersSent,
		RecoveredRevenue: cartStats.RecoveredRevenue,
		SegmentCounts:    segments,
	}
	if cartStats.Abandoned > 0 {
		report.RecoveryRate = float64(cartStats.Recovered) / float64(cartStats.Abandoned)
	}

	s.logger.Info("daily report generated",
		zap.String("date", report.Date),
		zap.Int("carts_abandoned", report.CartsAbandoned),
		zap.Int("carts_recovered", report.CartsRecovered),
		zap.String("recovery_rate", fmt.Sprintf("%.2f", report.RecoveryRate)))
	return report, nil
}
