package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shoplift/engage/internal/domain"
)

func TestScoreCustomerUnknown(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.ScoreCustomer(context.Background(), "nobody")
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestScoreCustomer(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()
	fixNow(svc, now)

	if _, err := db.GetOrCreateCustomer(ctx, "cust-1"); err != nil {
		t.Fatalf("GetOrCreateCustomer failed: %v", err)
	}
	orders := []*domain.Order{
		{OrderID: "o1", CustomerID: "cust-1", Total: 200, CreatedAt: now.Add(-time.Hour)},
		{OrderID: "o2", CustomerID: "cust-1", Total: 300, CreatedAt: now},
	}
	for _, o := range orders {
		if err := db.CreateOrder(ctx, o); err != nil {
			t.Fatalf("CreateOrder failed: %v", err)
		}
	}
	for i := 0; i < 10; i++ {
		err := db.CreateEvent(ctx, &domain.InteractionEvent{
			EventID:    uuid.NewString(),
			CustomerID: "cust-1",
			Type:       domain.EventTypePageView,
			CreatedAt:  now.Add(-time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
	}

	// 2 orders x10 + 500 spend x0.1 + recency 100 x1 + 10 interactions x0.5.
	result, err := svc.ScoreCustomer(ctx, "cust-1")
	if err != nil {
		t.Fatalf("ScoreCustomer failed: %v", err)
	}
	if result.Score != 175 {
		t.Fatalf("expected score 175, got %v", result.Score)
	}
	if result.Segment != domain.SegmentLoyal {
		t.Fatalf("expected loyal tier, got %q", result.Segment)
	}
	if !result.Updated {
		t.Fatal("expected first scoring to write")
	}

	// Unchanged inputs: same result, zero writes.
	again, err := svc.ScoreCustomer(ctx, "cust-1")
	if err != nil {
		t.Fatalf("ScoreCustomer repeat failed: %v", err)
	}
	if again.Score != result.Score || again.Segment != result.Segment {
		t.Fatalf("expected identical result, got %+v vs %+v", again, result)
	}
	if again.Updated {
		t.Fatal("expected unchanged re-score to perform no write")
	}

	customer, err := db.GetCustomer(ctx, "cust-1")
	if err != nil {
		t.Fatalf("GetCustomer failed: %v", err)
	}
	if customer.Segment != domain.SegmentLoyal || customer.ValueScore != 175 {
		t.Fatalf("unexpected persisted state: %+v", customer)
	}
}

func TestSegmentThresholds(t *testing.T) {
	svc, _, _ := newTestService(t)

	cases := []struct {
		score float64
		want  domain.Segment
	}{
		{0, domain.SegmentNew},
		{49.99, domain.SegmentNew},
		{50, domain.SegmentRegular},
		{149.99, domain.SegmentRegular},
		{150, domain.SegmentLoyal},
		{299.99, domain.SegmentLoyal},
		{300, domain.SegmentVIP},
		{1000, domain.SegmentVIP},
	}
	for _, tc := range cases {
		if got := svc.segmentFor(tc.score); got != tc.want {
			t.Fatalf("score %v: expected %q, got %q", tc.score, tc.want, got)
		}
	}
}

func TestValueScoreRecencyDecay(t *testing.T) {
	svc, _, _ := newTestService(t)
	now := time.Now().UTC()

	// One order, RecencyHalf days old: the recency contribution halves.
	last := now.Add(-30 * 24 * time.Hour)
	score := svc.valueScore(now, 1, 0, &last, 0)
	if score != 60 {
		t.Fatalf("expected 10 + 50 = 60, got %v", score)
	}

	// No orders at all contributes nothing.
	if got := svc.valueScore(now, 0, 0, nil, 0); got != 0 {
		t.Fatalf("expected 0 for an empty history, got %v", got)
	}
}

func TestResegmentCustomers(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if _, err := db.GetOrCreateCustomer(ctx, id); err != nil {
			t.Fatalf("GetOrCreateCustomer failed: %v", err)
		}
	}
	if err := db.CreateOrder(ctx, &domain.Order{OrderID: "o1", CustomerID: "b", Total: 5000, CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	summary := svc.ResegmentCustomers(ctx)
	if summary.Processed != 3 || summary.Failed != 0 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	b, err := db.GetCustomer(ctx, "b")
	if err != nil {
		t.Fatalf("GetCustomer failed: %v", err)
	}
	if b.Segment != domain.SegmentVIP {
		t.Fatalf("expected big spender in vip tier, got %q", b.Segment)
	}
	a, err := db.GetCustomer(ctx, "a")
	if err != nil {
		t.Fatalf("GetCustomer failed: %v", err)
	}
	if a.Segment != domain.SegmentNew {
		t.Fatalf("expected quiet customer in entry tier, got %q", a.Segment)
	}
}
