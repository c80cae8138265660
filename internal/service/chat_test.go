package service

import (
	"context"
	"testing"
	"time"

	"github.com/shoplift/engage/internal/domain"
)

func TestHandleMessageValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.HandleMessage(ctx, "", "cust-1", "hello"); !domain.IsKind(err, domain.KindValidation) {
		t.Fatalf("expected validation error for missing session, got %v", err)
	}
	if _, err := svc.HandleMessage(ctx, "s1", "cust-1", "   "); !domain.IsKind(err, domain.KindValidation) {
		t.Fatalf("expected validation error for blank text, got %v", err)
	}
}

func TestGreetingOutranksDiscount(t *testing.T) {
	svc, _, _ := newTestService(t)

	reply, err := svc.HandleMessage(context.Background(), "s1", "cust-1", "hi, do you have any discount codes?")
	if err != nil {
		t.Fatalf("HandleMessage failed: %v", err)
	}
	if reply.Intent != domain.IntentGreeting {
		t.Fatalf("expected greeting to win, got %q", reply.Intent)
	}
	if reply.ReplyText == "" {
		t.Fatal("expected a canned greeting reply")
	}
}

func TestDiscountIntentForMember(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	reply, err := svc.HandleMessage(ctx, "s1", "cust-1", "got any promo codes?")
	if err != nil {
		t.Fatalf("HandleMessage failed: %v", err)
	}
	if reply.Intent != domain.IntentDiscount {
		t.Fatalf("expected discount intent, got %q", reply.Intent)
	}
	if len(reply.Attachments) != 1 || reply.Attachments[0].Kind != domain.AttachmentOffer {
		t.Fatalf("expected an offer attachment, got %+v", reply.Attachments)
	}
	offer := reply.Attachments[0].Offer
	if offer == nil || offer.Code == "" {
		t.Fatalf("expected a minted code, got %+v", offer)
	}

	// The minted code lands in the session context.
	sctx, err := svc.sessions.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("session Get failed: %v", err)
	}
	if sctx == nil || sctx.LastOfferCode != offer.Code || sctx.LastIntent != domain.IntentDiscount {
		t.Fatalf("unexpected session context: %+v", sctx)
	}
}

func TestDiscountIntentForGuest(t *testing.T) {
	svc, _, _ := newTestService(t)

	reply, err := svc.HandleMessage(context.Background(), "s1", "guest-42", "any deals today?")
	if err != nil {
		t.Fatalf("HandleMessage failed: %v", err)
	}
	if reply.Intent != domain.IntentDiscount {
		t.Fatalf("expected discount intent, got %q", reply.Intent)
	}
	if len(reply.Attachments) != 0 {
		t.Fatalf("expected no offer for a guest, got %+v", reply.Attachments)
	}
}

func TestRecommendationIntent(t *testing.T) {
	svc, db, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()
	fixNow(svc, now)

	// No data yet: the reply degrades, never errors.
	reply, err := svc.HandleMessage(ctx, "s1", "", "what do you recommend?")
	if err != nil {
		t.Fatalf("HandleMessage failed: %v", err)
	}
	if reply.Intent != domain.IntentRecommendation || len(reply.Attachments) != 0 {
		t.Fatalf("expected degraded reply without attachments, got %+v", reply)
	}

	seedProduct(t, db, "p-a", "coffee", 100, 4)
	seedView(t, db, "c1", "p-a", now.Add(-time.Hour))

	reply, err = svc.HandleMessage(ctx, "s1", "", "show me your best sellers")
	if err != nil {
		t.Fatalf("HandleMessage failed: %v", err)
	}
	if len(reply.Attachments) != 1 || reply.Attachments[0].Kind != domain.AttachmentProductList {
		t.Fatalf("expected a product list attachment, got %+v", reply.Attachments)
	}
	if len(reply.Attachments[0].Products) != 1 || reply.Attachments[0].Products[0].ProductID != "p-a" {
		t.Fatalf("unexpected products: %+v", reply.Attachments[0].Products)
	}
}

func TestFallbackReplyComesFromConfiguredSet(t *testing.T) {
	svc, _, _ := newTestService(t)

	reply, err := svc.HandleMessage(context.Background(), "s1", "", "qwertyuiop zxcvbnm")
	if err != nil {
		t.Fatalf("HandleMessage failed: %v", err)
	}
	if reply.Intent != domain.IntentFallback {
		t.Fatalf("expected fallback intent, got %q", reply.Intent)
	}
	found := false
	for _, candidate := range svc.config.Tunables.FallbackReplies {
		if reply.ReplyText == candidate {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("fallback reply %q not in the configured set", reply.ReplyText)
	}
}

func TestSessionContextAccumulates(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	messages := []string{"hello there", "where is my order?", "thanks!"}
	for _, m := range messages {
		if _, err := svc.HandleMessage(ctx, "s1", "cust-1", m); err != nil {
			t.Fatalf("HandleMessage(%q) failed: %v", m, err)
		}
	}

	sctx, err := svc.sessions.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("session Get failed: %v", err)
	}
	if sctx == nil || sctx.MessageCount != 3 {
		t.Fatalf("expected 3 messages in session, got %+v", sctx)
	}
	if sctx.LastIntent != domain.IntentThanks {
		t.Fatalf("expected last intent thanks, got %q", sctx.LastIntent)
	}
}
