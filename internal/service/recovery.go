package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shoplift/engage/internal/config"
	"github.com/shoplift/engage/internal/domain"
	"github.com/shoplift/engage/internal/metrics"
	"github.com/shoplift/engage/policy"
)

// ReminderAction is the decision for one cart at one point in time.
type ReminderAction int

const (
	ActionNone ReminderAction = iota
	ActionSendFirst
	ActionSendSecond
)

// EvaluateCart is the pure transition function of the recovery state
// machine: (now, record) -> action. The scheduling cadence lives outside.
// Eligibility is a closed elapsed-time interval, so a cart is neither
// reprocessed the moment it crosses a threshold nor retried forever once it
// has drifted past the window.
func EvaluateCart(now time.Time, cart *domain.AbandonedCart, w config.ReminderWindows) ReminderAction {
	if cart.Recovered || cart.ReminderCount >= domain.MaxReminders {
		return ActionNone
	}

	if !cart.EmailSent {
		elapsed := now.Sub(cart.AbandonedAt)
		if elapsed >= time.Duration(w.FirstMinHours)*time.Hour && elapsed <= time.Duration(w.FirstMaxHours)*time.Hour {
			return ActionSendFirst
		}
		return ActionNone
	}

	if cart.ReminderCount == 1 && cart.LastReminderAt != nil {
		elapsed := now.Sub(*cart.LastReminderAt)
		if elapsed >= time.Duration(w.SecondMinHours)*time.Hour && elapsed <= time.Duration(w.SecondMaxHours)*time.Hour {
			return ActionSendSecond
		}
	}
	return ActionNone
}

// RecordAbandonment handles the abandonment webhook: validates the payload,
// then creates or refreshes the customer's open cart.
func (s *Service) RecordAbandonment(ctx context.Context, req domain.AbandonmentRequest) (*domain.AbandonmentResponse, error) {
	if req.CustomerID == "" {
		return nil, domain.E(domain.KindValidation, "customer_id is required")
	}
	if len(req.Items) == 0 {
		return nil, domain.E(domain.KindValidation, "items must not be empty")
	}

	if _, err := s.store.GetOrCreateCustomer(ctx, req.CustomerID); err != nil {
		return nil, domain.Wrap(domain.KindTransient, "failed to resolve customer", err)
	}

	now := s.now()
	cart := &domain.AbandonedCart{
		CartID:      uuid.NewString(),
		CustomerID:  req.CustomerID,
		Items:       req.Items,
		CartTotal:   req.CartTotal,
		AbandonedAt: now,
		CreatedAt:   now,
	}
	cartID, err := s.store.UpsertOpenCart(ctx, cart)
	if err != nil {
		return nil, domain.Wrap(domain.KindTransient, "failed to record abandoned cart", err)
	}

	s.recordEventAsync(req.CustomerID, "", domain.EventTypeCartAbandoned, map[string]interface{}{
		"cart_id":    cartID,
		"cart_total": req.CartTotal,
	})

	stored, err := s.store.GetCart(ctx, cartID)
	if err != nil {
		return nil, domain.Wrap(domain.KindTransient, "failed to load cart", err)
	}
	return &domain.AbandonmentResponse{CartID: cartID, Stage: stored.Stage()}, nil
}

// MarkRecovered flips a cart to its terminal recovered state. Idempotent:
// recovering an already-recovered cart is a no-op success.
func (s *Service) MarkRecovered(ctx context.Context, cartID string) error {
	flipped, err := s.store.MarkCartRecovered(ctx, cartID)
	if err != nil {
		return domain.Wrap(domain.KindTransient, "failed to mark cart recovered", err)
	}
	if flipped {
		metrics.CartsRecovered.Inc()
		return nil
	}
	cart, err := s.store.GetCart(ctx, cartID)
	if err != nil {
		return domain.Wrap(domain.KindTransient, "failed to load cart", err)
	}
	if cart == nil {
		return domain.Ef(domain.KindNotFound, "cart %s not found", cartID)
	}
	return nil
}

// RecoverCarts sends first reminders to carts inside the first-reminder
// window. Each cart is claimed before its email goes out; a send failure
// releases the claim without advancing reminder state, so the cart stays
// eligible for the next scheduled pass.
func (s *Service) RecoverCarts(ctx context.Context) *domain.JobSummary {
	return s.reminderPass(ctx, 1)
}

// SendSecondReminders sends second reminders to once-reminded carts inside
// the second-reminder window.
func (s *Service) SendSecondReminders(ctx context.Context) *domain.JobSummary {
	return s.reminderPass(ctx, 2)
}

func (s *Service) reminderPass(ctx context.Context, reminder int) *domain.JobSummary {
	summary := &domain.JobSummary{}
	w := s.config.Tunables.Windows
	now := s.now()

	var oldest, newest time.Time
	if reminder == 1 {
		oldest = now.Add(-time.Duration(w.FirstMaxHours) * time.Hour)
		newest = now.Add(-time.Duration(w.FirstMinHours) * time.Hour)
	} else {
		oldest = now.Add(-time.Duration(w.SecondMaxHours) * time.Hour)
		newest = now.Add(-time.Duration(w.SecondMinHours) * time.Hour)
	}

	// Pages advance a cursor over the eligibility sort key so a cart that
	// fails is attempted at most once per pass; it re-enters on the next
	// scheduled pass while it is still inside the window.
	cursor := oldest
	for {
		var carts []domain.AbandonedCart
		var err error
		if reminder == 1 {
			carts, err = s.store.ListCartsForFirstReminder(ctx, cursor, newest, s.config.BatchPageSize)
		} else {
			carts, err = s.store.ListCartsForSecondReminder(ctx, cursor, newest, s.config.BatchPageSize)
		}
		if err != nil {
			s.logger.Warn("reminder page load failed", zap.Int("reminder", reminder), zap.Error(err))
			summary.Add("page", err)
			return summary
		}
		if len(carts) == 0 {
			return summary
		}

		for i := range carts {
			cart := &carts[i]
			itemCtx, cancel := context.WithTimeout(ctx, s.config.ItemTimeout)
			err := s.processReminder(itemCtx, cart, reminder)
			cancel()
			if err == nil || !domain.IsKind(err, domain.KindPrecondition) {
				// Precondition means another claimant got there first; that
				// is not an outcome of this pass.
				summary.Add(cart.CartID, err)
			}
			if err != nil {
				s.logger.Warn("reminder failed",
					zap.String("cart_id", cart.CartID),
					zap.Int("reminder", reminder),
					zap.Error(err))
			}
		}

		last := carts[len(carts)-1]
		if reminder == 1 {
			cursor = last.AbandonedAt.Add(time.Millisecond)
		} else if last.LastReminderAt != nil {
			cursor = last.LastReminderAt.Add(time.Millisecond)
		} else {
			return summary
		}
	}
}

// processReminder claims one cart, re-reads it and re-evaluates the
// transition under the claim, then sends the email and commits the new
// state. The claim guard carries the reminder precondition, so a listing
// snapshot whose cart was already advanced by a concurrent pass fails to
// claim and never reaches the mailer.
func (s *Service) processReminder(ctx context.Context, cart *domain.AbandonedCart, reminder int) error {
	now := s.now()
	claimed, err := s.store.ClaimCart(ctx, cart.CartID, reminder, now, s.config.ClaimTTL)
	if err != nil {
		return domain.Wrap(domain.KindTransient, "failed to claim cart", err)
	}
	if !claimed {
		return domain.Ef(domain.KindPrecondition, "cart %s already claimed or advanced", cart.CartID)
	}

	// The listing snapshot is stale by now; evaluate the record as claimed.
	fresh, err := s.store.GetCart(ctx, cart.CartID)
	if err != nil {
		_ = s.store.ReleaseCartClaim(ctx, cart.CartID)
		return domain.Wrap(domain.KindTransient, "failed to reload cart", err)
	}
	if fresh == nil {
		return domain.Ef(domain.KindPrecondition, "cart %s gone under claim", cart.CartID)
	}
	cart = fresh

	action := EvaluateCart(now, cart, s.config.Tunables.Windows)
	wanted := ActionSendFirst
	if reminder == 2 {
		wanted = ActionSendSecond
	}
	if action != wanted {
		_ = s.store.ReleaseCartClaim(ctx, cart.CartID)
		return domain.Ef(domain.KindPrecondition, "cart %s no longer eligible", cart.CartID)
	}

	code := cart.DiscountCode
	if reminder == 1 {
		code, err = s.recoveryCode(ctx, cart)
		if err != nil && !domain.IsKind(err, domain.KindPrecondition) {
			_ = s.store.ReleaseCartClaim(ctx, cart.CartID)
			return err
		}
		// A policy veto just means the reminder carries no code.
	}

	template := "cart_reminder_first"
	if reminder == 2 {
		template = "cart_reminder_second"
	}
	vars := map[string]interface{}{
		"cart_id":    cart.CartID,
		"cart_total": cart.CartTotal,
		"item_count": len(cart.Items),
	}
	if code != "" {
		vars["discount_code"] = code
	}
	if err := s.mailer.Send(ctx, template, cart.CustomerID, vars); err != nil {
		metrics.RecoveryEmails.WithLabelValues(strconv.Itoa(reminder), "failed").Inc()
		_ = s.store.ReleaseCartClaim(ctx, cart.CartID)
		return domain.Wrap(domain.KindTransient, "failed to send reminder email", err)
	}

	committed, err := s.store.CommitReminder(ctx, cart.CartID, reminder, code, now)
	if err != nil {
		return domain.Wrap(domain.KindTransient, "failed to commit reminder", err)
	}
	if !committed {
		_ = s.store.ReleaseCartClaim(ctx, cart.CartID)
		return domain.Ef(domain.KindPrecondition, "cart %s state moved under claim", cart.CartID)
	}
	metrics.RecoveryEmails.WithLabelValues(strconv.Itoa(reminder), "sent").Inc()
	return nil
}

// recoveryCode mints the recovery discount for a cart, subject to policy.
// Returns a precondition error when policy vetoes the discount.
func (s *Service) recoveryCode(ctx context.Context, cart *domain.AbandonedCart) (string, error) {
	customer, err := s.store.GetOrCreateCustomer(ctx, cart.CustomerID)
	if err != nil {
		return "", domain.Wrap(domain.KindTransient, "failed to load customer", err)
	}
	offer, err := s.offerForSegment(ctx, customer.Segment, policy.Input{
		Segment:   string(customer.Segment),
		Context:   "recovery",
		CartTotal: cart.CartTotal,
	})
	if err != nil {
		return "", err
	}
	return offer.Code, nil
}

// recordEventAsync appends an interaction event off the request path.
// Recording is fire-and-forget: a store failure is logged, never surfaced.
func (s *Service) recordEventAsync(customerID, sessionID string, eventType domain.EventType, payload map[string]interface{}) {
	data, _ := json.Marshal(payload)
	event := &domain.InteractionEvent{
		EventID:    uuid.NewString(),
		CustomerID: customerID,
		SessionID:  sessionID,
		Type:       eventType,
		Payload:    data,
		CreatedAt:  s.now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.ItemTimeout)
		defer cancel()
		if err := s.store.CreateEvent(ctx, event); err != nil {
			s.logger.Warn("failed to record interaction event",
				zap.String("type", string(eventType)),
				zap.Error(err))
		}
	}()
}
