package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"go.uber.org/zap"

	"github.com/shoplift/engage/internal/domain"
	"github.com/shoplift/engage/internal/intent"
	"github.com/shoplift/engage/internal/metrics"
)

const chatRecommendLimit = 3

// canned replies for intents that need no engine. Fallbacks live in the
// tunables so the copy is configurable.
var cannedReplies = map[domain.Intent]string{
	domain.IntentGreeting: "Hi there! I can help you find products, check offers or answer store questions.",
	domain.IntentCart:     "You can review your cart and check out any time from the cart icon up top. Anything in there you have questions about?",
	domain.IntentShipping: "Standard shipping takes 3-5 business days; express is 1-2. You'll get a tracking link as soon as your order ships.",
	domain.IntentHours:    "We're online 24/7, and our support team answers between 9am and 6pm on weekdays.",
	domain.IntentLocation: "We're a pure online store - no physical branches, but we deliver nationwide.",
	domain.IntentThanks:   "You're welcome! Anything else I can help with?",
	domain.IntentGoodbye:  "Thanks for stopping by. See you next time!",
	domain.IntentHelp:     "I can recommend products, look up current offers, and answer questions about shipping, orders and the store. What do you need?",
}

// HandleMessage classifies one inbound chat message and routes it to the
// matching engine. The dispatcher owns routing and session context only; all
// business decisions stay in the engines.
func (s *Service) HandleMessage(ctx context.Context, sessionID, customerID, text string) (*domain.ChatReply, error) {
	if sessionID == "" {
		return nil, domain.E(domain.KindValidation, "session_id is required")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.E(domain.KindValidation, "text must not be empty")
	}

	sctx, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		s.logger.Warn("session load failed, continuing with fresh context",
			zap.String("session_id", sessionID), zap.Error(err))
	}
	if sctx == nil {
		sctx = &domain.SessionContext{SessionID: sessionID, CustomerID: customerID}
	}

	classified := intent.Classify(text)
	metrics.IntentsClassified.WithLabelValues(string(classified)).Inc()

	s.recordEventAsync(customerID, sessionID, domain.EventTypeChatMessage, map[string]interface{}{
		"text":   text,
		"intent": string(classified),
	})

	reply := s.dispatch(ctx, classified, customerID)

	sctx.LastIntent = classified
	sctx.MessageCount++
	for _, att := range reply.Attachments {
		if att.Kind == domain.AttachmentOffer && att.Offer != nil {
			sctx.LastOfferCode = att.Offer.Code
		}
	}
	if err := s.sessions.Save(ctx, sctx); err != nil {
		s.logger.Warn("session save failed", zap.String("session_id", sessionID), zap.Error(err))
	}

	return reply, nil
}

// dispatch maps the classified intent to a handler. Engine failures degrade
// to a safe reply; the chat surface never shows a raw error.
func (s *Service) dispatch(ctx context.Context, classified domain.Intent, customerID string) *domain.ChatReply {
	switch classified {
	case domain.IntentRecommendation:
		return s.recommendationReply(ctx, customerID)
	case domain.IntentDiscount:
		return s.offerReply(ctx, customerID)
	case domain.IntentFallback:
		replies := s.config.Tunables.FallbackReplies
		return &domain.ChatReply{
			Intent:    domain.IntentFallback,
			ReplyText: replies[rand.IntN(len(replies))],
		}
	default:
		return &domain.ChatReply{Intent: classified, ReplyText: cannedReplies[classified]}
	}
}

// isGuest reports whether the customer id identifies no store member.
func isGuest(customerID string) bool {
	return customerID == "" || strings.HasPrefix(customerID, "guest-")
}

func (s *Service) recommendationReply(ctx context.Context, customerID string) *domain.ChatReply {
	mode := domain.ModeTrending
	if !isGuest(customerID) {
		mode = domain.ModePersonalized
	}
	products, err := s.Recommend(ctx, domain.RecommendRequest{
		Mode:       mode,
		CustomerID: customerID,
		Limit:      chatRecommendLimit,
	})
	if err != nil {
		s.logger.Warn("chat recommendation failed", zap.String("mode", string(mode)), zap.Error(err))
		return &domain.ChatReply{
			Intent:    domain.IntentRecommendation,
			ReplyText: "I don't have anything to recommend just yet - check back soon!",
		}
	}

	return &domain.ChatReply{
		Intent:    domain.IntentRecommendation,
		ReplyText: "Here are some picks I think you'll like:",
		Attachments: []domain.ChatAttachment{
			{Kind: domain.AttachmentProductList, Products: products},
		},
	}
}

func (s *Service) offerReply(ctx context.Context, customerID string) *domain.ChatReply {
	if isGuest(customerID) {
		return &domain.ChatReply{
			Intent:    domain.IntentDiscount,
			ReplyText: "Sign in and I can fetch a personal offer for you!",
		}
	}

	offer, err := s.PersonalizedOffer(ctx, customerID)
	if err != nil {
		s.logger.Warn("chat offer failed", zap.String("customer_id", customerID), zap.Error(err))
		return &domain.ChatReply{
			Intent:    domain.IntentDiscount,
			ReplyText: "No offers available for you right now, but keep an eye out - new ones drop regularly.",
		}
	}

	return &domain.ChatReply{
		Intent:    domain.IntentDiscount,
		ReplyText: fmt.Sprintf("%s - use code %s for %.0f%% off. %s", offer.Title, offer.Code, offer.DiscountPercent, offer.Description),
		Attachments: []domain.ChatAttachment{
			{Kind: domain.AttachmentOffer, Offer: offer},
		},
	}
}
