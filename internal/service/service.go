// Package service implements the decision engines.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shoplift/engage/internal/config"
	store "github.com/shoplift/engage/internal/repository"
	"github.com/shoplift/engage/internal/session"
	"github.com/shoplift/engage/policy"
)

// Mailer delivers templated emails; the transport is a collaborator.
type Mailer interface {
	Send(ctx context.Context, templateID, recipient string, variables map[string]interface{}) error
}

// Service wires the engines to the store and collaborators.
type Service struct {
	store    store.Store
	mailer   Mailer
	sessions session.Store
	policy   *policy.Engine
	config   *config.Config
	logger   *zap.Logger

	// now is swappable so the time-based state machines are testable.
	now func() time.Time
}

// New creates the service.
func New(st store.Store, mailer Mailer, sessions session.Store, policyEngine *policy.Engine, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		store:    st,
		mailer:   mailer,
		sessions: sessions,
		policy:   policyEngine,
		config:   cfg,
		logger:   logger,
		now:      time.Now,
	}
}
