package v1

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/shoplift/engage/internal/adapter/mailer"
	"github.com/shoplift/engage/internal/config"
	store "github.com/shoplift/engage/internal/repository"
	"github.com/shoplift/engage/internal/service"
	"github.com/shoplift/engage/internal/session"
	"github.com/shoplift/engage/policy"
	"github.com/shoplift/engage/tests/helpers"
)

func newTestHandler(t *testing.T) (*Handler, *store.SQLiteStore) {
	t.Helper()

	db := helpers.NewTestSQLiteStore(t)

	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		t.Fatalf("failed to create policy engine: %v", err)
	}

	cfg := &config.Config{
		MailerTimeout: time.Second,
		ItemTimeout:   5 * time.Second,
		BatchPageSize: 10,
		ClaimTTL:      5 * time.Minute,
		Tunables:      config.DefaultTunables(),
	}

	svc := service.New(
		db,
		mailer.NewClient("", cfg.MailerTimeout),
		session.NewMemoryStore(cfg.Tunables.SessionTTL()),
		engine,
		cfg,
		zap.NewNop(),
	)
	return NewHandler(svc), db
}
