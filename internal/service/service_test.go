package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/shoplift/engage/internal/config"
	store "github.com/shoplift/engage/internal/repository"
	"github.com/shoplift/engage/internal/session"
	"github.com/shoplift/engage/policy"
)

// fakeMailer records sends and fails on demand.
type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

type sentMail struct {
	TemplateID string
	Recipient  string
	Variables  map[string]interface{}
}

func (m *fakeMailer) Send(ctx context.Context, templateID, recipient string, variables map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return context.DeadlineExceeded
	}
	m.sent = append(m.sent, sentMail{TemplateID: templateID, Recipient: recipient, Variables: variables})
	return nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *fakeMailer) lastSent() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

func (m *fakeMailer) setFail(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fail
}

func newTestService(t *testing.T) (*Service, *store.SQLiteStore, *fakeMailer) {
	t.Helper()

	db, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

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

	mailer := &fakeMailer{}
	sessions := session.NewMemoryStore(cfg.Tunables.SessionTTL())
	svc := New(db, mailer, sessions, engine, cfg, zap.NewNop())
	return svc, db, mailer
}

// fixNow pins the service clock.
func fixNow(svc *Service, at time.Time) {
	svc.now = func() time.Time { return at }
}
