// Package session stores per-conversation context with a TTL. Conversation
// state is session-scoped only; nothing here outlives the browsing session.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/shoplift/engage/internal/domain"
)

// Store persists conversational context keyed by session id.
type Store interface {
	Get(ctx context.Context, sessionID string) (*domain.SessionContext, error)
	Save(ctx context.Context, sc *domain.SessionContext) error
	Delete(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	ctx       domain.SessionContext
	expiresAt time.Time
}

// MemoryStore is the in-process implementation, used when no Redis is
// configured and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

// NewMemoryStore creates an in-memory session store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

// Get returns the stored context, or nil when absent or expired.
func (m *MemoryStore) Get(ctx context.Context, sessionID string) (*domain.SessionContext, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[sessionID]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(m.entries, sessionID)
		return nil, nil
	}
	sc := entry.ctx
	return &sc, nil
}

// Save stores the context, refreshing its TTL.
func (m *MemoryStore) Save(ctx context.Context, sc *domain.SessionContext) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[sc.SessionID] = memoryEntry{
		ctx:       *sc,
		expiresAt: time.Now().Add(m.ttl),
	}
	return nil
}

// Delete removes the session context.
func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, sessionID)
	return nil
}
