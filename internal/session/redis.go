package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shoplift/engage/internal/domain"
)

// RedisStore keeps session context in Redis so chat survives process
// restarts and scales across replicas.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis using the given URL.
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl}, nil
}

func sessionKey(sessionID string) string {
	return "chat:session:" + sessionID
}

// Get returns the stored context, or nil when absent or expired.
func (r *RedisStore) Get(ctx context.Context, sessionID string) (*domain.SessionContext, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sc domain.SessionContext
	if err := json.Unmarshal([]byte(data), &sc); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sc, nil
}

// Save stores the context, refreshing its TTL.
func (r *RedisStore) Save(ctx context.Context, sc *domain.SessionContext) error {
	data, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(sc.SessionID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes the session context.
func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, sessionKey(sessionID)).Err()
}

// Close releases the client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
