package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements [Store] on Redis for deployments that run several
// server instances without a shared filesystem. Records carry the same
// shape as the file store; Redis key expiry mirrors the computed expiry so
// stale records also age out server-side.
type RedisStore struct {
	client     redis.UniversalClient
	prefix     string
	defaultTTL time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore returns a store writing under prefix. An empty prefix
// defaults to "covsess".
func NewRedisStore(client redis.UniversalClient, prefix string, defaultTTL time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "covsess"
	}
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}
	return &RedisStore{client: client, prefix: prefix, defaultTTL: defaultTTL}
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + ":" + sessionID
}

func (s *RedisStore) Get(ctx context.Context, sessionID string) (*Session, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: redis get: %w", ErrStoreIO, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil || rec.Session == nil {
		_ = s.client.Del(ctx, s.key(sessionID)).Err()
		return nil, ErrNotFound
	}

	if rec.expired(time.Now()) {
		_ = s.client.Del(ctx, s.key(sessionID)).Err()
		return nil, ErrNotFound
	}

	return rec.Session, nil
}

func (s *RedisStore) Set(ctx context.Context, sessionID string, sess *Session, policy CookiePolicy) error {
	now := time.Now()
	rec := record{
		ExpiresAt: computeExpiry(now, policy, s.defaultTTL),
		Session:   sess,
	}
	ttl := time.UnixMilli(rec.ExpiresAt).Sub(now)
	if ttl <= 0 {
		// An already-expired policy writes nothing; the session is gone.
		return s.Destroy(ctx, sessionID)
	}

	data, err := json.Marshal(&rec)
	if err != nil {
		return fmt.Errorf("%w: encode session: %w", ErrStoreIO, err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: redis set: %w", ErrStoreIO, err)
	}
	return nil
}

func (s *RedisStore) Destroy(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("%w: redis del: %w", ErrStoreIO, err)
	}
	return nil
}

func (s *RedisStore) Touch(ctx context.Context, sessionID string, sess *Session, policy CookiePolicy) error {
	return s.Set(ctx, sessionID, sess, policy)
}
