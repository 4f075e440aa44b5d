package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "dialog:session:"

// RedisStore keeps each session's attributes as a JSON string with a TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store backed by Redis. A zero ttl keeps keys forever.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (map[string]string, error) {
	if sessionID == "" {
		return nil, ErrSessionIDRequired
	}
	data, err := s.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("session: redis get: %w", err)
	}
	attrs := map[string]string{}
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, fmt.Errorf("session: unmarshal: %w", err)
	}
	return attrs, nil
}

func (s *RedisStore) Save(ctx context.Context, sessionID string, attrs map[string]string) error {
	if sessionID == "" {
		return ErrSessionIDRequired
	}
	if attrs == nil {
		attrs = map[string]string{}
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	if err := s.rdb.Set(ctx, sessionKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: redis set: %w", err)
	}
	return nil
}
