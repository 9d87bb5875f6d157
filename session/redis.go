package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "adminauth:access_token"

// RedisStore shares the token between instances through a single Redis key.
// Intended for deployments where the admin client runs behind more than one
// process and the session must be visible to all of them.
type RedisStore struct {
	redis redis.UniversalClient
	key   string
	ttl   time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a store on the given client. An empty key selects
// the default; ttl 0 keeps the token until it is cleared, a positive ttl
// lets Redis expire it so a forgotten session does not outlive its token.
func NewRedisStore(client redis.UniversalClient, key string, ttl time.Duration) *RedisStore {
	if key == "" {
		key = defaultRedisKey
	}
	return &RedisStore{redis: client, key: key, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context) (string, bool, error) {
	token, err := s.redis.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return token, true, nil
}

func (s *RedisStore) Set(ctx context.Context, token string) error {
	if token == "" {
		return s.Clear(ctx)
	}
	if err := s.redis.Set(ctx, s.key, token, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.redis.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}
