package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares window counters across instances, for deployments
// where the intake handler runs in more than one process.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed fixed-window store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) key(key string) string {
	return fmt.Sprintf("lead:rate:%s", key)
}

// Incr implements Store. The window TTL is attached when the key is
// first created, so expiry replaces the in-memory sweep.
func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := s.client.Incr(ctx, s.key(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("ratelimit: incr: %w", err)
	}
	if count == 1 {
		if err := s.client.PExpire(ctx, s.key(key), window).Err(); err != nil {
			return 0, fmt.Errorf("ratelimit: expire: %w", err)
		}
	}
	return count, nil
}
