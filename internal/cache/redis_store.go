package cache

import (
	"context"
	"log"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// RedisStore is a Store backed by Redis with per-key TTL. Backend
// errors are logged and surfaced as misses so a degraded Redis never
// breaks a search request.
type RedisStore struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewRedisStore(client *redisv9.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err == redisv9.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("redis cache get %s failed: %v", key, err)
		return nil, false
	}
	return raw, true
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) {
	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		log.Printf("redis cache set %s failed: %v", key, err)
	}
}
