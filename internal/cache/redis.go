package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"family-journal-go/pkg/logger"
)

// RedisStore backs the cache with Redis so cached results survive restarts
// and are shared between instances. Errors degrade to cache misses.
type RedisStore struct {
	client *redis.Client
	log    logger.Logger
}

func NewRedisStore(client *redis.Client, log logger.Logger) *RedisStore {
	return &RedisStore{client: client, log: log}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.log.Warn("redis get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return value, true
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.log.Warn("redis set failed", "key", key, "error", err)
	}
}

func (s *RedisStore) Delete(ctx context.Context, key string) {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.log.Warn("redis delete failed", "key", key, "error", err)
	}
}
