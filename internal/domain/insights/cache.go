package insights

import (
	"context"
	"time"
)

// Cache stores serialized behavior results; implementations live in
// internal/cache (in-memory and Redis).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

type noopCache struct{}

func (noopCache) Get(context.Context, string) ([]byte, bool)             { return nil, false }
func (noopCache) Set(context.Context, string, []byte, time.Duration)     {}
func (noopCache) Delete(context.Context, string)                         {}
