package cache

import (
	"context"
	"time"
)

// noopCache always misses. Used when caching is disabled or redis is not configured.
type noopCache struct{}

func NewNoopCache() RedisCache {
	return noopCache{}
}

func (noopCache) Save(context.Context, string, any, int) error { return nil }

func (noopCache) Get(context.Context, string, any) error { return Nil }

func (noopCache) Delete(context.Context, string) error { return nil }

func (noopCache) Clear(context.Context, string) error { return nil }

func (noopCache) Incr(context.Context, string, time.Duration) (int64, error) { return 0, nil }
