package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	bandKeyPrefix       = "gigpack:band:"
	gigPackSlugPrefix   = "gigpack:slug:"
	defaultBandCacheTTL = 5 * time.Minute
	defaultSlugCacheTTL = time.Minute
)

// Cache is the subset of the Redis API the caching decorators need.
// *redis.Client from pkg/redis satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// getJSON reads key into dst; any failure counts as a miss
func getJSON(ctx context.Context, cache Cache, key string, dst interface{}) bool {
	cached, err := cache.Get(ctx, key).Result()
	if err != nil || cached == "" {
		return false
	}
	return json.Unmarshal([]byte(cached), dst) == nil
}

func setJSON(ctx context.Context, cache Cache, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	cache.Set(ctx, key, string(data), ttl)
}
