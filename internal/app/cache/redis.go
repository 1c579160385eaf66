package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"voice-recap/internal/app/model"
)

// DefaultTTL is how long a cached result stays valid.
const DefaultTTL = 24 * time.Hour

// ResultCache stores finished pipeline results keyed by the SHA256 of the
// raw upload, so re-uploading the same recording skips transcription.
type ResultCache interface {
	Get(ctx context.Context, key string) (*model.PipelineResult, bool)
	Set(ctx context.Context, key string, result *model.PipelineResult)
}

// RedisCache implements ResultCache on Redis. Cache misses and Redis
// failures look the same to the caller: process the upload again.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a result cache with the given TTL; a non-positive
// TTL uses DefaultTTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*model.PipelineResult, bool) {
	data, err := c.client.Get(ctx, cacheKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// Treat Redis trouble as a miss; the pipeline is the fallback.
			return nil, false
		}
		return nil, false
	}

	var result model.PipelineResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (c *RedisCache) Set(ctx context.Context, key string, result *model.PipelineResult) {
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	c.client.Set(ctx, cacheKey(key), data, c.ttl)
}

func cacheKey(hash string) string {
	return "recap:result:" + hash
}

// Noop is the cache used when Redis is not configured.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) (*model.PipelineResult, bool) { return nil, false }
func (Noop) Set(ctx context.Context, key string, result *model.PipelineResult) {}
