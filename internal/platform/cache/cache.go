/*
Package cache stores JSON-encoded read models in Redis.

Entries are grouped by tags (for example "novel:12") so that a write can drop
every localized variant of an entity without knowing which languages were
requested. Each tag is a Redis set holding the keys written under it.
*/
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/encoding/json"

	"github.com/nathanpasca/manov-sub001/internal/platform/constants"
)

// Cache is the behaviour services depend on.
type Cache interface {
	// Get decodes the value stored at key into dest. It reports false on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores value at key for ttl and records the key under every tag.
	Set(ctx context.Context, key string, value any, ttl time.Duration, tags ...string) error
	// Invalidate deletes every key recorded under the given tags.
	Invalidate(ctx context.Context, tags ...string) error
}

// Key joins parts with ':' into a cache key.
func Key(parts ...any) string {
	segments := make([]string, len(parts))
	for i, part := range parts {
		segments[i] = fmt.Sprint(part)
	}
	return strings.Join(segments, ":")
}

// # Redis implementation

// RedisCache is the Redis-backed [Cache].
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps a connected client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get implements [Cache].
func (cache *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := cache.client.Get(ctx, constants.RedisPrefixCache+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache: get %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		// A payload that no longer matches the read model is treated as a miss.
		_ = cache.client.Del(ctx, constants.RedisPrefixCache+key).Err()
		return false, nil
	}
	return true, nil
}

// Set implements [Cache].
func (cache *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration, tags ...string) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: encode %s: %w", key, err)
	}

	fullKey := constants.RedisPrefixCache + key
	_, err = cache.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, fullKey, payload, ttl)
		for _, tag := range tags {
			tagKey := constants.RedisPrefixCacheTag + tag
			pipe.SAdd(ctx, tagKey, fullKey)
			// The tag set outlives its members by one TTL at most.
			pipe.Expire(ctx, tagKey, 2*ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}

// Invalidate implements [Cache].
func (cache *RedisCache) Invalidate(ctx context.Context, tags ...string) error {
	for _, tag := range tags {
		tagKey := constants.RedisPrefixCacheTag + tag

		keys, err := cache.client.SMembers(ctx, tagKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("cache: read tag %s: %w", tag, err)
		}

		if err := cache.client.Del(ctx, append(keys, tagKey)...).Err(); err != nil {
			return fmt.Errorf("cache: invalidate tag %s: %w", tag, err)
		}
	}
	return nil
}

// # No-op implementation

// Noop never stores anything. It backs tests and deployments without a cache.
type Noop struct{}

// Get implements [Cache].
func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }

// Set implements [Cache].
func (Noop) Set(context.Context, string, any, time.Duration, ...string) error { return nil }

// Invalidate implements [Cache].
func (Noop) Invalidate(context.Context, ...string) error { return nil }
