package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"crowdfix/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrCacheMiss = errors.New("cache miss")

// Cache holds JSON values with an expiry. The reference server uses it for
// read-through caching of listings.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

type redisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache namespaces every key under prefix so the listing cache can
// share a redis database with client-side stores.
func NewRedisCache(client *redis.Client, prefix string) Cache {
	return &redisCache{client: client, prefix: prefix}
}

func (r *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return fmt.Errorf("failed to decode cache key %s: %w", key, err)
	}
	return nil
}

func (r *redisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache key %s: %w", key, err)
	}
	return r.client.Set(ctx, r.prefix+key, data, expiration).Err()
}

func (r *redisCache) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

type noCache struct{}

// NewNoCache returns a Cache that never stores anything.
func NewNoCache() Cache { return noCache{} }

func (noCache) Get(context.Context, string, interface{}) error { return ErrCacheMiss }

func (noCache) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (noCache) Delete(context.Context, string) error { return nil }

// Remember serves key from cache, or calls load and caches its result for
// ttl. Cache failures are logged and never fail the request.
func Remember[T any](ctx context.Context, cache Cache, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	err := cache.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		logger.Log.Warn("Cache unavailable", zap.String("key", key), zap.Error(err))
	}

	fresh, err := load(ctx)
	if err != nil {
		return fresh, err
	}
	if err := cache.Set(ctx, key, fresh, ttl); err != nil {
		logger.Log.Warn("Failed to populate cache", zap.String("key", key), zap.Error(err))
	}
	return fresh, nil
}
