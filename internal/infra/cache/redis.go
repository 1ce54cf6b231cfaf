package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis is a Redis-backed implementation of port.Cache. Values are stored as
// JSON under "<prefix>:<key>". Redis failures degrade to cache misses rather
// than surfacing errors to callers.
type Redis[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedis creates a Redis cache client for the given address.
func NewRedis[T any](addr, prefix string, ttl time.Duration, logger *zap.Logger) *Redis[T] {
	return &Redis[T]{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

func (r *Redis[T]) key(key string) string {
	return r.prefix + ":" + key
}

// Get retrieves a value. Returns false on miss, expiry, or Redis error.
func (r *Redis[T]) Get(key string) (T, bool) {
	var zero T
	raw, err := r.client.Get(context.Background(), r.key(key)).Result()
	if err == redis.Nil {
		return zero, false
	}
	if err != nil {
		r.logger.Warn("redis cache: get failed", zap.String("key", key), zap.Error(err))
		return zero, false
	}

	var value T
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		r.logger.Warn("redis cache: decode failed", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	return value, true
}

// Set stores a value with the configured TTL. Failures are logged and dropped.
func (r *Redis[T]) Set(key string, value T) {
	raw, err := json.Marshal(value)
	if err != nil {
		r.logger.Warn("redis cache: encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := r.client.Set(context.Background(), r.key(key), raw, r.ttl).Err(); err != nil {
		r.logger.Warn("redis cache: set failed", zap.String("key", key), zap.Error(err))
	}
}

// Delete removes a value.
func (r *Redis[T]) Delete(key string) {
	if err := r.client.Del(context.Background(), r.key(key)).Err(); err != nil {
		r.logger.Warn("redis cache: delete failed", zap.String("key", key), zap.Error(err))
	}
}
