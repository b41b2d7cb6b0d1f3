package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	scanCount = 100

	staleKeyPrefix = "stale:"
)

// Redis is cache storing JSON encoded values in Redis under common key prefix.
// Every value is also kept without expiry under stale key for stale reads.
type Redis[T any] struct {
	client redis.Cmdable
	prefix string
}

// NewRedis returns new Redis cache storing keys under prefix.
func NewRedis[T any](client redis.Cmdable, prefix string) *Redis[T] {
	return &Redis[T]{
		client: client,
		prefix: prefix,
	}
}

// Get returns value stored under key. Expiry is handled by Redis.
func (r *Redis[T]) Get(ctx context.Context, key string) (T, bool, error) {
	return r.get(ctx, r.prefix+key)
}

// GetStale returns last value stored under key, expired or not.
func (r *Redis[T]) GetStale(ctx context.Context, key string) (T, bool, error) {
	return r.get(ctx, r.staleKey(key))
}

func (r *Redis[T]) get(ctx context.Context, key string) (T, bool, error) {
	var value T

	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return value, false, nil
	}
	if err != nil {
		return value, false, fmt.Errorf("can't get cached value: %w", err)
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		return value, false, fmt.Errorf("can't decode cached value: %w", err)
	}

	return value, true, nil
}

// Set stores value under key for ttl.
func (r *Redis[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("can't encode value: %w", err)
	}

	if err := r.client.Set(ctx, r.prefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("can't set cached value: %w", err)
	}

	if err := r.client.Set(ctx, r.staleKey(key), raw, 0).Err(); err != nil {
		return fmt.Errorf("can't set stale value: %w", err)
	}

	return nil
}

// Delete removes value stored under key.
func (r *Redis[T]) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key, r.staleKey(key)).Err(); err != nil {
		return fmt.Errorf("can't delete cached value: %w", err)
	}

	return nil
}

func (r *Redis[T]) staleKey(key string) string {
	return r.prefix + staleKeyPrefix + key
}

// Clear removes all values stored under cache prefix, stale ones included.
func (r *Redis[T]) Clear(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", scanCount).Result()
		if err != nil {
			return fmt.Errorf("can't scan cached keys: %w", err)
		}

		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("can't delete cached keys: %w", err)
			}
		}

		if next == 0 {
			return nil
		}
		cursor = next
	}
}
