// Package cache holds the Redis-backed kanban config cache and event publisher.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis wraps a go-redis client with JSON helpers.
type Redis struct {
	client *redis.Client
	logger *zap.Logger
}

// New wraps client. A nil client yields a nil *Redis, which every helper
// treats as a permanent cache miss.
func New(client *redis.Client, logger *zap.Logger) *Redis {
	if client == nil {
		return nil
	}
	return &Redis{client: client, logger: logger.With(zap.String("component", "redis_cache"))}
}

// SetJSON caches a value as JSON with the provided TTL.
func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

// GetJSON retrieves a JSON value into dest. found is false on a miss.
func (r *Redis) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if r == nil {
		return false, nil
	}
	res, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(res, dest); err != nil {
		return false, fmt.Errorf("json unmarshal: %w", err)
	}
	return true, nil
}

// Delete removes keys.
func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if r == nil || len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// PublishJSON publishes value as JSON on channel.
func (r *Redis) PublishJSON(ctx context.Context, channel string, value any) error {
	if r == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	return r.client.Publish(ctx, channel, data).Err()
}
