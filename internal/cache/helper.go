package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// GetJSON loads a cached value into dest. Returns false on miss or when the
// cache is unavailable; cache failures never fail the request.
func GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if client == nil {
		return false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// SetJSON stores a value as JSON with the given TTL, best effort.
func SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, ttl)
}

// Aside implements the cache-aside pattern: return the cached value when
// present, otherwise load, cache, and return it.
func Aside[T any](ctx context.Context, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	if GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	loaded, err := load(ctx)
	if err != nil {
		return loaded, err
	}
	SetJSON(ctx, key, loaded, ttl)
	return loaded, nil
}

// IsCacheMiss reports whether err is the Redis nil-reply sentinel.
func IsCacheMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
