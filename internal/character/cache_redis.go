// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package character

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/rickdex/internal/platform/codec"
	"github.com/taibuivan/rickdex/internal/platform/constants"
)

// RedisCache is a [Cache] shared by every API replica. Expiry is delegated
// to Redis key TTLs.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache builds a RedisCache over an already connected client.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get implements [Cache].
func (cache *RedisCache) Get(context context.Context, key string, dst any) (bool, error) {
	data, err := cache.client.Get(context, constants.RedisPrefixUpstream+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis cache: get %s: %w", key, err)
	}

	if err := codec.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("redis cache: decode %s: %w", key, err)
	}
	return true, nil
}

// Set implements [Cache].
func (cache *RedisCache) Set(context context.Context, key string, value any) error {
	data, err := codec.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis cache: encode %s: %w", key, err)
	}

	if err := cache.client.Set(context, constants.RedisPrefixUpstream+key, data, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis cache: set %s: %w", key, err)
	}
	return nil
}
