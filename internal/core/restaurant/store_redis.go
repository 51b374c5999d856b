// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

package restaurant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/minhdao/restora/internal/platform/constants"
)

// RedisCache implements [Cache] for restaurant detail lookups by slug.
//
// Entries are serialized JSON with a bounded TTL; writes after profile
// or media changes go through [Invalidate], not [Set], so the next read
// repopulates from the database.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis-backed restaurant cache.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func cacheKey(slug string) string {
	return constants.RedisPrefixRestaurantSlug + slug
}

/*
GetBySlug returns the cached restaurant for a slug.

Description: A cache miss is (nil, nil). An entry that fails to
deserialize is treated as a miss as well — stale shapes from older
deployments must not break reads.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Restaurant: The cached entity, or nil on a miss
  - error: Connectivity errors only
*/
func (cache *RedisCache) GetBySlug(context context.Context, slug string) (*Restaurant, error) {
	payload, err := cache.client.Get(context, cacheKey(slug)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis_restaurant_get_failed: %w", err)
	}

	r := &Restaurant{}
	if err := json.Unmarshal(payload, r); err != nil {
		return nil, nil
	}

	return r, nil
}

/*
Set stores a restaurant under its slug with the standard TTL.

Parameters:
  - context: context.Context
  - r: *Restaurant

Returns:
  - error: Serialization or storage failures
*/
func (cache *RedisCache) Set(context context.Context, r *Restaurant) error {
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("redis_restaurant_marshal_failed: %w", err)
	}

	if err := cache.client.Set(context, cacheKey(r.Slug), payload, constants.RestaurantCacheTTL).Err(); err != nil {
		return fmt.Errorf("redis_restaurant_set_failed: %w", err)
	}

	return nil
}

/*
Invalidate removes the cached entry for a slug.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - error: Deletion failures
*/
func (cache *RedisCache) Invalidate(context context.Context, slug string) error {
	if err := cache.client.Del(context, cacheKey(slug)).Err(); err != nil {
		return fmt.Errorf("redis_restaurant_invalidate_failed: %w", err)
	}

	return nil
}
