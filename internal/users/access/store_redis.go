// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/backoffice/internal/platform/constants"
	"github.com/taibuivan/backoffice/internal/platform/ctxutil"
)

// RedisCache implements [Cache] with one JSON value per user version.
//
// Every grant replacement bumps the user's version, so an entry written from a
// read that raced a replacement lands under a version no live token carries.
// Cache failures are logged and reported as misses; PostgreSQL stays the
// source of truth.
type RedisCache struct {
	client redis.UniversalClient
}

// NewRedisCache creates a Redis-backed grant cache.
func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

func grantsKey(userID string, version int) string {
	return constants.RedisPrefixGrants + userID + ":v" + strconv.Itoa(version)
}

// Get returns the grants cached for userID at version.
func (cache *RedisCache) Get(ctx context.Context, userID string, version int) ([]Grant, bool) {
	payload, err := cache.client.Get(ctx, grantsKey(userID, version)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			ctxutil.GetLogger(ctx).Warn("redis_grants_get_failed", slog.String("user_id", userID), slog.Any("error", err))
		}
		return nil, false
	}

	var grants []Grant
	if err := json.Unmarshal(payload, &grants); err != nil {
		ctxutil.GetLogger(ctx).Warn("redis_grants_decode_failed", slog.String("user_id", userID), slog.Any("error", err))
		return nil, false
	}

	return grants, true
}

// Set stores grants for userID at version with the given TTL.
func (cache *RedisCache) Set(ctx context.Context, userID string, version int, grants []Grant, ttl time.Duration) {
	payload, err := json.Marshal(grants)
	if err != nil {
		return
	}

	if err := cache.client.Set(ctx, grantsKey(userID, version), payload, ttl).Err(); err != nil {
		ctxutil.GetLogger(ctx).Warn("redis_grants_set_failed", slog.String("user_id", userID), slog.Any("error", err))
	}
}

// Evict drops the grants cached for userID at version.
func (cache *RedisCache) Evict(ctx context.Context, userID string, version int) {
	if err := cache.client.Del(ctx, grantsKey(userID, version)).Err(); err != nil {
		ctxutil.GetLogger(ctx).Warn("redis_grants_evict_failed", slog.String("user_id", userID), slog.Any("error", err))
	}
}
