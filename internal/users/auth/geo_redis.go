// Copyright (c) 2026 Warden. All rights reserved.

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/buivan/warden/internal/platform/constants"
	"github.com/buivan/warden/internal/platform/ctxutil"
)

// CachedGeoResolver decorates a [GeoResolver] with a Redis cache-aside layer.
//
// # Why cache?
//
// Geo resolution is the one registration-time dependency allowed to be slow
// (a real implementation calls out to a geolocation database). Results are
// stable per IP over hours, so a short TTL cache removes the lookup from the
// hot path without a correctness cost.
//
// # Failure Policy
//
// Redis being down must never fail a registration: every cache error degrades
// to a direct resolver call.
type CachedGeoResolver struct {
	client *redis.Client
	next   GeoResolver
}

// NewCachedGeoResolver wraps next with the Redis cache.
func NewCachedGeoResolver(client *redis.Client, next GeoResolver) *CachedGeoResolver {
	return &CachedGeoResolver{client: client, next: next}
}

// Lookup implements [GeoResolver] with cache-aside semantics.
func (r *CachedGeoResolver) Lookup(ctx context.Context, ip string) (string, error) {
	if ip == "" {
		return "", nil
	}

	key := constants.RedisPrefixGeo + ip

	cached, err := r.client.Get(ctx, key).Result()
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, redis.Nil) {
		// Cache unavailable: degrade, don't fail.
		ctxutil.GetLogger(ctx).WarnContext(ctx, "geo_cache_read_failed", slog.Any("error", err))
	}

	geo, err := r.next.Lookup(ctx, ip)
	if err != nil {
		return "", err
	}

	if err := r.client.Set(ctx, key, geo, GeoCacheTTL).Err(); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "geo_cache_write_failed", slog.Any("error", err))
	}

	return geo, nil
}
