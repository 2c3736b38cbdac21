package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Cache keys for derived read models. Writes that affect the underlying
// tables must invalidate these so the next read recomputes fresh.
const (
	cacheKeyProducts       = "cache:products"
	cacheKeyDashboardStats = "cache:dashboard:stats"
	cacheKeyReportStats    = "cache:reports:stats"
	cacheKeyWeeklySales    = "cache:reports:weekly"
	cacheKeySettings       = "cache:settings"

	cacheTTL = time.Minute
)

// invalidate deletes the given cache keys. Best-effort: a cache miss is the
// worst outcome of a failure here, so errors are logged, not propagated.
func invalidate(ctx context.Context, rdb *redis.Client, keys ...string) {
	if rdb == nil || len(keys) == 0 {
		return
	}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Strs("keys", keys).Msg("cache invalidation failed")
	}
}
