package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter implements a sliding-window counter on Redis sorted sets.
// Each request adds a member scored by its unix-nano timestamp; members
// older than the window are pruned before counting.
type RateLimiter struct {
	client *redis.Client
}

// NewRateLimiter creates a RateLimiter wrapping the given Redis client.
func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow reports whether the caller identified by key may proceed under the
// given limit within the sliding window. Prune, add, and count run in one
// MULTI/EXEC so concurrent requests under the same key cannot all observe
// the pre-add count and overshoot the limit. The request's own member is
// part of the count; rejected requests still occupy a window slot.
func (l *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	redisKey := "ratelimit:" + key

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey,
		"0", strconv.FormatInt(now.Add(-window).UnixNano(), 10))
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: strconv.FormatInt(now.UnixNano(), 10),
	})
	countCmd := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit: %w", err)
	}

	return withinLimit(countCmd.Val(), limit), nil
}

// withinLimit applies the verdict to the post-add cardinality.
func withinLimit(count int64, limit int) bool {
	return count <= int64(limit)
}
