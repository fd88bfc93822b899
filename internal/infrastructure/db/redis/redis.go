// Package redis hosts the Redis-backed pieces of the API: the connection
// bootstrap, the sliding-window rate limiter, and the unique-click marker.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pinglayer/pinglayer-api/internal/infrastructure/config"
)

// Connect opens a client against the configured address and proves
// liveness with a single bounded ping before anything depends on it.
// The caller owns Close.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}
