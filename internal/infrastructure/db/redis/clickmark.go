package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const clickMarkTTL = 24 * time.Hour

// ClickMarker distinguishes first clicks from repeats using Redis SET NX.
// Key format: click:<short_code>:<ip>; a (link, ip) pair counts as unique
// once per clickMarkTTL.
type ClickMarker struct {
	client *redis.Client
}

// NewClickMarker creates a ClickMarker wrapping the given Redis client.
func NewClickMarker(client *redis.Client) *ClickMarker {
	return &ClickMarker{client: client}
}

// FirstSeen atomically records the (shortCode, ip) pair and reports whether
// this was the first sighting within the TTL window.
func (m *ClickMarker) FirstSeen(ctx context.Context, shortCode, ip string) (bool, error) {
	ok, err := m.client.SetNX(ctx, m.key(shortCode, ip), "1", clickMarkTTL).Result()
	if err != nil {
		return false, fmt.Errorf("click mark: %w", err)
	}
	return ok, nil
}

func (m *ClickMarker) key(shortCode, ip string) string {
	return fmt.Sprintf("click:%s:%s", shortCode, ip)
}
