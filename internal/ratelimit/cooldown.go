package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cooldown is a Redis-backed per-key cooldown gate. The first Acquire for a
// key wins and starts the cooldown window; subsequent calls fail until the
// key expires.
type Cooldown struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCooldown creates a cooldown gate with the given window.
func NewCooldown(client *redis.Client, ttl time.Duration) *Cooldown {
	return &Cooldown{client: client, ttl: ttl}
}

// Acquire attempts to claim the key. It returns false when the key is still
// cooling down. The claim and its expiry are set atomically (SET NX EX).
func (c *Cooldown) Acquire(ctx context.Context, key string) (bool, error) {
	return c.client.SetNX(ctx, "cooldown:"+key, 1, c.ttl).Result()
}
