package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/riftlabs/ladder-pipeline/config"
)

// Client wraps a go-redis client used as the optional rate-limiter
// telemetry publish sink (spec.md §4.1 "Telemetry wrapper").
type Client struct {
	c *redis.Client
}

// New creates a Redis client from the provided config. Returns an error if
// the Redis URL cannot be parsed.
func New(cfg *config.Config) (*Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	return &Client{c: redis.NewClient(opt)}, nil
}

// Raw returns the underlying go-redis client for packages that need the
// full API (e.g. ratelimit.RedisPublisher).
func (r *Client) Raw() *redis.Client {
	return r.c
}

// Ping verifies connectivity with a short timeout.
func (r *Client) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return r.c.Ping(ctx).Err()
}
