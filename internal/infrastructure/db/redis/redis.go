package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTimeout = 5 * time.Second

// Config holds the Redis connection settings for the unread counters and the
// score leaderboard.
type Config struct {
	Addr     string
	Password string
	DB       int
	// Timeout bounds the startup connectivity check; defaultTimeout when zero.
	Timeout time.Duration
}

// Connect builds a Redis client and verifies connectivity before handing it
// out, so a misconfigured cache fails at startup rather than on the first
// unread-counter write.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connect %s: %w", cfg.Addr, err)
	}

	return client, nil
}
