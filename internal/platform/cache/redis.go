// Package cache holds the optional secondary-store client. The game state
// itself lives entirely in Postgres; Redis is only wired for the health
// check's connectivity probe.
package cache

import (
	"context"
	"fmt"

	"storygame/internal/platform/config"

	"github.com/redis/go-redis/v9"
)

// Connect builds and pings the Redis client. The caller owns the returned
// client and closes it at shutdown.
func Connect(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("could not connect to Redis: %w", err)
	}
	return client, nil
}
