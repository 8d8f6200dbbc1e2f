package utils

import (
	"context"
	"fmt"
	"time"

	"roomrental/config"

	"github.com/go-redis/redis/v8"
)

// NewSessionRedisClient connects to the Redis DB that holds persisted sessions.
func NewSessionRedisClient(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisSessionDB,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis (Session): %w", err)
	}
	return client, nil
}
