package redis

import (
	"context"
	"fmt"

	"github.com/quiz-signup/internal/config"
	"github.com/redis/go-redis/v9"
)

// NewClient connects to cfg.RedisAddr and checks the connection with PING.
func NewClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
	}
	return client, nil
}
