package services

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Revalidator signals the caching layer that data rendered under a path is
// stale. The path is passed through verbatim.
type Revalidator interface {
	Revalidate(ctx context.Context, path string) error
}

// RedisRevalidator drops the cached page for the path and publishes the path
// on the revalidation channel so frontends can re-render it.
type RedisRevalidator struct {
	redis   *redis.Client
	channel string
	logger  *zap.Logger
}

func NewRedisRevalidator(redisClient *redis.Client, channel string, logger *zap.Logger) *RedisRevalidator {
	return &RedisRevalidator{
		redis:   redisClient,
		channel: channel,
		logger:  logger,
	}
}

func (r *RedisRevalidator) Revalidate(ctx context.Context, path string) error {
	key := "page:" + path
	if err := r.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to drop cached page %s: %w", key, err)
	}

	if err := r.redis.Publish(ctx, r.channel, path).Err(); err != nil {
		return fmt.Errorf("failed to publish revalidation for %s: %w", path, err)
	}

	r.logger.Debug("revalidated path", zap.String("path", path))
	return nil
}
