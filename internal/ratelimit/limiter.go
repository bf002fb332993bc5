package ratelimit

import (
	"context"

	"github.com/agridirect/marketplace/internal/clock"
	"github.com/agridirect/marketplace/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Bucket answers whether one more request under key fits the given rate.
type Bucket interface {
	Allow(ctx context.Context, key string, rate float64, burst int) (*Decision, error)
}

// New returns the Redis token bucket when REDIS_ADDR is set and an in-process
// bucket otherwise.
func New(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, log *zap.Logger) Bucket {
	if cfg.Redis.Addr == "" {
		log.Info("rate limiting uses in-memory buckets")
		return NewMemoryBucket(clk.Now)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn("redis unreachable, rate limiting fails open", zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	log.Info("rate limiting uses redis", zap.String("addr", cfg.Redis.Addr))
	return NewRedisBucket(client)
}
