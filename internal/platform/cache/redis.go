package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/fatflowers/community/pkg/config"
)

// NewRedisClient returns nil when no address is configured; callers then
// fall back to uncached reads.
func NewRedisClient(lc fx.Lifecycle, l *zap.SugaredLogger, cfg *config.Config) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		l.Infow("redis disabled, unread counts are not cached")
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Redis.Addr, err)
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func NewUnreadCounter(client *redis.Client, cfg *config.Config) UnreadCounter {
	if client == nil {
		return NopUnreadCounter{}
	}
	return NewRedisUnreadCounter(client, cfg.Redis.TTL)
}

var Module = fx.Options(
	fx.Provide(NewRedisClient, NewUnreadCounter),
)
