package ratelimit

import (
	"github.com/namora-app/namora/internal/config"
	redis "github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// newRedisClient returns nil when no address is configured; consumers treat
// a nil client as "limiting disabled".
func newRedisClient(cfg config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
}

var Module = fx.Module("rate.limit",
	fx.Provide(newRedisClient),
	fx.Provide(NewGenerateLimiter),
)
