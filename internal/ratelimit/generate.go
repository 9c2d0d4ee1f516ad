package ratelimit

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	"github.com/namora-app/namora/internal/config"
	redis "github.com/redis/go-redis/v9"
)

// GenerateLimiter throttles the name-generation endpoint per user. Without
// Redis it degrades to a no-op so single-instance deployments can run
// without one.
type GenerateLimiter struct {
	bucket *TokenBucket
	rate   float64
	burst  int
}

func NewGenerateLimiter(cfg config.Config, client *redis.Client) *GenerateLimiter {
	return &GenerateLimiter{
		bucket: NewTokenBucket(client),
		rate:   cfg.GenerateRatePerMin / 60,
		burst:  cfg.GenerateBurst,
	}
}

func (l *GenerateLimiter) Allow(ctx context.Context, userID snowflake.ID) (Result, error) {
	if l == nil || l.bucket == nil {
		return Result{Allowed: true}, nil
	}
	key := fmt.Sprintf("ratelimit:generate:%s", userID)
	return l.bucket.Allow(ctx, key, l.rate, l.burst)
}
