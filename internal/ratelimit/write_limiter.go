package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/faktur/internal/config"
)

const keyWriteClient = "faktur:write:%s"

// WriteLimiter throttles mutating invoice requests per client address. Rate
// and burst come from the hot-reloadable limits config, so tuning changes
// reach a running instance without a restart.
type WriteLimiter struct {
	enabled bool

	bucket *TokenBucket
	locker *Locker
	limits *config.LimitsConfigHolder
}

func NewWriteLimiter(cfg config.Config, limits *config.LimitsConfigHolder) (*WriteLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &WriteLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		locker:  NewLocker(client),
		limits:  limits,
	}, nil
}

func (l *WriteLimiter) Enabled() bool {
	return l != nil && l.enabled
}

// AllowClient spends one token from the caller's bucket. Disabled limiters
// always allow.
func (l *WriteLimiter) AllowClient(ctx context.Context, clientIP string) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}
	limits := l.limits.Get()
	key := fmt.Sprintf(keyWriteClient, strings.TrimSpace(clientIP))
	return l.bucket.Allow(ctx, key, limits.WriteRatePerSec, limits.WriteBurst)
}

// TryLock takes a best-effort distributed lock, for work that should run on
// one replica at a time. Disabled limiters grant the lock unconditionally.
func (l *WriteLimiter) TryLock(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	return l.locker.TryLock(ctx, key, ttl)
}

func (l *WriteLimiter) Release(ctx context.Context, key, token string) error {
	if !l.Enabled() {
		return nil
	}
	return l.locker.Release(ctx, key, token)
}
