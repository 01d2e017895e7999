package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultMaxFailures = 5
	DefaultLockout     = 15 * time.Minute
)

// LoginGuard counts failed logins per username in Redis. Once MaxFailures is
// reached the username stays locked until the counter expires.
//
// Key format: login:failures:<lowercased username>
type LoginGuard struct {
	client      redis.Cmdable
	maxFailures int64
	lockout     time.Duration
}

// NewLoginGuard applies the defaults for non-positive limits.
func NewLoginGuard(client redis.Cmdable, maxFailures int, lockout time.Duration) *LoginGuard {
	if maxFailures <= 0 {
		maxFailures = DefaultMaxFailures
	}
	if lockout <= 0 {
		lockout = DefaultLockout
	}
	return &LoginGuard{client: client, maxFailures: int64(maxFailures), lockout: lockout}
}

func (g *LoginGuard) Locked(ctx context.Context, username string) (bool, error) {
	n, err := g.client.Get(ctx, failuresKey(username)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login guard: read %s: %w", username, err)
	}
	return n >= g.maxFailures, nil
}

// Failed increments the counter. The lockout window starts at the first
// failure and is not extended by later ones.
func (g *LoginGuard) Failed(ctx context.Context, username string) error {
	key := failuresKey(username)
	pipe := g.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, g.lockout)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("login guard: record %s: %w", username, err)
	}
	return nil
}

func (g *LoginGuard) Reset(ctx context.Context, username string) error {
	if err := g.client.Del(ctx, failuresKey(username)).Err(); err != nil {
		return fmt.Errorf("login guard: reset %s: %w", username, err)
	}
	return nil
}

func failuresKey(username string) string {
	return "login:failures:" + strings.ToLower(username)
}
