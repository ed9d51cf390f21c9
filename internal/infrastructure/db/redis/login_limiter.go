package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 5
	defaultLockout     = 15 * time.Minute
)

// LoginLimiter counts failed logins per email in Redis.
// Key format: login:failures:<normalized_email>
// The counter expires lockout after the first failure of a window.
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int64
	lockout     time.Duration
}

// NewLoginLimiter applies defaults when maxAttempts or lockout are not positive.
func NewLoginLimiter(client *redis.Client, maxAttempts int, lockout time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if lockout <= 0 {
		lockout = defaultLockout
	}
	return &LoginLimiter{client: client, maxAttempts: int64(maxAttempts), lockout: lockout}
}

// Blocked reports whether the email reached the failure limit in the current window.
func (l *LoginLimiter) Blocked(ctx context.Context, email string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(email)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("login limiter get: %w", err)
	}
	return n >= l.maxAttempts, nil
}

// RecordFailure increments the failure counter and starts the window when the
// key has no TTL yet. Both commands run in one MULTI so a counter never
// outlives its window.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) error {
	key := l.key(email)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, l.lockout)
		return nil
	})
	if err != nil {
		return fmt.Errorf("login limiter record failure: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	return l.client.Del(ctx, l.key(email)).Err()
}

func (l *LoginLimiter) key(email string) string {
	return "login:failures:" + email
}
