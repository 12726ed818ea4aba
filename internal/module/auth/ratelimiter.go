package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginThrottle limits failed login attempts per account using a fixed
// window counter in Redis. Successful logins clear the counter.
type LoginThrottle struct {
	redis  redis.UniversalClient
	limit  int
	window time.Duration
}

// NewLoginThrottle creates a new login throttle.
func NewLoginThrottle(redis redis.UniversalClient, limit int, window time.Duration) *LoginThrottle {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginThrottle{redis: redis, limit: limit, window: window}
}

func (t *LoginThrottle) key(email string) string {
	return fmt.Sprintf("auth:login_attempts:%s", email)
}

// Check returns ErrTooManyAttempts when the account has exceeded its
// failed-attempt budget for the current window.
func (t *LoginThrottle) Check(ctx context.Context, email string) error {
	count, err := t.redis.Get(ctx, t.key(email)).Int()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return fmt.Errorf("check login attempts: %w", err)
	}
	if count >= t.limit {
		return ErrTooManyAttempts
	}
	return nil
}

// RecordFailure increments the failed attempt counter.
func (t *LoginThrottle) RecordFailure(ctx context.Context, email string) error {
	key := t.key(email)
	pipe := t.redis.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, t.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record login failure: %w", err)
	}
	_ = incr
	return nil
}

// RecordSuccess clears the failed attempt counter.
func (t *LoginThrottle) RecordSuccess(ctx context.Context, email string) error {
	return t.redis.Del(ctx, t.key(email)).Err()
}
