// Package throttle counts sign-in attempts per email in Redis.
package throttle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type LoginThrottle struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewLoginThrottle(client *redis.Client, maxAttempts int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, maxAttempts: maxAttempts, window: window}
}

func key(email string) string {
	return "login:attempts:" + strings.ToLower(strings.TrimSpace(email))
}

// Reserve counts one sign-in attempt for email, ahead of the password check,
// and reports whether it is within the limit. Each attempt restarts the
// window and Reset clears it.
func (t *LoginThrottle) Reserve(ctx context.Context, email string) (bool, error) {
	if t.maxAttempts <= 0 {
		return true, nil
	}
	k := key(email)
	pipe := t.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, t.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("reserve attempt: %w", err)
	}
	return incr.Val() <= int64(t.maxAttempts), nil
}

func (t *LoginThrottle) Reset(ctx context.Context, email string) error {
	if err := t.client.Del(ctx, key(email)).Err(); err != nil {
		return fmt.Errorf("reset attempts: %w", err)
	}
	return nil
}
