package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// recordFailure increments the counter and, in the same step, gives it a TTL
// whenever it has none, so a counter can never outlive its window.
var recordFailure = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// LoginThrottle counts failed logins per subject in Redis.
// Key format: login_failures:<lowercased subject>
type LoginThrottle struct {
	client      redis.Cmdable
	maxAttempts int64
	window      time.Duration
}

// NewLoginThrottle blocks a subject after maxAttempts failures until window
// has passed since the first of them.
func NewLoginThrottle(client redis.Cmdable, maxAttempts int, window time.Duration) *LoginThrottle {
	return &LoginThrottle{client: client, maxAttempts: int64(maxAttempts), window: window}
}

// Allowed reports whether subject may attempt another login.
func (t *LoginThrottle) Allowed(ctx context.Context, subject string) (bool, error) {
	n, err := t.client.Get(ctx, t.key(subject)).Int64()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("login throttle check: %w", err)
	}
	return n < t.maxAttempts, nil
}

// RecordFailure increments the counter, starting the window on the first failure.
func (t *LoginThrottle) RecordFailure(ctx context.Context, subject string) error {
	err := recordFailure.Run(ctx, t.client, []string{t.key(subject)}, t.window.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("login throttle record: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (t *LoginThrottle) Reset(ctx context.Context, subject string) error {
	if err := t.client.Del(ctx, t.key(subject)).Err(); err != nil {
		return fmt.Errorf("login throttle reset: %w", err)
	}
	return nil
}

func (t *LoginThrottle) key(subject string) string {
	return "login_failures:" + strings.ToLower(strings.TrimSpace(subject))
}
