package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var pinFailureScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// PinLimiter throttles failed PIN attempts per user using Redis. A nil
// limiter (or nil client) disables throttling, mirroring the optional
// Redis wiring.
type PinLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func NewPinLimiter(client *redis.Client, limit int64, window time.Duration) *PinLimiter {
	if limit <= 0 {
		limit = 5
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &PinLimiter{client: client, limit: limit, window: window}
}

func (l *PinLimiter) key(subject string) string {
	return fmt.Sprintf("billshome:pin_failures:%s", subject)
}

// Exceeded reports whether the subject has used up its failed attempts.
func (l *PinLimiter) Exceeded(ctx context.Context, subject string) (bool, error) {
	if l == nil || l.client == nil {
		return false, nil
	}
	count, err := l.client.Get(ctx, l.key(subject)).Int64()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return count >= l.limit, nil
}

// RecordFailure counts one failed attempt inside the sliding window.
func (l *PinLimiter) RecordFailure(ctx context.Context, subject string) error {
	if l == nil || l.client == nil {
		return nil
	}
	return pinFailureScript.Run(ctx, l.client, []string{l.key(subject)}, l.window.Milliseconds()).Err()
}

// Reset clears the failure count after a successful verification.
func (l *PinLimiter) Reset(ctx context.Context, subject string) error {
	if l == nil || l.client == nil {
		return nil
	}
	return l.client.Del(ctx, l.key(subject)).Err()
}
