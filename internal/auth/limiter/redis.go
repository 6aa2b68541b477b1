package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "roombook:pin-attempts:"

// attemptScript increments the counter for KEYS[1] and returns the new count
// with the milliseconds left in its window. The window starts on the first hit.
var attemptScript = redis.NewScript(`
	local window_ms = tonumber(ARGV[1])
	local count = redis.call('INCR', KEYS[1])
	if count == 1 then
		redis.call('PEXPIRE', KEYS[1], window_ms)
	end
	local ttl = redis.call('PTTL', KEYS[1])
	if ttl < 0 then
		redis.call('PEXPIRE', KEYS[1], window_ms)
		ttl = window_ms
	end
	return {count, ttl}
`)

// RedisLimiter shares one counter per identity across every gateway replica.
type RedisLimiter struct {
	client redis.Scripter
	prefix string
	limit  int
	period time.Duration
}

func NewRedisLimiter(client redis.Scripter, limit int, period time.Duration) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: DefaultKeyPrefix,
		limit:  limit,
		period: period,
	}
}

func (l *RedisLimiter) CheckAndRecord(ctx context.Context, identity string) (Decision, error) {
	res, err := attemptScript.Run(ctx, l.client, []string{l.prefix + identity}, l.period.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("failed to record attempt: %w", err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("unexpected attempt script reply: %v", res)
	}

	return decide(l.limit, res[0], time.Duration(res[1])*time.Millisecond), nil
}

func decide(limit int, count int64, resetIn time.Duration) Decision {
	d := Decision{
		Allowed:    count <= int64(limit),
		Limit:      limit,
		RetryAfter: resetIn,
	}
	if d.Allowed {
		d.Remaining = limit - int(count)
	}
	return d
}

// Stop is a no-op; keys expire on the server.
func (l *RedisLimiter) Stop() {}
