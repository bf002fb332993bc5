package ratelimit

import (
	"context"
	"errors"
	"math"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// refillScript keeps {tokens, ts} in a hash per key. It replies
// {allowed, whole tokens left, wait in ms, server time in ms} so the caller
// never has to reason about truncated fractional tokens.
const refillScript = `
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local ttl = tonumber(ARGV[3])

local clock = redis.call("TIME")
local now = clock[1] * 1000 + math.floor(clock[2] / 1000)

local state = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(state[1]) or burst
local ts = tonumber(state[2]) or now
local elapsed = math.max(0, now - ts)
tokens = math.min(burst, tokens + elapsed / 1000 * rate)

local allowed = 0
local wait = 0
if tokens >= 1 then
  allowed = 1
  tokens = tokens - 1
else
  wait = math.ceil((1 - tokens) / rate * 1000)
end

redis.call("HSET", KEYS[1], "tokens", tokens, "ts", now)
redis.call("PEXPIRE", KEYS[1], ttl)
return {allowed, math.floor(tokens), wait, now}
`

var errBadReply = errors.New("invalid rate limit script reply")

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// RedisBucket shares buckets between replicas through one Lua script.
type RedisBucket struct {
	client redis.Scripter
	script *redis.Script
}

func NewRedisBucket(client redis.Scripter) *RedisBucket {
	return &RedisBucket{
		client: client,
		script: redis.NewScript(refillScript),
	}
}

func (b *RedisBucket) Allow(ctx context.Context, key string, rate float64, burst int) (*Decision, error) {
	if b == nil || b.client == nil {
		return &Decision{}, errors.New("rate limiter not configured")
	}
	if err := checkArgs(key, rate, burst); err != nil {
		return &Decision{}, err
	}

	reply, err := b.script.Run(ctx, b.client, []string{key}, rate, burst, bucketTTL(rate, burst).Milliseconds()).Int64Slice()
	if err != nil {
		return &Decision{}, err
	}
	return decisionFromReply(reply, burst)
}

func decisionFromReply(reply []int64, burst int) (*Decision, error) {
	if len(reply) < 4 {
		return &Decision{}, errBadReply
	}
	remaining := int(reply[1])
	if remaining < 0 {
		remaining = 0
	}
	wait := time.Duration(reply[2]) * time.Millisecond
	return &Decision{
		Allowed:    reply[0] == 1,
		Limit:      burst,
		Remaining:  remaining,
		ResetTime:  time.UnixMilli(reply[3]).Add(wait),
		RetryAfter: wait,
	}, nil
}

func checkArgs(key string, rate float64, burst int) error {
	if key == "" {
		return errors.New("rate limiter key is empty")
	}
	if rate <= 0 || burst <= 0 {
		return errors.New("rate limiter rate and burst must be positive")
	}
	return nil
}

// bucketTTL keeps an idle bucket around for twice the time a full refill takes.
func bucketTTL(rate float64, burst int) time.Duration {
	if rate <= 0 || burst <= 0 {
		return time.Second
	}
	seconds := math.Max(1, math.Ceil(float64(burst)/rate*2))
	return time.Duration(seconds) * time.Second
}
