package ratelimit

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"
)

var (
	errBucketNotConfigured = errors.New("bucket_client_not_configured")
	errBucketKeyEmpty      = errors.New("bucket_key_empty")
	errBucketRateInvalid   = errors.New("bucket_rate_invalid")
	errBucketBurstInvalid  = errors.New("bucket_burst_invalid")
	errBucketBadReply      = errors.New("bucket_reply_malformed")
)

// refillScript is a lazy token bucket: state is two hash fields per key,
// refill happens on access from the elapsed redis TIME, and one token is
// spent when at least one is available. Reply is {allowed, tokens, now_ms}.
const refillScript = `
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local ttl_ms = tonumber(ARGV[3])

local t = redis.call("TIME")
local now_ms = t[1] * 1000 + math.floor(t[2] / 1000)

local state = redis.call("HMGET", KEYS[1], "tokens", "ts")
local tokens = tonumber(state[1])
local last = tonumber(state[2])

if tokens == nil then
  tokens = burst
else
  local elapsed = now_ms - last
  if elapsed < 0 then
    elapsed = 0
  end
  tokens = math.min(burst, tokens + (elapsed / 1000) * rate)
end

local allowed = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
end

redis.call("HMSET", KEYS[1], "tokens", tokens, "ts", now_ms)
redis.call("PEXPIRE", KEYS[1], ttl_ms)

return {allowed, tokens, now_ms}
`

type TokenBucket struct {
	client *redis.Client
	script *redis.Script
}

// RateLimitResult reports one spend attempt. Remaining is rounded down;
// RetryAfter is zero for allowed requests.
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

func NewTokenBucket(client *redis.Client) *TokenBucket {
	if client == nil {
		return nil
	}
	return &TokenBucket{client: client, script: redis.NewScript(refillScript)}
}

// Allow spends one token from the bucket at key, refilling at rate tokens
// per second up to burst. Denied results carry how long the caller should
// back off before a token becomes available.
func (t *TokenBucket) Allow(ctx context.Context, key string, rate float64, burst int) (*RateLimitResult, error) {
	denied := &RateLimitResult{Allowed: false}
	switch {
	case t == nil || t.client == nil:
		return denied, errBucketNotConfigured
	case key == "":
		return denied, errBucketKeyEmpty
	case rate <= 0:
		return denied, errBucketRateInvalid
	case burst <= 0:
		return denied, errBucketBurstInvalid
	}

	reply, err := t.script.Run(ctx, t.client, []string{key},
		rate, burst, bucketTTL(rate, burst).Milliseconds(),
	).Slice()
	if err != nil {
		return denied, err
	}
	if len(reply) < 3 {
		return denied, errBucketBadReply
	}

	// Lua integer replies truncate fractional tokens; only Remaining is
	// affected, never the allow decision.
	allowed := asInt(reply[0]) == 1
	remaining := asFloat(reply[1])
	stamp := asInt(reply[2])

	var retryAfter time.Duration
	if !allowed {
		if deficit := 1 - remaining; deficit > 0 {
			retryAfter = time.Duration(deficit / rate * float64(time.Second))
		}
	}

	return &RateLimitResult{
		Allowed:    allowed,
		Limit:      burst,
		Remaining:  int(remaining),
		ResetTime:  time.UnixMilli(stamp).Add(retryAfter),
		RetryAfter: retryAfter,
	}, nil
}

// bucketTTL keeps idle buckets around for twice the time a full refill
// takes, so short gaps between requests do not reset the bucket.
func bucketTTL(rate float64, burst int) time.Duration {
	seconds := math.Ceil(float64(burst) / rate * 2)
	if seconds < 1 {
		seconds = 1
	}
	return time.Duration(seconds) * time.Second
}

func asInt(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case float64:
		return int64(n)
	case string:
		parsed, _ := strconv.ParseInt(n, 10, 64)
		return parsed
	}
	return 0
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case string:
		if parsed, err := strconv.ParseFloat(n, 64); err == nil {
			return parsed
		}
	}
	return 0
}
