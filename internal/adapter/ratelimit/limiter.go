// Package ratelimit provides a Redis backed token bucket shared by the HTTP
// and gRPC transports.
package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// KeyPrefix namespaces every bucket stored in Redis.
const KeyPrefix = "ratelimit:tb:"

// Config holds configuration for the rate limiter.
type Config struct {
	RequestsPerSecond float64
	BurstCapacity     int
	Enabled           bool
}

// tokenBucket refills the bucket for the elapsed time and tries to take one token.
// KEYS[1] bucket key; ARGV rate (tokens/s), capacity, now (ms), ttl (s).
var tokenBucket = redis.NewScript(`
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

local bucket = redis.call('HMGET', key, 'last_refill', 'tokens')
local last_refill = tonumber(bucket[1]) or now
local tokens = tonumber(bucket[2]) or capacity

local elapsed = math.max(0, now - last_refill) / 1000
tokens = math.min(capacity, tokens + elapsed * rate)

local allowed = 0
if tokens >= 1 then
	tokens = tokens - 1
	allowed = 1
end

redis.call('HSET', key, 'last_refill', tostring(now), 'tokens', tostring(tokens))
redis.call('EXPIRE', key, ttl)
return allowed
`)

// RateLimiter decides whether a request identified by a key may proceed.
type RateLimiter struct {
	client redis.Scripter
	config Config
	log    *zap.Logger
	now    func() time.Time
}

// Option customizes a RateLimiter.
type Option func(*RateLimiter)

// WithClock overrides the time source used to refill buckets.
func WithClock(now func() time.Time) Option {
	return func(rl *RateLimiter) { rl.now = now }
}

// NewRateLimiter creates a new token bucket rate limiter.
func NewRateLimiter(client redis.Scripter, config Config, log *zap.Logger, opts ...Option) *RateLimiter {
	rl := &RateLimiter{
		client: client,
		config: config,
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(rl)
	}
	return rl
}

// Enabled reports whether requests are being limited at all.
func (rl *RateLimiter) Enabled() bool {
	return rl != nil && rl.config.Enabled && rl.client != nil
}

// Allow takes one token from the bucket named by key.
// It fails open: on a Redis error the request is allowed and the error returned.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if !rl.Enabled() {
		return true, nil
	}

	allowed, err := tokenBucket.Run(ctx, rl.client, []string{KeyPrefix + key},
		rl.config.RequestsPerSecond,
		rl.config.BurstCapacity,
		strconv.FormatInt(rl.now().UnixMilli(), 10),
		rl.ttlSeconds(),
	).Int64()
	if err != nil {
		rl.log.Warn("rate limiter redis error, allowing request",
			zap.String("key", key),
			zap.Error(err),
		)
		return true, err
	}

	if allowed == 0 {
		rl.log.Warn("rate limit exceeded",
			zap.String("key", key),
			zap.Float64("limit", rl.config.RequestsPerSecond),
			zap.Int("burst", rl.config.BurstCapacity),
		)
		return false, nil
	}
	return true, nil
}

// ttlSeconds keeps a bucket until it would have refilled completely.
func (rl *RateLimiter) ttlSeconds() int {
	if rl.config.RequestsPerSecond <= 0 {
		return 60
	}
	ttl := int(float64(rl.config.BurstCapacity)/rl.config.RequestsPerSecond) + 1
	if ttl < 1 {
		ttl = 1
	}
	return ttl
}
