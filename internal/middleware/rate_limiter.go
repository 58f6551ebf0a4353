package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/ahmad-hanafi1/product-store-pern/pkg/logger"
	pkgredis "github.com/ahmad-hanafi1/product-store-pern/pkg/redis"
	"github.com/ahmad-hanafi1/product-store-pern/pkg/response"
	"github.com/ahmad-hanafi1/product-store-pern/pkg/telemetry"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Tokens refilled per second per client
	RequestsPerSecond int
	// Token bucket capacity
	BurstSize int
	// Key prefix for Redis
	KeyPrefix string
	// Cleanup interval for local rate limiter
	CleanupInterval time.Duration
	// Entry TTL for local rate limiter
	EntryTTL time.Duration
}

// DefaultRateLimitConfig returns sensible defaults
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 6,
		BurstSize:         20,
		KeyPrefix:         "ratelimit:",
		CleanupInterval:   time.Minute,
		EntryTTL:          time.Minute,
	}
}

// Limiter decides whether a client identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, remaining float64, err error)
}

// rateLimitEntry tracks rate limit state for a client
type rateLimitEntry struct {
	tokens     float64
	lastUpdate time.Time
	mu         sync.Mutex
}

// LocalRateLimiter implements in-memory token bucket rate limiting
type LocalRateLimiter struct {
	config  RateLimitConfig
	entries sync.Map
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once

	totalAllowed  uint64
	totalRejected uint64
}

// LocalOption configures a LocalRateLimiter
type LocalOption func(*LocalRateLimiter)

// WithLimiterClock overrides the time source
func WithLimiterClock(now func() time.Time) LocalOption {
	return func(rl *LocalRateLimiter) {
		rl.now = now
	}
}

// NewLocalRateLimiter creates a new local rate limiter and starts its cleanup loop
func NewLocalRateLimiter(config RateLimitConfig, opts ...LocalOption) *LocalRateLimiter {
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = time.Minute
	}
	if config.EntryTTL <= 0 {
		config.EntryTTL = time.Minute
	}

	rl := &LocalRateLimiter{
		config: config,
		now:    time.Now,
		stop:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rl)
	}

	go rl.cleanup()

	return rl
}

// Allow consumes one token for key
func (rl *LocalRateLimiter) Allow(_ context.Context, key string) (bool, float64, error) {
	now := rl.now()

	entry, _ := rl.entries.LoadOrStore(key, &rateLimitEntry{
		tokens:     float64(rl.config.BurstSize),
		lastUpdate: now,
	})
	e := entry.(*rateLimitEntry)

	e.mu.Lock()
	defer e.mu.Unlock()

	elapsed := now.Sub(e.lastUpdate).Seconds()
	if elapsed > 0 {
		e.tokens = min(float64(rl.config.BurstSize), e.tokens+elapsed*float64(rl.config.RequestsPerSecond))
		e.lastUpdate = now
	}

	if e.tokens >= 1 {
		e.tokens--
		atomic.AddUint64(&rl.totalAllowed, 1)
		return true, e.tokens, nil
	}

	atomic.AddUint64(&rl.totalRejected, 1)
	return false, e.tokens, nil
}

// GetStats returns rate limiter statistics
func (rl *LocalRateLimiter) GetStats() (allowed, rejected uint64) {
	return atomic.LoadUint64(&rl.totalAllowed), atomic.LoadUint64(&rl.totalRejected)
}

func (rl *LocalRateLimiter) cleanup() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evict(rl.now().Add(-rl.config.EntryTTL))
		case <-rl.stop:
			return
		}
	}
}

// evict drops entries idle since before cutoff
func (rl *LocalRateLimiter) evict(cutoff time.Time) {
	rl.entries.Range(func(key, value any) bool {
		e := value.(*rateLimitEntry)
		e.mu.Lock()
		if e.lastUpdate.Before(cutoff) {
			rl.entries.Delete(key)
		}
		e.mu.Unlock()
		return true
	})
}

// Stop stops the cleanup goroutine. Safe to call more than once.
func (rl *LocalRateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

const rateLimitScriptName = "token_bucket"

const rateLimitScript = `
local key = KEYS[1]
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])

local data = redis.call("HMGET", key, "tokens", "last_update")
local tokens = tonumber(data[1]) or burst
local last_update = tonumber(data[2]) or now

local elapsed = math.max(0, now - last_update)
tokens = math.min(burst, tokens + elapsed * rate)

local allowed = 0
if tokens >= 1 then
    tokens = tokens - 1
    allowed = 1
end

redis.call("HSET", key, "tokens", tokens, "last_update", now)
redis.call("EXPIRE", key, 60)
return {allowed, math.floor(tokens)}
`

// RedisRateLimiter implements a token bucket shared across instances
type RedisRateLimiter struct {
	config RateLimitConfig
	client *pkgredis.Client
	now    func() time.Time
}

// NewRedisRateLimiter creates a new Redis rate limiter
func NewRedisRateLimiter(client *pkgredis.Client, config RateLimitConfig) *RedisRateLimiter {
	return &RedisRateLimiter{
		config: config,
		client: client,
		now:    time.Now,
	}
}

// Allow consumes one token for key in Redis
func (rl *RedisRateLimiter) Allow(ctx context.Context, key string) (bool, float64, error) {
	now := float64(rl.now().UnixNano()) / 1e9

	values, err := rl.client.EvalScript(ctx, rateLimitScriptName, rateLimitScript,
		[]string{rl.config.KeyPrefix + key},
		rl.config.RequestsPerSecond,
		rl.config.BurstSize,
		now,
	).Int64Slice()
	if err != nil {
		return false, 0, err
	}
	if len(values) < 2 {
		return false, 0, fmt.Errorf("unexpected result length: %d", len(values))
	}

	return values[0] == 1, float64(values[1]), nil
}

// RateLimit throttles requests per client IP. Limiter errors let the request through.
func RateLimit(limiter Limiter, config RateLimitConfig, log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.NewNop()
	}
	limit := strconv.Itoa(config.RequestsPerSecond)

	return func(c *gin.Context) {
		ctx, span := telemetry.StartSpan(c.Request.Context(), "middleware.rate_limiter")
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		clientIP := c.ClientIP()
		span.SetAttributes(attribute.String("client_ip", clientIP))

		allowed, remaining, err := limiter.Allow(ctx, clientIP)
		if err != nil {
			log.Warn("rate limiter unavailable, allowing request",
				zap.String("client_ip", clientIP),
				zap.Error(err),
			)
			allowed, remaining = true, float64(config.BurstSize)
		}
		span.SetAttributes(attribute.Bool("allowed", allowed))

		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, int(remaining))))

		if !allowed {
			span.SetStatus(codes.Error, "rate limit exceeded")

			retryAfter := 1
			if config.RequestsPerSecond > 0 {
				retryAfter = max(1, int((1-remaining)/float64(config.RequestsPerSecond)+0.999))
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			abortRateLimited(c, retryAfter)
			return
		}

		c.Next()
	}
}

func abortRateLimited(c *gin.Context, retryAfter int) {
	response.Abort(c, http.StatusTooManyRequests, response.CodeRateLimited,
		"Rate limit exceeded. Please retry after "+strconv.Itoa(retryAfter)+" second(s).")
}
