package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Rate limiting key patterns:
// - ratelimit:{ip}:writes - per-window limit on content writes
// - ratelimit:{ip}:connects - per-window limit on relay upgrades

// RateLimitConfig contains configuration for rate limiting
type RateLimitConfig struct {
	WriteLimit    int           // Max writes per window
	WriteWindow   time.Duration // Write rate limit window
	ConnectLimit  int           // Max relay connections per window
	ConnectWindow time.Duration // Connection rate limit window
}

// DefaultRateLimitConfig returns sensible defaults
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		WriteLimit:    60,
		WriteWindow:   60 * time.Second,
		ConnectLimit:  30,
		ConnectWindow: 60 * time.Second,
	}
}

// RateLimiter handles rate limiting using Redis
type RateLimiter struct {
	client *goredis.Client
	config RateLimitConfig
}

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed   bool          // Whether the action is allowed
	Remaining int           // Remaining actions in the window
	ResetIn   time.Duration // Time until the window resets
	Limit     int           // The limit for this action
}

// NewRateLimiter creates a new rate limiter. Zero fields take their defaults.
func NewRateLimiter(client *goredis.Client, config RateLimitConfig) *RateLimiter {
	defaults := DefaultRateLimitConfig()
	if config.WriteLimit <= 0 {
		config.WriteLimit = defaults.WriteLimit
	}
	if config.WriteWindow <= 0 {
		config.WriteWindow = defaults.WriteWindow
	}
	if config.ConnectLimit <= 0 {
		config.ConnectLimit = defaults.ConnectLimit
	}
	if config.ConnectWindow <= 0 {
		config.ConnectWindow = defaults.ConnectWindow
	}
	return &RateLimiter{
		client: client,
		config: config,
	}
}

// fixed window counter; the window starts with the first hit
var limitScript = goredis.NewScript(`
	local key = KEYS[1]
	local limit = tonumber(ARGV[1])
	local window = tonumber(ARGV[2])

	local current = tonumber(redis.call('GET', key) or '0')

	local ttl = redis.call('TTL', key)
	if ttl < 0 then
		ttl = window
	end

	if current < limit then
		redis.call('INCR', key)
		if ttl == window then
			redis.call('EXPIRE', key, window)
		end
		return {1, limit - current - 1, ttl}
	end
	return {0, 0, ttl}
`)

// AllowWrite checks if an IP may perform another content write
func (r *RateLimiter) AllowWrite(ctx context.Context, ip string) (*RateLimitResult, error) {
	return r.checkLimit(ctx, writeKey(ip), r.config.WriteLimit, r.config.WriteWindow)
}

// AllowConnect checks if an IP may open another relay connection
func (r *RateLimiter) AllowConnect(ctx context.Context, ip string) (*RateLimitResult, error) {
	return r.checkLimit(ctx, connectKey(ip), r.config.ConnectLimit, r.config.ConnectWindow)
}

// Reset clears all limits recorded for an IP
func (r *RateLimiter) Reset(ctx context.Context, ip string) error {
	return r.client.Del(ctx, writeKey(ip), connectKey(ip)).Err()
}

func (r *RateLimiter) checkLimit(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error) {
	result, err := limitScript.Run(ctx, r.client, []string{key}, limit, int(window.Seconds())).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}
	if len(result) < 3 {
		return nil, fmt.Errorf("unexpected rate limit result format")
	}

	return &RateLimitResult{
		Allowed:   result[0] == 1,
		Remaining: int(result[1]),
		ResetIn:   time.Duration(result[2]) * time.Second,
		Limit:     limit,
	}, nil
}

func writeKey(ip string) string {
	return fmt.Sprintf("ratelimit:%s:writes", ip)
}

func connectKey(ip string) string {
	return fmt.Sprintf("ratelimit:%s:connects", ip)
}
