package middleware

import (
	"context"
	"net/http"
	"strconv"

	"murmur/internal/redis"
	"murmur/internal/transport/httpdto"
	murmur_errors "murmur/pkg/errors"
	"murmur/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type limitFunc func(ctx context.Context, ip string) (*redis.RateLimitResult, error)

// WriteRateLimit limits content writes per client IP. A nil limiter disables it.
func WriteRateLimit(limiter *redis.RateLimiter) gin.HandlerFunc {
	if limiter == nil {
		return passThrough
	}
	return rateLimit(limiter.AllowWrite)
}

// ConnectRateLimit limits relay upgrades per client IP. A nil limiter disables it.
func ConnectRateLimit(limiter *redis.RateLimiter) gin.HandlerFunc {
	if limiter == nil {
		return passThrough
	}
	return rateLimit(limiter.AllowConnect)
}

func passThrough(c *gin.Context) {
	c.Next()
}

func rateLimit(allow limitFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			// fail open
			if l := logger.GetGlobalLogger(); l != nil {
				l.WithContext(c.Request.Context()).Warn("rate limit check failed", zap.Error(err))
			}
			c.Next()
			return
		}

		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, httpdto.NewErrorResponse(murmur_errors.ErrRateLimited.Error(), "RATE_LIMITED"))
			c.Abort()
			return
		}

		c.Next()
	}
}

func setRateLimitHeaders(c *gin.Context, result *redis.RateLimitResult) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	c.Header("X-RateLimit-Reset", strconv.Itoa(int(result.ResetIn.Seconds())))
}
