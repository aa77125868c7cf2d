package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-directory-api/internal/adapter/ratelimit"
)

// RateLimiter returns a Gin middleware that takes one token per request from
// the bucket of the route and client IP. A nil or disabled limiter is a no-op.
func RateLimiter(limiter *ratelimit.RateLimiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Enabled() {
			c.Next()
			return
		}

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		key := "http:" + c.Request.Method + ":" + route + ":" + c.ClientIP()

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			log.Debug("rate limiter unavailable", zap.String("key", key), zap.Error(err))
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"detail": "Rate limit exceeded"})
			return
		}

		c.Next()
	}
}
