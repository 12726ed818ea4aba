package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FahadKhan-20/EtherX-Excelfinal-2025/internal/shared/response"
)

// RateLimiter decides whether a request identified by key may proceed.
type RateLimiter interface {
	// Allow reports whether the key is within its limit, how many
	// requests remain in the current window, and when the window resets.
	Allow(c *gin.Context, key string) (allowed bool, remaining int, reset time.Duration, err error)
}

// RateLimit returns a middleware that throttles requests per client IP.
// Limiter failures are logged and the request is let through.
func RateLimit(limiter RateLimiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		allowed, remaining, reset, err := limiter.Allow(c, key)
		if err != nil {
			log.Warn("rate limiter unavailable",
				zap.String("key", key),
				zap.Error(err),
			)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", int(reset.Seconds())))

		if !allowed {
			response.ErrorWithCode(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
