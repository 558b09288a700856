package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/errors"
)

// Counter is a fixed-window counter. pkg/redis.Store implements it.
type Counter interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// RateLimit allows limit requests per client IP per window for the named
// scope. A nil counter or non-positive limit disables it.
func RateLimit(counter Counter, scope string, limit int, window time.Duration) gin.HandlerFunc {
	if counter == nil || limit <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)
		ip := ClientIP(c)
		key := fmt.Sprintf("ratelimit:%s:%s", scope, ip)

		count, err := counter.IncrWithTTL(c.Request.Context(), key, window)
		if err != nil {
			// fail open
			log.Warn("Rate limiter unavailable", map[string]interface{}{
				"scope": scope,
				"error": err.Error(),
			})
			c.Next()
			return
		}

		if count > int64(limit) {
			log.Warn("Rate limit exceeded", map[string]interface{}{
				"scope": scope,
				"count": count,
			})
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			errors.TooManyRequests(c, "", "")
			c.Abort()
			return
		}
		c.Next()
	}
}
