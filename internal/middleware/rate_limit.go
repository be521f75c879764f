package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cineview/movie-api/internal/constants"
	"github.com/cineview/movie-api/pkg/logger"
	"github.com/cineview/movie-api/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit enforces a fixed-window per-IP limit backed by redis. When
// redis is unreachable the request is let through rather than failing the
// whole API on a limiter outage.
func RateLimit(client *redis.Client, maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		key := constants.RateLimitKeyPrefix + ip

		count, err := client.IncrWindow(c.Request.Context(), key, window)
		if err != nil {
			logger.GetLogger().Warn("Rate limiter unavailable, letting request through",
				zap.String("client_ip", ip),
				zap.Error(err))
			c.Next()
			return
		}

		remaining := int64(maxRequests) - count
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", maxRequests))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		if count > int64(maxRequests) {
			retryAfter := window
			if ttl, err := client.TTL(c.Request.Context(), key); err == nil && ttl > 0 {
				retryAfter = ttl
			}

			logger.GetLogger().Warn("Rate limit exceeded",
				zap.String("client_ip", ip),
				zap.String("path", c.Request.URL.Path),
				zap.Int64("current_requests", count),
				zap.Int("max_requests", maxRequests))

			c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(retryAfter).Unix()))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"message":     "Too many requests",
				"retry_after": retryAfter.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
