package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/aerovista/core/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimit returns a middleware that enforces a sliding-window rate limit
// per client IP. Authenticated requests bypass the limiter, and Redis errors
// fail open so an outage never takes the site down with it.
func RateLimit(rdb *redis.Client, cfg config.RateLimitConfig) gin.HandlerFunc {
	max := int64(cfg.Max)
	if max <= 0 {
		max = 50
	}
	window := time.Duration(cfg.Window) * time.Second
	if window <= 0 {
		window = time.Second
	}

	return func(c *gin.Context) {
		if IsAuthenticated(c) {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		windowKey := time.Now().UnixNano() / int64(window)
		key := fmt.Sprintf("av:rate_limit:%s:%d", ip, windowKey)

		count, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			c.Next()
			return
		}

		if count == 1 {
			rdb.PExpire(ctx, key, window+time.Second)
		}

		if count > max {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"ok":      0,
				"code":    http.StatusTooManyRequests,
				"message": "too many requests, slow down",
			})
			return
		}

		c.Next()
	}
}
