package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"college-erp/pkg/response"
)

// RateLimiter fixed-window counter. *redis.Client implements it.
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit allows limit requests per window for each caller on a route.
// Signed-in callers are counted by user id so a shared campus NAT does
// not lock out a whole lab. A nil or failing limiter fails open.
func RateLimit(limiter RateLimiter, limit int, window time.Duration) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(window.Seconds()))
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		allowed, err := limiter.CheckRateLimit(c.Request.Context(), rateKey(c), limit, window)
		if err != nil {
			LoggerFrom(c, zap.NewNop()).Warn("rate limiter unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", retryAfter)
			response.TooManyRequests(c, 10004, "too many requests, please retry later")
			c.Abort()
			return
		}
		c.Next()
	}
}

func rateKey(c *gin.Context) string {
	who := "ip:" + c.ClientIP()
	if uid := c.GetString("user_id"); uid != "" {
		who = "user:" + uid
	}
	return "rate_limit:" + c.FullPath() + ":" + who
}
