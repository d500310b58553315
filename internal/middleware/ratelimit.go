package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Maryann878/LinguAfrika-sub000/pkg/errors"
	"github.com/Maryann878/LinguAfrika-sub000/pkg/response"
)

// RateLimitRule defines a fixed window for one route category.
type RateLimitRule struct {
	Category    string
	MaxRequests int
	Window      time.Duration
}

// RateLimit throttles requests per (client IP, category) within a fixed
// window. The gate runs before the handler, so a limited caller never
// reaches the auth service.
func RateLimit(store RateStore, rule RateLimitRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || rule.MaxRequests <= 0 || rule.Window <= 0 {
			c.Next()
			return
		}

		key := rule.Category + "|" + c.ClientIP()
		count, ttl, err := store.Increment(c.Request.Context(), key, rule.Window)
		if err != nil {
			// Fail open: a broken counter should not lock everyone out.
			c.Next()
			return
		}

		remaining := rule.MaxRequests - count
		if remaining < 0 {
			remaining = 0
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.MaxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(int(ttl.Seconds())))

		if count > rule.MaxRequests {
			response.Error(c, errors.ErrRateLimit)
			c.Abort()
			return
		}

		c.Next()
	}
}
