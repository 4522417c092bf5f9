package middleware

import (
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ordforrad/api/internal/ratelimit"
)

// RateLimit counts the request against action for the authenticated user,
// or the client IP when there is none. A nil limiter or a redis failure lets
// the request through.
func RateLimit(limiter *ratelimit.Limiter, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}

		clientID := "ip:" + c.ClientIP()
		if id := UserID(c); id != 0 {
			clientID = "user:" + strconv.FormatInt(id, 10)
		}

		result, err := limiter.Check(c.Request.Context(), clientID, action)
		if err != nil {
			log.Printf("[RateLimit] check failed for %s/%s: %v", clientID, action, err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.FormatInt(result.Limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt, 10))

		if !result.Allowed {
			rateLimitedTotal.WithLabelValues(action).Inc()
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(result.RetryAfter.Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
				"code":  "RATE_LIMIT_EXCEEDED",
			})
			return
		}
		c.Next()
	}
}
