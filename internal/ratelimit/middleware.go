package ratelimit

import (
	"math"
	"net/http"
	"strconv"

	"github.com/agridirect/marketplace/internal/config"
	"github.com/agridirect/marketplace/internal/observability/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const keyPrefix = "agridirect:rl:"

// Middleware limits requests per client IP for one endpoint group. The limit
// is read on every request so policy reloads apply immediately. Limiter
// errors let the request through.
func Middleware(bucket Bucket, endpoint string, limit func() config.RouteLimit, m *metrics.Metrics, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if bucket == nil {
			c.Next()
			return
		}
		rl := limit()
		key := keyPrefix + endpoint + ":" + c.ClientIP()

		res, err := bucket.Allow(c.Request.Context(), key, rl.Rate, rl.Burst)
		if err != nil {
			if log != nil {
				log.Warn("rate limiter unavailable", zap.String("endpoint", endpoint), zap.Error(err))
			}
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		if !res.Allowed {
			seconds := int(math.Ceil(res.RetryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			m.RecordRateLimitDenied(c.Request.Context(), endpoint)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "error",
				"message": "Too many requests",
			})
			return
		}
		c.Next()
	}
}
