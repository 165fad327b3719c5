package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/feral-file/ff-floor-indexer/internal/api/shared/errors"
	"github.com/feral-file/ff-floor-indexer/internal/logger"
	"github.com/feral-file/ff-floor-indexer/internal/ratelimit"
)

// RateLimit throttles requests per authenticated subject, falling back to the client IP.
// It must run after Auth. A nil limiter disables it.
func RateLimit(l ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}

		key := c.GetString(AUTH_SUBJECT_KEY)
		if key == "" {
			key = "ip:" + c.ClientIP()
		}

		allowed, wait := l.Allow(key)
		if !allowed {
			retryAfter := int(math.Ceil(wait.Seconds()))
			logger.WarnCtx(c.Request.Context(), "Rate limit exceeded",
				zap.String("key", key),
				zap.Duration("retry_after", wait),
				zap.String("path", c.Request.URL.Path),
			)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierrors.ErrorResponse{
				Error: apierrors.NewRateLimitedError("Too many requests"),
			})
			return
		}

		c.Next()
	}
}
