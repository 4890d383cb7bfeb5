package middleware

import (
	"net/http"

	"github.com/globalconnect/backend/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RateLimitMiddleware struct {
	limiter ratelimit.Limiter
	logger  *zap.Logger
}

func NewRateLimitMiddleware(limiter ratelimit.Limiter, logger *zap.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		logger:  logger,
	}
}

// Limit rejects requests above the per-client budget with 429. A limiter
// failure (e.g. Redis down) fails open: dropping traffic because the
// limiter store is unreachable would be worse than not limiting.
func (m *RateLimitMiddleware) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		allowed, err := m.limiter.Allow(c.Request.Context(), key)
		if err != nil {
			m.logger.Warn("rate limiter unavailable, failing open",
				zap.String("client", key),
				zap.Error(err))
			c.Next()
			return
		}
		if !allowed {
			m.logger.Warn("rate limit exceeded", zap.String("client", key))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please try again later.",
			})
			return
		}

		c.Next()
	}
}
