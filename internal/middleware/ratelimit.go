package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"academy/internal/auth"
	"academy/internal/config"
	"academy/internal/errs"
	"academy/internal/handler"
)

// attemptCounter is the subset of redis the limiter needs.
type attemptCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, ttl time.Duration) *redis.BoolCmd
}

// RateLimit returns middleware that caps how often one caller may hit an
// enrollment-workflow route. Fixed window counting in redis, keyed per caller
// and path. Applied after authentication, so the key is the learner id; the
// client IP is the fallback for anything unauthenticated.
func RateLimit(counter attemptCounter, cfg config.RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := auth.LearnerFrom(c)
		if !ok {
			caller = c.ClientIP()
		}

		ctx := c.Request.Context()
		key := "ratelimit:" + c.Request.URL.Path + ":" + caller

		count, err := counter.Incr(ctx, key).Result()
		if err != nil {
			// Redis being down never blocks enrollment.
			c.Next()
			return
		}
		if count == 1 {
			counter.Expire(ctx, key, cfg.Window)
		}

		if count > int64(cfg.Limit) {
			c.Header("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
			handler.RenderError(c,
				errs.New(errs.KindRateLimitExceeded, "too many enrollment attempts"),
				c.Param("id"))
			c.Abort()
			return
		}

		c.Next()
	}
}
