package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/hottakes/hottakes-api/internal/apperr"
	"github.com/hottakes/hottakes-api/pkg/logger"
)

const limiterPrefix = "hottakes:ratelimit"

// NewLimiterStore returns a redis backed store when redisURL is set, so that
// replicas share counters, and an in-process store otherwise.
func NewLimiterStore(redisURL string) (limiter.Store, error) {
	if redisURL == "" {
		return memory.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          limiterPrefix,
			CleanUpInterval: limiter.DefaultCleanUpInterval,
		}), nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	store, err := sredis.NewStoreWithOptions(redis.NewClient(opts), limiter.StoreOptions{
		Prefix:   limiterPrefix,
		MaxRetry: 3,
	})
	if err != nil {
		return nil, fmt.Errorf("redis limiter store: %w", err)
	}
	return store, nil
}

// RateLimitMiddleware allows rps requests per second per client and route.
func RateLimitMiddleware(store limiter.Store, rps int) gin.HandlerFunc {
	rate := limiter.Rate{
		Period: time.Second,
		Limit:  int64(rps),
	}

	instance := limiter.New(store, rate, limiter.WithTrustForwardHeader(true))

	return mgin.NewMiddleware(instance,
		mgin.WithKeyGetter(func(c *gin.Context) string {
			path := c.FullPath()
			if path == "" {
				path = c.Request.URL.Path
			}
			return fmt.Sprintf("%s:%s", c.ClientIP(), path)
		}),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			_ = c.Error(apperr.TooManyRequests())
		}),
		// fail open when the store is unreachable
		mgin.WithErrorHandler(func(c *gin.Context, err error) {
			logger.WithError(err).Error("rate limiter unavailable")
			c.Next()
		}),
	)
}
