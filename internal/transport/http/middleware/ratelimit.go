package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit caps requests per client IP over the given period, backed
// by an in-memory store. Each call owns its own store, so the auth and
// general API limiters count independently.
func RateLimit(limit int64, period time.Duration) gin.HandlerFunc {
	instance := limiter.New(memory.NewStore(), limiter.Rate{
		Period: period,
		Limit:  limit,
	})

	return mgin.NewMiddleware(instance, mgin.WithLimitReachedHandler(func(c *gin.Context) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, retry later."})
	}))
}
