package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
	"helpful/pkg/utils"
)

// RateLimitMiddleware allows perMinute requests per client IP with a burst of
// the same size. Idle limiters are dropped after ten minutes.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiters := gocache.New(10*time.Minute, 5*time.Minute)
	every := rate.Every(time.Minute / time.Duration(perMinute))

	return func(c *gin.Context) {
		if !limiterFor(limiters, c.ClientIP(), every, perMinute).Allow() {
			utils.RespondError(c, http.StatusTooManyRequests, "Too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}

// limiterFor returns the limiter stored under key. Concurrent first requests
// from one client all end up with the limiter whose Add won.
func limiterFor(limiters *gocache.Cache, key string, every rate.Limit, burst int) *rate.Limiter {
	limiter := rate.NewLimiter(every, burst)
	if err := limiters.Add(key, limiter, gocache.DefaultExpiration); err == nil {
		return limiter
	}

	if v, ok := limiters.Get(key); ok {
		limiter = v.(*rate.Limiter)
	}
	// refresh the idle expiry on every request
	limiters.Set(key, limiter, gocache.DefaultExpiration)
	return limiter
}
