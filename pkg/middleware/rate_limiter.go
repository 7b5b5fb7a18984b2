package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	perMin   int
	burst    int
}

// NewRateLimiter allows perMinute requests per IP with the given burst.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		perMin:   perMinute,
		burst:    burst,
	}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters[ip]
	if !ok {
		l = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.perMin)), rl.burst)
		rl.limiters[ip] = l
	}
	return l
}

// RateLimitMiddleware rejects requests over the limit with 429.
// A non-positive perMinute disables limiting.
func RateLimitMiddleware(rl *RateLimiter, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.perMin <= 0 {
			c.Next()
			return
		}
		ip := c.ClientIP()
		if !rl.limiter(ip).Allow() {
			log.Warn("rate limit exceeded", zap.String("client_ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   gin.H{"code": "RATE_LIMITED", "message": "rate limit exceeded, try again later"},
			})
			return
		}
		c.Next()
	}
}
