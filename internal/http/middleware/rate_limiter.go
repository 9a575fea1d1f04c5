package middleware

import (
	"fmt"
	"net/http"
	"sync"

	"legal-docs-service/internal/auth"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"

	globalRequestsPerSecond = 50
	globalBurst             = 100
	strictRequestsPerSecond = 2
	strictBurst             = 5

	msgTooManyRequests = "too many requests, please slow down"
)

// RateLimiter implements token bucket rate limiting per identity
type RateLimiter struct {
	limiters sync.Map // key -> *rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewRateLimiter creates a new rate limiter
// requestsPerSecond: number of requests allowed per second
// burst: maximum burst size
func NewRateLimiter(requestsPerSecond int, burst int) *RateLimiter {
	return &RateLimiter{
		rate:  rate.Limit(requestsPerSecond),
		burst: burst,
	}
}

// NewGlobalRateLimiter returns the service-wide limiter.
func NewGlobalRateLimiter() *RateLimiter {
	return NewRateLimiter(globalRequestsPerSecond, globalBurst)
}

// NewStrictRateLimiter returns the tighter limiter used on auth
// endpoints.
func NewStrictRateLimiter() *RateLimiter {
	return NewRateLimiter(strictRequestsPerSecond, strictBurst)
}

// getLimiter gets or creates a rate limiter for the given key
func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	limiter, exists := rl.limiters.Load(key)
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Store(key, limiter)
	}
	return limiter.(*rate.Limiter)
}

// Allow checks if a request should be allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Middleware returns an Echo middleware function for rate limiting.
// Authenticated requests are keyed by user id, the rest by client IP.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var key string
			if userID, err := auth.GetUserID(c); err == nil {
				key = "user:" + userID.String()
			} else {
				key = "ip:" + c.RealIP()
			}

			limiter := rl.getLimiter(key)

			c.Response().Header().Set(headerRateLimitLimit, fmt.Sprintf("%d", rl.burst))
			if !limiter.Allow() {
				c.Response().Header().Set(headerRateLimitRemaining, "0")
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": msgTooManyRequests})
			}
			c.Response().Header().Set(headerRateLimitRemaining, fmt.Sprintf("%d", int(limiter.Tokens())))

			return next(c)
		}
	}
}
