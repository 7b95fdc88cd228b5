package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type rateLimiter struct {
	clients map[string]*clientWindow
	mu      sync.Mutex
	limit   int
	window  time.Duration
}

type clientWindow struct {
	count   int
	resetAt time.Time
}

var limiter = &rateLimiter{
	clients: make(map[string]*clientWindow),
	limit:   100,
	window:  time.Minute,
}

func init() {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			limiter.cleanup()
		}
	}()
}

func (rl *rateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := time.Now()
	for ip, cw := range rl.clients {
		if now.After(cw.resetAt) {
			delete(rl.clients, ip)
		}
	}
}

// RateLimiter applies a fixed per-IP request window.
func RateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		limiter.mu.Lock()
		cw, exists := limiter.clients[ip]
		now := time.Now()

		if !exists || now.After(cw.resetAt) {
			limiter.clients[ip] = &clientWindow{count: 1, resetAt: now.Add(limiter.window)}
			limiter.mu.Unlock()
			c.Next()
			return
		}

		if cw.count >= limiter.limit {
			retryAfter := int(time.Until(cw.resetAt).Seconds()) + 1
			limiter.mu.Unlock()
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests",
				"retry_after": retryAfter,
			})
			return
		}

		cw.count++
		limiter.mu.Unlock()
		c.Next()
	}
}
