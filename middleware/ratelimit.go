package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Fixed-window per-IP rate limiting, kept in memory. Good enough for a
// single instance; a shared deployment would move this to the database.

type rateLimiter struct {
	mu      sync.Mutex
	clients map[string]*windowState
	limit   int
	window  time.Duration
}

type windowState struct {
	count   int
	resetAt time.Time
}

var limiter = &rateLimiter{
	clients: make(map[string]*windowState),
	limit:   120,
	window:  time.Minute,
}

func init() {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			limiter.evictExpired()
		}
	}()
}

func RateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		retryAfter, allowed := limiter.allow(c.ClientIP())
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": retryAfter.Seconds(),
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *rateLimiter) allow(ip string) (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	state, ok := rl.clients[ip]
	if !ok || now.After(state.resetAt) {
		rl.clients[ip] = &windowState{count: 1, resetAt: now.Add(rl.window)}
		return 0, true
	}

	if state.count >= rl.limit {
		return state.resetAt.Sub(now), false
	}

	state.count++
	return 0, true
}

func (rl *rateLimiter) evictExpired() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for ip, state := range rl.clients {
		if now.After(state.resetAt) {
			delete(rl.clients, ip)
		}
	}
}
