package http

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// rateLimiter is a fixed-window per-client limiter guarding the credential
// endpoints. State is in-process; a multi-instance deployment would move this
// behind the session store, but one window map per instance matches the
// request-scoped model here.
type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients map[string]*clientWindow
	done    chan struct{}
}

type clientWindow struct {
	count int
	start time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		limit:   limit,
		window:  window,
		clients: make(map[string]*clientWindow),
		done:    make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// allow records one request for key and reports whether it fits the window,
// returning the wait until the window resets when it does not.
func (rl *rateLimiter) allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, ok := rl.clients[key]
	if !ok || now.Sub(w.start) >= rl.window {
		rl.clients[key] = &clientWindow{count: 1, start: now}
		return true, 0
	}

	if w.count >= rl.limit {
		return false, w.start.Add(rl.window).Sub(now)
	}
	w.count++
	return true, 0
}

func (rl *rateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-rl.window)
			rl.mu.Lock()
			for key, w := range rl.clients {
				if w.start.Before(cutoff) {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func (rl *rateLimiter) stop() {
	close(rl.done)
}

// middleware rejects over-limit clients with 429 and a Retry-After hint.
func (rl *rateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAfter := rl.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			c.HTML(http.StatusTooManyRequests, "error.tmpl", gin.H{
				"Message": "too many attempts, please try again later",
				"Back":    "/",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
