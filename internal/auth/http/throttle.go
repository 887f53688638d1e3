package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	throttleRate  = rate.Limit(1) // sustained attempts per second per client
	throttleBurst = 10
	throttleIdle  = 10 * time.Minute
)

type throttleEntry struct {
	limiter *rate.Limiter
	seen    time.Time
}

// Throttle limits credential-bearing requests per client IP. Entries for
// idle clients are dropped so the map stays bounded.
func Throttle() gin.HandlerFunc {
	var (
		mu      sync.Mutex
		clients = make(map[string]*throttleEntry)
		swept   = time.Now()
	)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		now := time.Now()
		if now.Sub(swept) > throttleIdle {
			for key, entry := range clients {
				if now.Sub(entry.seen) > throttleIdle {
					delete(clients, key)
				}
			}
			swept = now
		}
		entry, ok := clients[ip]
		if !ok {
			entry = &throttleEntry{limiter: rate.NewLimiter(throttleRate, throttleBurst)}
			clients[ip] = entry
		}
		entry.seen = now
		allowed := entry.limiter.Allow()
		mu.Unlock()

		if !allowed {
			c.String(http.StatusTooManyRequests, "Too many requests. Please slow down.")
			c.Abort()
			return
		}
		c.Next()
	}
}
