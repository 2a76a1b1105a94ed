package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// rateLimitMaxClients bounds the tracked-client map; crossing it
	// triggers a prune of stale entries.
	rateLimitMaxClients = 1024

	rateLimitStaleAfter = 3 * time.Minute
)

// RateLimitMiddleware applies a per-client requests-per-second cap. Each
// client IP gets its own token bucket so one noisy consumer cannot starve
// the rest.
func RateLimitMiddleware(rps int) gin.HandlerFunc {
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var mu sync.Mutex
	clients := make(map[string]*client)

	return func(c *gin.Context) {
		ip := c.ClientIP()

		mu.Lock()
		cl, ok := clients[ip]
		if !ok {
			cl = &client{limiter: rate.NewLimiter(rate.Limit(rps), rps)}
			clients[ip] = cl
		}
		cl.lastSeen = time.Now()

		if len(clients) > rateLimitMaxClients {
			cutoff := time.Now().Add(-rateLimitStaleAfter)
			for key, other := range clients {
				if other.lastSeen.Before(cutoff) {
					delete(clients, key)
				}
			}
		}

		allowed := cl.limiter.Allow()
		mu.Unlock()

		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
