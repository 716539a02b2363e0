package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// createRateLimiter caps room creations per client IP. The 36^4 code space is
// small enough that an unthrottled client could meaningfully crowd it.
func createRateLimiter(perMin int) func(http.Handler) http.Handler {
	if perMin <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var mu sync.Mutex
	clients := make(map[string]*client)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if host, _, err := net.SplitHostPort(ip); err == nil {
				ip = host
			}

			mu.Lock()
			c, ok := clients[ip]
			if !ok {
				c = &client{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), perMin)}
				clients[ip] = c
			}
			c.lastSeen = time.Now()
			if len(clients) > 10000 {
				for k, v := range clients {
					if time.Since(v.lastSeen) > 10*time.Minute {
						delete(clients, k)
					}
				}
			}
			allowed := c.limiter.Allow()
			mu.Unlock()

			if !allowed {
				writeError(w, http.StatusTooManyRequests, "too many rooms created, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
