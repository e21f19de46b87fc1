package httpserver

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"review_analyzer/internal/adapters/observability"
)

const rateLimiterExpiry = 5 * time.Minute

type visitor struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps one token bucket per client IP.
type clientLimiter struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	visitors  map[string]*visitor
	lastPrune time.Time
}

func newClientLimiter(rps float64, burst int) *clientLimiter {
	if burst < 1 {
		burst = 1
	}
	return &clientLimiter{rps: rate.Limit(rps), burst: burst, visitors: map[string]*visitor{}, lastPrune: time.Now()}
}

func (c *clientLimiter) allow(key string) bool {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	if now.Sub(c.lastPrune) > rateLimiterExpiry {
		for k, v := range c.visitors {
			if now.Sub(v.lastSeen) > rateLimiterExpiry {
				delete(c.visitors, k)
			}
		}
		c.lastPrune = now
	}

	v, ok := c.visitors[key]
	if !ok {
		v = &visitor{lim: rate.NewLimiter(c.rps, c.burst)}
		c.visitors[key] = v
	}
	v.lastSeen = now
	return v.lim.AllowN(now, 1)
}

// clientKey is the peer address without its port. Forwarding headers are
// only honored through RealIP, which rewrites RemoteAddr upstream.
func clientKey(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateLimit throttles per client; rps <= 0 disables it.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if rps <= 0 {
			return next
		}
		cl := newClientLimiter(rps, burst)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cl.allow(clientKey(r)) {
				observability.ObserveSubmission("rate_limited")
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
