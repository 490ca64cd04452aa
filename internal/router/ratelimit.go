package router

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/ovaphlow/pitchfork/service-auth-go/pkg/utilities"
)

const msgTooManyRequests = "Too many requests from this IP, please try again later"

// windowCount is one client's usage of the current window.
type windowCount struct {
	start time.Time
	count int
}

// ipLimiter is a fixed-window counter per client IP: at most max requests
// between start and start+window, then the count resets.
type ipLimiter struct {
	mu        sync.Mutex
	clients   map[string]*windowCount
	max       int
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newIPLimiter(window time.Duration, max int) *ipLimiter {
	return &ipLimiter{
		clients: make(map[string]*windowCount),
		max:     max,
		window:  window,
		now:     time.Now,
	}
}

// allow records a hit for ip. It returns whether the hit fits in the window,
// how many hits remain and when the window resets.
func (l *ipLimiter) allow(ip string) (bool, int, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.window {
		for k, c := range l.clients {
			if now.Sub(c.start) >= l.window {
				delete(l.clients, k)
			}
		}
		l.lastSweep = now
	}

	c, ok := l.clients[ip]
	if !ok || now.Sub(c.start) >= l.window {
		c = &windowCount{start: now}
		l.clients[ip] = c
	}
	reset := c.start.Add(l.window)
	if c.count >= l.max {
		return false, 0, reset
	}
	c.count++
	return true, l.max - c.count, reset
}

// RateLimitMiddleware rejects clients that exceed max requests per window with 429
// and reports usage in RateLimit-* headers. Paths in skip are never limited.
// A non-positive max or window disables limiting.
func RateLimitMiddleware(window time.Duration, max int, skip ...string) func(http.Handler) http.Handler {
	if max <= 0 || window <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	l := newIPLimiter(window, max)
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}
	policy := strconv.Itoa(max) + ";w=" + strconv.Itoa(int(window.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skipped[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}
			ok, remaining, reset := l.allow(clientIP(r))
			resetIn := strconv.Itoa(secondsUntil(l.now(), reset))

			h := w.Header()
			h.Set("RateLimit-Policy", policy)
			h.Set("RateLimit-Limit", strconv.Itoa(max))
			h.Set("RateLimit-Remaining", strconv.Itoa(remaining))
			h.Set("RateLimit-Reset", resetIn)
			if !ok {
				h.Set("Retry-After", resetIn)
				utilities.WriteError(w, http.StatusTooManyRequests, msgTooManyRequests, nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// secondsUntil rounds up so clients never retry before the reset.
func secondsUntil(now, t time.Time) int {
	d := t.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
