package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig bounds how often a single client may hit a route
type RateLimitConfig struct {
	// PerMinute is the sustained request rate allowed per client
	PerMinute int
	// Burst is how many requests a client may make at once
	Burst int
	// IdleTTL drops a client's limiter after this long without requests
	IdleTTL time.Duration
}

// DefaultRateLimitConfig returns the login throttling defaults
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		PerMinute: 20,
		Burst:     5,
		IdleTTL:   10 * time.Minute,
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps a token bucket per client address
type RateLimiter struct {
	cfg     RateLimitConfig
	mu      sync.Mutex
	clients map[string]*clientLimiter
	now     func() time.Time
}

// NewRateLimiter creates a RateLimiter
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	defaults := DefaultRateLimitConfig()
	if cfg.PerMinute <= 0 {
		cfg.PerMinute = defaults.PerMinute
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaults.Burst
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaults.IdleTTL
	}
	return &RateLimiter{
		cfg:     cfg,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

// Allow reports whether client may make another request now
func (l *RateLimiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > l.cfg.IdleTTL {
			delete(l.clients, key)
		}
	}

	c, ok := l.clients[client]
	if !ok {
		every := rate.Every(time.Minute / time.Duration(l.cfg.PerMinute))
		c = &clientLimiter{limiter: rate.NewLimiter(every, l.cfg.Burst)}
		l.clients[client] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// RateLimit rejects requests over the client's budget using onLimit
func RateLimit(limiter *RateLimiter, onLimit http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(ClientAddr(r)) {
				onLimit(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ForwardedForHeader carries the browser address on requests the web
// console makes to the API on a user's behalf
const ForwardedForHeader = "X-Forwarded-For"

// ClientAddr returns the address a request is accounted to. The
// forwarded address is trusted only from loopback peers, where the web
// console runs.
func ClientAddr(r *http.Request) string {
	host := RemoteHost(r)
	if ip := net.ParseIP(host); ip == nil || !ip.IsLoopback() {
		return host
	}
	fwd := r.Header.Get(ForwardedForHeader)
	if fwd == "" {
		return host
	}
	if i := strings.LastIndex(fwd, ","); i >= 0 {
		fwd = fwd[i+1:]
	}
	if fwd = strings.TrimSpace(fwd); fwd == "" {
		return host
	}
	return fwd
}

// RemoteHost returns the host part of the request's peer address
func RemoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
