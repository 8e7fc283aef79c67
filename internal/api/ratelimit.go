package api

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// visitorTTL is how long an IP's bucket survives without traffic.
	visitorTTL = 10 * time.Minute
	// sweepEvery bounds how often stale buckets are collected.
	sweepEvery = 5 * time.Minute
)

// ipLimiter hands out one token bucket per client IP. Buckets refill at
// rps tokens per second and hold at most burst tokens. Stale buckets are
// collected lazily on the request path, so the limiter needs no
// background goroutine and no Close.
type ipLimiter struct {
	rps   rate.Limit
	burst int

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

// bucket pairs an IP's limiter with the last time it was used.
type bucket struct {
	tokens   *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(rps float64, burst int) *ipLimiter {
	return &ipLimiter{
		rps:       rate.Limit(rps),
		burst:     burst,
		buckets:   make(map[string]*bucket),
		lastSweep: time.Now(),
	}
}

// allow consumes one token from ip's bucket, creating the bucket on
// first use. Reports false when the bucket is empty.
func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.sweep(now)

	b := l.buckets[ip]
	if b == nil {
		b = &bucket{tokens: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[ip] = b
	}
	b.lastSeen = now
	return b.tokens.Allow()
}

// sweep drops buckets idle past visitorTTL. Runs at most once per
// sweepEvery; the caller holds mu.
func (l *ipLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < sweepEvery {
		return
	}
	for ip, b := range l.buckets {
		if now.Sub(b.lastSeen) > visitorTTL {
			delete(l.buckets, ip)
		}
	}
	l.lastSweep = now
}

// rateLimitMiddleware rejects requests over the per-IP budget with 429
// and a Retry-After hint.
func rateLimitMiddleware(l *ipLimiter, trustProxy bool, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r, trustProxy)
			if l.allow(ip) {
				next.ServeHTTP(w, r)
				return
			}

			logger.Warn("rate limit exceeded", "ip", ip, "method", r.Method, "path", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
		})
	}
}

// clientIP decides which IP the rate limiter keys on.
//
// Without trustProxy only RemoteAddr counts, the safe default when the
// listener is reached directly. Behind a reverse proxy the platform-set
// X-Real-IP wins, then the first hop of X-Forwarded-For; header values
// that do not parse as IPs are ignored rather than used as keys.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if ip := headerIP(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
		first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
		if ip := headerIP(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// headerIP parses a proxy header value as an IP, returning "" when it is
// empty or not an address.
func headerIP(raw string) string {
	ip := net.ParseIP(strings.TrimSpace(raw))
	if ip == nil {
		return ""
	}
	return ip.String()
}
