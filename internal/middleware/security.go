package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// maxBodyBytes caps request bodies. The largest legitimate payload is a
// post body, well under this.
const maxBodyBytes = 1 << 20 // 1MB

// LimitBodyMiddleware caps the request body size so a hostile client
// cannot exhaust memory with an oversized payload.
func LimitBodyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

// SecurityHeadersMiddleware sets the standard hardening headers on
// every response.
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		next.ServeHTTP(w, r)
	})
}

// visitor tracks one client's request count within the current window.
type visitor struct {
	count       int
	windowStart time.Time
	lastSeen    time.Time
}

// RateLimiter is a fixed-window per-IP limiter.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int
	window   time.Duration
	cleanup  time.Duration
}

// NewRateLimiter creates a limiter allowing rate requests per window.
func NewRateLimiter(rate int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		window:   window,
		cleanup:  2 * window,
	}
}

// Allow reports whether the given client may make another request now.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors[ip]
	if !ok || now.Sub(v.windowStart) >= rl.window {
		rl.visitors[ip] = &visitor{count: 1, windowStart: now, lastSeen: now}
		rl.evictStale(now)
		return true
	}

	v.lastSeen = now
	if v.count >= rl.rate {
		return false
	}
	v.count++
	return true
}

// evictStale drops visitors idle past the cleanup horizon. Called with
// the lock held.
func (rl *RateLimiter) evictStale(now time.Time) {
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) >= rl.cleanup {
			delete(rl.visitors, ip)
		}
	}
}

// RateLimitConfig groups the per-surface limiters. Login attempts get
// the tightest budget, the rest of the API a looser one.
type RateLimitConfig struct {
	AuthLimiter   *RateLimiter
	AdminLimiter  *RateLimiter
	GlobalLimiter *RateLimiter
}

// NewDefaultRateLimitConfig returns production limits.
func NewDefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		AuthLimiter:   NewRateLimiter(10, time.Minute),
		AdminLimiter:  NewRateLimiter(60, time.Minute),
		GlobalLimiter: NewRateLimiter(300, time.Minute),
	}
}

// RateLimitMiddleware applies per-IP rate limits, picking a limiter by
// path prefix.
func RateLimitMiddleware(config *RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := config.GlobalLimiter
			switch {
			case strings.HasPrefix(r.URL.Path, "/api/auth/"):
				limiter = config.AuthLimiter
			case strings.HasPrefix(r.URL.Path, "/api/sa/"):
				limiter = config.AdminLimiter
			}

			if !limiter.Allow(GetClientIP(r)) {
				w.Header().Set("Retry-After", strconv.Itoa(int(limiter.window.Seconds())))
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
