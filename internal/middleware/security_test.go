package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	handler := SecurityHeadersMiddleware(okHandler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/posts", nil))

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.NotEmpty(t, rec.Header().Get("Permissions-Policy"))
}

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d should pass", i)
	}
	assert.False(t, rl.Allow("10.0.0.1"), "fourth request in the window must be refused")

	// Separate IPs get separate windows.
	assert.True(t, rl.Allow("10.0.0.2"))
}

func TestRateLimiter_WindowReset(t *testing.T) {
	rl := NewRateLimiter(1, 50*time.Millisecond)

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))

	time.Sleep(60 * time.Millisecond)
	assert.True(t, rl.Allow("10.0.0.1"), "a new window starts once the old one expires")
}

func TestRateLimitMiddleware_PicksLimiterBySurface(t *testing.T) {
	config := &RateLimitConfig{
		AuthLimiter:   NewRateLimiter(1, time.Minute),
		AdminLimiter:  NewRateLimiter(2, time.Minute),
		GlobalLimiter: NewRateLimiter(100, time.Minute),
	}
	handler := RateLimitMiddleware(config)(okHandler())

	do := func(path string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.RemoteAddr = "203.0.113.5:1234"
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("/api/auth/login"))
	assert.Equal(t, http.StatusTooManyRequests, do("/api/auth/login"), "auth surface has the tightest budget")

	// Auth exhaustion must not bleed into the other surfaces.
	assert.Equal(t, http.StatusOK, do("/api/sa/users"))
	assert.Equal(t, http.StatusOK, do("/api/posts"))
}

func TestRateLimitMiddleware_SetsRetryAfter(t *testing.T) {
	config := &RateLimitConfig{
		AuthLimiter:   NewRateLimiter(0, time.Minute),
		AdminLimiter:  NewRateLimiter(0, time.Minute),
		GlobalLimiter: NewRateLimiter(0, time.Minute),
	}
	handler := RateLimitMiddleware(config)(okHandler())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.RemoteAddr = "203.0.113.5:1234"
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestLimitBodyMiddleware(t *testing.T) {
	handler := LimitBodyMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, maxBodyBytes+1)
		_, err := r.Body.Read(buf)
		var maxErr *http.MaxBytesError
		if assert.ErrorAs(t, err, &maxErr) {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	oversized := strings.NewReader(strings.Repeat("a", maxBodyBytes+1))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/posts", oversized))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "192.0.2.1:5050",
			want:       "192.0.2.1",
		},
		{
			name:       "x-forwarded-for wins",
			remoteAddr: "10.0.0.1:5050",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"},
			want:       "203.0.113.7",
		},
		{
			name:       "x-real-ip fallback",
			remoteAddr: "10.0.0.1:5050",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			want:       "203.0.113.9",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "192.0.2.1",
			want:       "192.0.2.1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			require.Equal(t, tt.want, GetClientIP(req))
		})
	}
}
