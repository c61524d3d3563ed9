package middleware

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"inkwell/internal/database"
)

type contextKey string

const viewerContextKey contextKey = "viewer"

// Viewer is the authenticated caller attached to a request context.
type Viewer struct {
	UserID string
	Login  string
	Token  string
}

// WithViewer attaches an authenticated viewer to the context.
func WithViewer(ctx context.Context, v *Viewer) context.Context {
	return context.WithValue(ctx, viewerContextKey, v)
}

// ViewerFromContext returns the authenticated viewer, if any.
func ViewerFromContext(ctx context.Context) (*Viewer, bool) {
	v, ok := ctx.Value(viewerContextKey).(*Viewer)
	return v, ok
}

// ViewerID returns the authenticated user's ID, or "" when the request
// is unauthenticated.
func ViewerID(ctx context.Context) string {
	if v, ok := ViewerFromContext(ctx); ok {
		return v.UserID
	}
	return ""
}

// BearerToken extracts the token from an Authorization header.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// ViewerMiddleware resolves the bearer token against the session store
// and attaches the viewer to the request context. It never rejects:
// requests without a valid session simply stay unauthenticated, and
// handlers that need auth enforce it themselves.
func ViewerMiddleware(devices database.DeviceStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := devices.GetSession(r.Context(), token)
			if err != nil {
				if !errors.Is(err, database.ErrNotFound) {
					log.Error().Err(err).Msg("Failed to resolve session token")
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithViewer(r.Context(), &Viewer{
				UserID: session.UserID,
				Login:  session.UserLogin,
				Token:  session.Token,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireViewer rejects unauthenticated requests with 401.
func RequireViewer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ViewerFromContext(r.Context()); !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin guards the super-admin surface with a static token.
// Comparison is constant-time to avoid leaking prefix matches.
func RequireAdmin(adminToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminToken == "" {
				log.Warn().Str("path", r.URL.Path).Msg("Admin route hit but no admin token configured")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			token := BearerToken(r)
			if subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
				log.Warn().
					Str("client_ip", GetClientIP(r)).
					Str("path", r.URL.Path).
					Msg("Admin token invalid")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
