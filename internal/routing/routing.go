package routing

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"inkwell/internal/database"
	"inkwell/internal/handlers"
	"inkwell/internal/middleware"
)

// Config holds the configuration needed for setting up routes
type Config struct {
	Handlers   *handlers.Handler
	Devices    database.DeviceStore
	AdminToken string
	Logger     zerolog.Logger
}

// SetupRouter creates and configures the HTTP router with all routes and middleware
func SetupRouter(cfg Config) http.Handler {
	h := cfg.Handlers
	mux := http.NewServeMux()

	// Create CrossOriginProtection for CSRF protection
	cop := http.NewCrossOriginProtection()

	admin := middleware.RequireAdmin(cfg.AdminToken)
	authed := middleware.RequireViewer

	// Auth
	mux.Handle("POST /api/auth/login", cop.Handler(http.HandlerFunc(h.HandleLogin)))
	mux.Handle("POST /api/auth/logout", cop.Handler(authed(http.HandlerFunc(h.HandleLogout))))
	mux.Handle("GET /api/auth/me", authed(http.HandlerFunc(h.HandleMe)))

	// Public read surface
	mux.HandleFunc("GET /api/posts", h.HandlePostList)
	mux.HandleFunc("GET /api/posts/{id}", h.HandlePostGet)
	mux.HandleFunc("GET /api/posts/{id}/comments", h.HandlePostCommentList)
	mux.HandleFunc("GET /api/blogs/{id}/posts", h.HandleBlogPostList)
	mux.HandleFunc("GET /api/comments/{id}", h.HandleCommentGet)

	// Authenticated interactions
	mux.Handle("PUT /api/posts/{id}/like-status", cop.Handler(authed(http.HandlerFunc(h.HandlePostLikeStatus))))
	mux.Handle("PUT /api/comments/{id}/like-status", cop.Handler(authed(http.HandlerFunc(h.HandleCommentLikeStatus))))
	mux.Handle("POST /api/posts/{id}/comments", cop.Handler(authed(http.HandlerFunc(h.HandleCommentCreate))))

	// Blogger surface
	mux.Handle("POST /api/blogger/blogs", cop.Handler(authed(http.HandlerFunc(h.HandleBlogCreate))))
	mux.Handle("POST /api/blogger/blogs/{id}/posts", cop.Handler(authed(http.HandlerFunc(h.HandlePostCreate))))
	mux.Handle("GET /api/blogger/blogs/comments", authed(http.HandlerFunc(h.HandleBloggerComments)))
	mux.Handle("PUT /api/blogger/users/{id}/ban", cop.Handler(authed(http.HandlerFunc(h.HandleBlogBan))))
	mux.Handle("GET /api/blogger/users/blog/{id}", authed(http.HandlerFunc(h.HandleBannedUsersForBlog)))

	// Super-admin surface
	mux.Handle("POST /api/sa/users", cop.Handler(admin(http.HandlerFunc(h.HandleUserCreate))))
	mux.Handle("PUT /api/sa/users/{id}/ban", cop.Handler(admin(http.HandlerFunc(h.HandleUserBan))))
	mux.Handle("POST /api/sa/users/{id}/ban/retry", cop.Handler(admin(http.HandlerFunc(h.HandleCascadeRetry))))
	mux.Handle("GET /api/sa/stats", admin(http.HandlerFunc(h.HandleStats)))

	// Prometheus scrape endpoint
	mux.Handle("GET /metrics", promhttp.Handler())

	// Apply middleware in order (outermost first, innermost last)
	var handler http.Handler = mux

	// 1. Limit request body size (innermost - runs first on request)
	handler = middleware.LimitBodyMiddleware(handler)

	// 2. Compress responses
	handler = gzhttp.GzipHandler(handler)

	// 3. Apply rate limiting
	rateLimitConfig := middleware.NewDefaultRateLimitConfig()
	handler = middleware.RateLimitMiddleware(rateLimitConfig)(handler)

	// 4. Apply security headers
	handler = middleware.SecurityHeadersMiddleware(handler)

	// 5. Apply logging middleware
	handler = middleware.LoggingMiddleware(cfg.Logger)(handler)

	// 6. Resolve the session token before logging so the viewer shows
	// up in request logs
	handler = middleware.ViewerMiddleware(cfg.Devices)(handler)

	// 7. Trace spans wrap everything
	handler = otelhttp.NewHandler(handler, "http.server")

	return handler
}
