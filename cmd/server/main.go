package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"inkwell/internal/database"
	"inkwell/internal/database/boltstore"
	"inkwell/internal/database/sqlitestore"
	"inkwell/internal/handlers"
	"inkwell/internal/metrics"
	"inkwell/internal/moderation"
	"inkwell/internal/query"
	"inkwell/internal/routing"
	"inkwell/internal/tracing"
)

func main() {
	// Configure zerolog
	// Set log level from environment (default: info)
	logLevel := os.Getenv("LOG_LEVEL")
	switch logLevel {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info", "":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Use pretty console logging in development, JSON in production
	if os.Getenv("LOG_FORMAT") == "json" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	log.Info().Msg("Starting Inkwell")

	ctx := context.Background()

	// Optional OTLP tracing
	if os.Getenv("TRACING_ENABLED") == "true" {
		tp, err := tracing.Init(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize tracing")
		}
		defer tp.Shutdown(ctx)
		log.Info().Msg("Tracing initialized")
	}

	// Get port from env or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "18920"
	}

	dataDir := dataDirectory()

	// Relational store: users, blogs, posts, comments, reactions
	dbPath := os.Getenv("INKWELL_DB_PATH")
	if dbPath == "" {
		dbPath = filepath.Join(dataDir, "inkwell", "inkwell.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		log.Fatal().Err(err).Str("path", dbPath).Msg("Failed to create data directory")
	}

	store, err := sqlitestore.Open(dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", dbPath).Msg("Failed to open database")
	}
	defer store.Close()
	log.Info().Str("path", dbPath).Msg("Database opened")

	// Session store: device sessions live in bolt so the ban cascade can
	// wipe them without touching the relational schema
	sessionsPath := os.Getenv("INKWELL_SESSIONS_PATH")
	if sessionsPath == "" {
		sessionsPath = filepath.Join(dataDir, "inkwell", "sessions.db")
	}

	sessions, err := boltstore.Open(boltstore.Options{
		Path: sessionsPath,
	})
	if err != nil {
		log.Fatal().Err(err).Str("path", sessionsPath).Msg("Failed to open session store")
	}
	defer sessions.Close()
	log.Info().Str("path", sessionsPath).Msg("Session store opened")

	users := store.Users()
	blogs := store.Blogs()
	posts := store.Posts()
	comments := store.Comments()
	likes := store.Likes()
	devices := sessions.DeviceStore()

	moderationSvc := moderation.NewService(users, blogs, comments, likes, devices)
	queryEngine := query.NewEngine(blogs, posts, comments, likes)

	// Periodic gauge refresh for the dashboard
	metrics.StartCollector(ctx, metrics.StatsSource{
		UserCount:    func() int { return count(ctx, users.CountUsers) },
		PostCount:    func() int { return countPosts(ctx, posts) },
		CommentCount: func() int { return countComments(ctx, comments) },
	}, time.Minute)

	adminToken := os.Getenv("ADMIN_TOKEN")
	if adminToken == "" {
		log.Warn().Msg("ADMIN_TOKEN is not set; the super-admin surface is disabled")
	}

	// Initialize handlers with all dependencies via constructor injection
	h := handlers.NewHandler(
		moderationSvc,
		queryEngine,
		users,
		blogs,
		posts,
		comments,
		likes,
		devices,
		handlers.Config{
			AdminToken: adminToken,
		},
	)

	// Setup router with middleware
	handler := routing.SetupRouter(routing.Config{
		Handlers:   h,
		Devices:    devices,
		AdminToken: adminToken,
		Logger:     log.Logger,
	})

	// Start HTTP server
	log.Info().
		Str("address", "0.0.0.0:"+port).
		Str("url", "http://localhost:"+port).
		Str("database", dbPath).
		Str("sessions", sessionsPath).
		Msg("Starting HTTP server")

	if err := http.ListenAndServe("0.0.0.0:"+port, handler); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}

// dataDirectory resolves the XDG data directory, falling back to
// ~/.local/share.
func dataDirectory() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get home directory")
	}
	return filepath.Join(home, ".local", "share")
}

func count(ctx context.Context, fn func(context.Context) (int, error)) int {
	n, err := fn(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to refresh count gauge")
		return 0
	}
	return n
}

func countPosts(ctx context.Context, posts database.PostStore) int {
	n, err := posts.CountPosts(ctx, database.PostFilter{IncludeBanned: true})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to refresh post gauge")
		return 0
	}
	return n
}

func countComments(ctx context.Context, comments database.CommentStore) int {
	n, err := comments.CountComments(ctx, database.CommentFilter{IncludeBanned: true})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to refresh comment gauge")
		return 0
	}
	return n
}
