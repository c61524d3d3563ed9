// Package sqlitestore provides SQLite-backed store implementations.
// All relational records (users, blogs, blog bans, posts, comments,
// like statuses) share one database connection.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	_ "modernc.org/sqlite"
)

// Store owns the shared database connection and hands out the typed
// per-entity stores.
type Store struct {
	db *sql.DB

	users    *UserStore
	blogs    *BlogStore
	posts    *PostStore
	comments *CommentStore
	likes    *LikeStore
}

// Open opens (or creates) the SQLite database at path, applies the
// schema, and wraps the driver with OpenTelemetry instrumentation.
func Open(path string) (*Store, error) {
	db, err := otelsql.Open("sqlite", path,
		otelsql.WithAttributes(semconv.DBSystemSqlite),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlitestore: open db: %w", err)
	}

	ctx := context.Background()

	// WAL for concurrent readers, busy timeout so concurrent writers
	// queue instead of failing with "database is locked".
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlitestore: %s: %w", pragma, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlitestore: migrate: %w", err)
	}

	s.users = &UserStore{db: db}
	s.blogs = &BlogStore{db: db}
	s.posts = &PostStore{db: db}
	s.comments = &CommentStore{db: db}
	s.likes = &LikeStore{db: db}
	return s, nil
}

// Close closes the shared database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection for metrics collection.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Users() *UserStore       { return s.users }
func (s *Store) Blogs() *BlogStore       { return s.blogs }
func (s *Store) Posts() *PostStore       { return s.posts }
func (s *Store) Comments() *CommentStore { return s.comments }
func (s *Store) Likes() *LikeStore       { return s.likes }

func (s *Store) migrate(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		login         TEXT NOT NULL UNIQUE,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TEXT NOT NULL,
		is_banned     INTEGER NOT NULL DEFAULT 0,
		ban_date      TEXT,
		ban_reason    TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS blogs (
		id          TEXT PRIMARY KEY,
		owner_id    TEXT NOT NULL REFERENCES users(id),
		owner_login TEXT NOT NULL,
		name        TEXT NOT NULL,
		description TEXT NOT NULL,
		website_url TEXT NOT NULL,
		is_banned   INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_blogs_owner ON blogs(owner_id);

	CREATE TABLE IF NOT EXISTS blog_bans (
		id         TEXT PRIMARY KEY,
		blog_id    TEXT NOT NULL REFERENCES blogs(id),
		blog_name  TEXT NOT NULL,
		user_id    TEXT NOT NULL REFERENCES users(id),
		user_login TEXT NOT NULL,
		is_banned  INTEGER NOT NULL DEFAULT 0,
		ban_reason TEXT NOT NULL DEFAULT '',
		ban_date   TEXT,
		created_at TEXT NOT NULL,
		UNIQUE(user_id, blog_id)
	);
	CREATE INDEX IF NOT EXISTS idx_blog_bans_blog ON blog_bans(blog_id);

	CREATE TABLE IF NOT EXISTS posts (
		id                TEXT PRIMARY KEY,
		blog_id           TEXT NOT NULL REFERENCES blogs(id),
		blog_name         TEXT NOT NULL,
		user_id           TEXT NOT NULL REFERENCES users(id),
		title             TEXT NOT NULL,
		short_description TEXT NOT NULL,
		content           TEXT NOT NULL,
		is_banned         INTEGER NOT NULL DEFAULT 0,
		created_at        TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_posts_blog ON posts(blog_id);
	CREATE INDEX IF NOT EXISTS idx_posts_user ON posts(user_id);

	CREATE TABLE IF NOT EXISTS comments (
		id         TEXT PRIMARY KEY,
		post_id    TEXT NOT NULL REFERENCES posts(id),
		user_id    TEXT NOT NULL REFERENCES users(id),
		user_login TEXT NOT NULL,
		content    TEXT NOT NULL,
		is_banned  INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_comments_post ON comments(post_id);
	CREATE INDEX IF NOT EXISTS idx_comments_user ON comments(user_id);

	CREATE TABLE IF NOT EXISTS like_statuses (
		id          TEXT PRIMARY KEY,
		parent_id   TEXT NOT NULL,
		parent_type TEXT NOT NULL,
		user_id     TEXT NOT NULL REFERENCES users(id),
		user_login  TEXT NOT NULL,
		status      TEXT NOT NULL,
		is_banned   INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		UNIQUE(parent_id, parent_type, user_id)
	);
	CREATE INDEX IF NOT EXISTS idx_like_statuses_parent ON like_statuses(parent_id, parent_type);
	CREATE INDEX IF NOT EXISTS idx_like_statuses_user ON like_statuses(user_id);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Timestamps are stored as RFC3339Nano text.

func encodeTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func decodeTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

func encodeNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: encodeTime(*t), Valid: true}
}

func decodeNullTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t := decodeTime(s.String)
	return &t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
