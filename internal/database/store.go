// Package database defines the persistence contracts consumed by the
// moderation and query services. Implementations live in sqlitestore
// (relational records) and boltstore (device sessions); the interfaces
// keep both swappable and mockable.
package database

import (
	"context"
	"errors"

	"inkwell/internal/models"
)

// ErrNotFound is returned when a referenced record does not exist or is
// invisible to the caller.
var ErrNotFound = errors.New("not found")

// ListOptions is the shared slice contract for listing operations.
// Count and List must be evaluated against the same filter so the
// pagination envelope never drifts from the returned slice.
type ListOptions struct {
	SortBy   string
	SortDesc bool
	Skip     int
	Limit    int
}

// PostFilter selects posts. Listings always exclude banned posts unless
// IncludeBanned is set (used only by internal tooling and tests).
type PostFilter struct {
	BlogID         string
	OwnerID        string
	SearchNameTerm string
	IncludeBanned  bool
}

// CommentFilter selects comments. PostOwnerID selects comments across
// every post owned by that user (the blogger comment feed).
type CommentFilter struct {
	PostID        string
	PostOwnerID   string
	IncludeBanned bool
}

// BlogBanFilter selects per-blog ban records. The banned-users listing
// never filters on IsBanned: its purpose is to show banned entries.
type BlogBanFilter struct {
	BlogID          string
	SearchLoginTerm string
}

// UserStore persists account records.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByLogin(ctx context.Context, login string) (*models.User, error)
	// SetUserBan writes the authoritative ban flag. Only the moderation
	// service may call this.
	SetUserBan(ctx context.Context, id string, info models.BanInfo) error
	CountUsers(ctx context.Context) (int, error)
}

// BlogStore persists blogs and per-blog ban records.
type BlogStore interface {
	CreateBlog(ctx context.Context, blog *models.Blog) error
	GetBlog(ctx context.Context, id string) (*models.Blog, error)

	// GetBlogBan returns the single ban record for the pair, or
	// ErrNotFound if the user was never banned from this blog.
	GetBlogBan(ctx context.Context, userID, blogID string) (*models.BlogBan, error)
	// UpsertBlogBan inserts the record or updates the existing one in
	// place; the record ID for a (user, blog) pair never changes.
	UpsertBlogBan(ctx context.Context, ban *models.BlogBan) error
	CountBlogBans(ctx context.Context, f BlogBanFilter) (int, error)
	ListBlogBans(ctx context.Context, f BlogBanFilter, opts ListOptions) ([]*models.BlogBan, error)
}

// PostStore persists posts.
type PostStore interface {
	CreatePost(ctx context.Context, post *models.Post) error
	// GetVisiblePost returns ErrNotFound for banned posts as well as
	// missing ones; a banned post is indistinguishable from absence.
	GetVisiblePost(ctx context.Context, id string) (*models.Post, error)
	CountPosts(ctx context.Context, f PostFilter) (int, error)
	ListPosts(ctx context.Context, f PostFilter, opts ListOptions) ([]*models.Post, error)
}

// CommentStore persists comments.
type CommentStore interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetVisibleComment(ctx context.Context, id string) (*models.Comment, error)
	CountComments(ctx context.Context, f CommentFilter) (int, error)
	ListComments(ctx context.Context, f CommentFilter, opts ListOptions) ([]*models.Comment, error)
	// SetCommentsBanByUser sets the denormalized flag on every comment
	// authored by the user. Idempotent; returns the rows touched.
	SetCommentsBanByUser(ctx context.Context, userID string, banned bool) (int64, error)
}

// LikeStore is the like-status ledger: one record per (parent, parent
// type, user).
type LikeStore interface {
	// UpsertLikeStatus inserts or replaces the user's reaction on the
	// parent, denormalizing the reactor's current ban state.
	UpsertLikeStatus(ctx context.Context, status *models.LikeStatus) error
	// GetLikeStatus returns ErrNotFound when the user never reacted.
	GetLikeStatus(ctx context.Context, parentID string, parentType models.ParentType, userID string) (*models.LikeStatus, error)
	// CountReactions counts reactions of one kind, excluding banned
	// reactors.
	CountReactions(ctx context.Context, parentID string, parentType models.ParentType, status models.LikeStatusValue) (int, error)
	// NewestLikes returns up to limit Like reactions from non-banned
	// reactors, newest first.
	NewestLikes(ctx context.Context, parentID string, parentType models.ParentType, limit int) ([]*models.LikeStatus, error)
	// SetLikesBanByUser sets the denormalized flag on every reaction by
	// the user. Idempotent; returns the rows touched.
	SetLikesBanByUser(ctx context.Context, userID string, banned bool) (int64, error)
}

// DeviceStore persists login sessions. Deleting a user's sessions is
// the final step of the global ban cascade.
type DeviceStore interface {
	SaveSession(ctx context.Context, session models.DeviceSession) error
	GetSession(ctx context.Context, token string) (*models.DeviceSession, error)
	DeleteSession(ctx context.Context, token string) error
	// DeleteAllForUser removes every session for the user and returns
	// how many were removed. Deleting zero sessions is not an error.
	DeleteAllForUser(ctx context.Context, userID string) (int, error)
	Close() error
}
