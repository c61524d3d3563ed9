// Package models defines the domain records shared across stores and services.
package models

import (
	"strings"
	"time"
)

// LikeStatusValue is a user's reaction to a post or comment.
type LikeStatusValue string

const (
	LikeStatusNone    LikeStatusValue = "None"
	LikeStatusLike    LikeStatusValue = "Like"
	LikeStatusDislike LikeStatusValue = "Dislike"
)

// ParseLikeStatus validates a raw reaction value from the API.
func ParseLikeStatus(raw string) (LikeStatusValue, bool) {
	switch LikeStatusValue(strings.TrimSpace(raw)) {
	case LikeStatusNone:
		return LikeStatusNone, true
	case LikeStatusLike:
		return LikeStatusLike, true
	case LikeStatusDislike:
		return LikeStatusDislike, true
	}
	return LikeStatusNone, false
}

// ParentType identifies which kind of content a like status is attached to.
type ParentType string

const (
	ParentPost    ParentType = "POST"
	ParentComment ParentType = "COMMENT"
)

// BanInfo is the authoritative ban state carried by a user record.
// BanDate is nil while the user is not banned.
type BanInfo struct {
	IsBanned  bool       `json:"isBanned"`
	BanDate   *time.Time `json:"banDate"`
	BanReason string     `json:"banReason,omitempty"`
}

// User is an account record. Users are never hard-deleted; BanInfo is
// mutated only by the moderation service.
type User struct {
	ID           string
	Login        string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	BanInfo      BanInfo
}

// Blog belongs to one owner. IsBanned here is the admin-level blog ban,
// independent of any user ban.
type Blog struct {
	ID          string
	OwnerID     string
	OwnerLogin  string
	Name        string
	Description string
	WebsiteURL  string
	IsBanned    bool
	CreatedAt   time.Time
}

// BlogBan records that one user is blocked from interacting with one blog.
// There is at most one record per (UserID, BlogID) pair; it is created
// lazily on the first ban action and mutated in place afterwards.
type BlogBan struct {
	ID        string
	BlogID    string
	BlogName  string
	UserID    string
	UserLogin string
	IsBanned  bool
	BanReason string
	BanDate   *time.Time
	CreatedAt time.Time
}

// Post carries a denormalized IsBanned flag copied from its author's
// global ban state. The flag is what listings filter on; only the
// moderation cascade may change it after creation.
type Post struct {
	ID               string
	BlogID           string
	BlogName         string
	UserID           string
	Title            string
	ShortDescription string
	Content          string
	IsBanned         bool
	CreatedAt        time.Time
}

// Comment carries a denormalized IsBanned flag, true when the author is
// globally banned.
type Comment struct {
	ID        string
	PostID    string
	UserID    string
	UserLogin string
	Content   string
	IsBanned  bool
	CreatedAt time.Time
}

// LikeStatus is the single reaction record for (ParentID, ParentType,
// UserID). It is an upsert target, not an append log. IsBanned
// denormalizes the reacting user's global ban state so counts can
// exclude banned reactors without a join.
type LikeStatus struct {
	ID         string
	ParentID   string
	ParentType ParentType
	UserID     string
	UserLogin  string
	Status     LikeStatusValue
	IsBanned   bool
	CreatedAt  time.Time
}

// DeviceSession is an active login session. Sessions live in the device
// store and are deleted wholesale when their user is banned.
type DeviceSession struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	UserLogin string    `json:"user_login"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}
