package models

import "time"

// View models returned by the query engine. Field names follow the
// public API shape, hence camelCase JSON throughout.

// LikeDetailsView is one entry in a post's newest-likes list.
type LikeDetailsView struct {
	AddedAt time.Time `json:"addedAt"`
	UserID  string    `json:"userId"`
	Login   string    `json:"login"`
}

// ExtendedLikesInfo enriches a post with reaction aggregates.
type ExtendedLikesInfo struct {
	LikesCount    int               `json:"likesCount"`
	DislikesCount int               `json:"dislikesCount"`
	MyStatus      LikeStatusValue   `json:"myStatus"`
	NewestLikes   []LikeDetailsView `json:"newestLikes"`
}

// LikesInfo enriches a comment with reaction aggregates.
type LikesInfo struct {
	LikesCount    int             `json:"likesCount"`
	DislikesCount int             `json:"dislikesCount"`
	MyStatus      LikeStatusValue `json:"myStatus"`
}

// CommentatorInfo identifies a comment's author.
type CommentatorInfo struct {
	UserID    string `json:"userId"`
	UserLogin string `json:"userLogin"`
}

// PostView is the read model for a single post.
type PostView struct {
	ID                string            `json:"id"`
	Title             string            `json:"title"`
	ShortDescription  string            `json:"shortDescription"`
	Content           string            `json:"content"`
	BlogID            string            `json:"blogId"`
	BlogName          string            `json:"blogName"`
	CreatedAt         time.Time         `json:"createdAt"`
	ExtendedLikesInfo ExtendedLikesInfo `json:"extendedLikesInfo"`
}

// CommentView is the read model for a single comment.
type CommentView struct {
	ID              string          `json:"id"`
	Content         string          `json:"content"`
	CommentatorInfo CommentatorInfo `json:"commentatorInfo"`
	CreatedAt       time.Time       `json:"createdAt"`
	LikesInfo       LikesInfo       `json:"likesInfo"`
}

// PostInfoView locates a comment within a blogger's content.
type PostInfoView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	BlogID   string `json:"blogId"`
	BlogName string `json:"blogName"`
}

// BloggerCommentView is a comment as seen in the blogger's own
// cross-post comment feed.
type BloggerCommentView struct {
	ID              string          `json:"id"`
	Content         string          `json:"content"`
	CommentatorInfo CommentatorInfo `json:"commentatorInfo"`
	CreatedAt       time.Time       `json:"createdAt"`
	PostInfo        PostInfoView    `json:"postInfo"`
}

// BannedUserView is one row of the admin-facing banned-users list for a
// blog. This is the only read model that intentionally shows banned
// entries.
type BannedUserView struct {
	ID      string  `json:"id"`
	Login   string  `json:"login"`
	BanInfo BanInfo `json:"banInfo"`
}

// BlogView is the read model for a blog.
type BlogView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	WebsiteURL  string    `json:"websiteUrl"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserView is the read model for a user as seen by admins.
type UserView struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	BanInfo   BanInfo   `json:"banInfo"`
}
