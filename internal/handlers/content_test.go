package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
)

func TestHandleBlogCreate(t *testing.T) {
	tc := NewTestContext()
	var created *models.Blog
	tc.Blogs.CreateBlogFunc = func(ctx context.Context, blog *models.Blog) error {
		created = blog
		return nil
	}

	req := NewAuthenticatedRequest(http.MethodPost, "/api/blogger/blogs", "",
		createBlogRequest{Name: "Field Notes", Description: "Occasional writing", WebsiteURL: "https://example.com"},
		tc.Fixtures.Viewer)
	rec := httptest.NewRecorder()
	tc.Handler.HandleBlogCreate(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, created)
	assert.Equal(t, "user-1", created.OwnerID)
	assert.Equal(t, "maria", created.OwnerLogin)

	var view models.BlogView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, created.ID, view.ID)
}

func TestHandleBlogCreate_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  createBlogRequest
	}{
		{"empty name", createBlogRequest{Description: "d", WebsiteURL: "https://example.com"}},
		{"long name", createBlogRequest{Name: "a name that is too long", WebsiteURL: "https://example.com"}},
		{"plain http url", createBlogRequest{Name: "notes", WebsiteURL: "http://example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := NewTestContext()
			rec := httptest.NewRecorder()
			tc.Handler.HandleBlogCreate(rec, NewAuthenticatedRequest(http.MethodPost, "/api/blogger/blogs", "", tt.req, tc.Fixtures.Viewer))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleBlogCreate_SanitizesMarkup(t *testing.T) {
	tc := NewTestContext()
	var created *models.Blog
	tc.Blogs.CreateBlogFunc = func(ctx context.Context, blog *models.Blog) error {
		created = blog
		return nil
	}

	req := NewAuthenticatedRequest(http.MethodPost, "/api/blogger/blogs", "",
		createBlogRequest{Name: "notes", Description: `hi<script>alert(1)</script>`, WebsiteURL: "https://example.com"},
		tc.Fixtures.Viewer)
	rec := httptest.NewRecorder()
	tc.Handler.HandleBlogCreate(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, created)
	assert.NotContains(t, created.Description, "<script>")
	assert.Contains(t, created.Description, "hi")
}

func TestHandlePostCreate(t *testing.T) {
	tc := NewTestContext()
	tc.Blogs.GetBlogFunc = func(ctx context.Context, id string) (*models.Blog, error) {
		return tc.Fixtures.Blog, nil
	}
	var created *models.Post
	tc.Posts.CreatePostFunc = func(ctx context.Context, post *models.Post) error {
		created = post
		return nil
	}

	body := createPostRequest{Title: "Title", ShortDescription: "Short", Content: "Content"}

	t.Run("not the owner", func(t *testing.T) {
		other := &middleware.Viewer{UserID: "someone-else", Login: "other"}
		rec := httptest.NewRecorder()
		tc.Handler.HandlePostCreate(rec, NewAuthenticatedRequest(http.MethodPost, "/api/blogger/blogs/blog-1/posts", "blog-1", body, other))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	rec := httptest.NewRecorder()
	tc.Handler.HandlePostCreate(rec, NewAuthenticatedRequest(http.MethodPost, "/api/blogger/blogs/blog-1/posts", "blog-1", body, tc.Fixtures.Viewer))

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, created)
	assert.Equal(t, "blog-1", created.BlogID)
	assert.Equal(t, "Field Notes", created.BlogName)
	assert.False(t, created.IsBanned)

	var view models.PostView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, models.LikeStatusNone, view.ExtendedLikesInfo.MyStatus)
	assert.NotNil(t, view.ExtendedLikesInfo.NewestLikes)
}

func TestHandlePostGet_NotFound(t *testing.T) {
	tc := NewTestContext()

	rec := httptest.NewRecorder()
	tc.Handler.HandlePostGet(rec, NewJSONRequest(http.MethodGet, "/api/posts/hidden", "hidden", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlePostLikeStatus(t *testing.T) {
	tc := NewTestContext()
	tc.Posts.GetVisiblePostFunc = func(ctx context.Context, id string) (*models.Post, error) {
		return tc.Fixtures.Post, nil
	}
	banned := *tc.Fixtures.User
	banned.BanInfo.IsBanned = true
	tc.Users.GetUserFunc = func(ctx context.Context, id string) (*models.User, error) {
		return &banned, nil
	}
	var upserted *models.LikeStatus
	tc.Likes.UpsertLikeStatusFunc = func(ctx context.Context, status *models.LikeStatus) error {
		upserted = status
		return nil
	}

	t.Run("invalid status value", func(t *testing.T) {
		rec := httptest.NewRecorder()
		tc.Handler.HandlePostLikeStatus(rec, NewAuthenticatedRequest(http.MethodPut, "/api/posts/post-1/like-status", "post-1",
			likeStatusRequest{LikeStatus: "Love"}, tc.Fixtures.Viewer))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("hidden post", func(t *testing.T) {
		tcHidden := NewTestContext()
		rec := httptest.NewRecorder()
		tcHidden.Handler.HandlePostLikeStatus(rec, NewAuthenticatedRequest(http.MethodPut, "/api/posts/hidden/like-status", "hidden",
			likeStatusRequest{LikeStatus: "Like"}, tc.Fixtures.Viewer))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("upsert denormalizes ban state", func(t *testing.T) {
		rec := httptest.NewRecorder()
		tc.Handler.HandlePostLikeStatus(rec, NewAuthenticatedRequest(http.MethodPut, "/api/posts/post-1/like-status", "post-1",
			likeStatusRequest{LikeStatus: "Like"}, tc.Fixtures.Viewer))
		assert.Equal(t, http.StatusNoContent, rec.Code)
		require.NotNil(t, upserted)
		assert.Equal(t, models.ParentPost, upserted.ParentType)
		assert.Equal(t, models.LikeStatusLike, upserted.Status)
		assert.True(t, upserted.IsBanned, "the record must carry the reactor's current ban state")
	})
}

func TestHandleCommentLikeStatus(t *testing.T) {
	tc := NewTestContext()
	tc.Comments.GetVisibleCommentFunc = func(ctx context.Context, id string) (*models.Comment, error) {
		return tc.Fixtures.Comment, nil
	}
	tc.Users.GetUserFunc = func(ctx context.Context, id string) (*models.User, error) {
		return tc.Fixtures.User, nil
	}
	var upserted *models.LikeStatus
	tc.Likes.UpsertLikeStatusFunc = func(ctx context.Context, status *models.LikeStatus) error {
		upserted = status
		return nil
	}

	rec := httptest.NewRecorder()
	tc.Handler.HandleCommentLikeStatus(rec, NewAuthenticatedRequest(http.MethodPut, "/api/comments/comment-1/like-status", "comment-1",
		likeStatusRequest{LikeStatus: "Dislike"}, tc.Fixtures.Viewer))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, upserted)
	assert.Equal(t, models.ParentComment, upserted.ParentType)
	assert.Equal(t, models.LikeStatusDislike, upserted.Status)
}

func TestHandleCommentCreate(t *testing.T) {
	tc := NewTestContext()
	tc.Posts.GetVisiblePostFunc = func(ctx context.Context, id string) (*models.Post, error) {
		return tc.Fixtures.Post, nil
	}
	var created *models.Comment
	tc.Comments.CreateCommentFunc = func(ctx context.Context, comment *models.Comment) error {
		created = comment
		return nil
	}

	body := createCommentRequest{Content: "A comment long enough to pass validation"}

	t.Run("success", func(t *testing.T) {
		rec := httptest.NewRecorder()
		tc.Handler.HandleCommentCreate(rec, NewAuthenticatedRequest(http.MethodPost, "/api/posts/post-1/comments", "post-1", body, tc.Fixtures.Viewer))

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, created)
		assert.Equal(t, "post-1", created.PostID)
		assert.Equal(t, "user-1", created.UserID)

		var view models.CommentView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		assert.Equal(t, models.LikeStatusNone, view.LikesInfo.MyStatus)
	})

	t.Run("too short", func(t *testing.T) {
		rec := httptest.NewRecorder()
		tc.Handler.HandleCommentCreate(rec, NewAuthenticatedRequest(http.MethodPost, "/api/posts/post-1/comments", "post-1",
			createCommentRequest{Content: "too short"}, tc.Fixtures.Viewer))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("blocked from the blog", func(t *testing.T) {
		tc.Blogs.GetBlogBanFunc = func(ctx context.Context, userID, blogID string) (*models.BlogBan, error) {
			assert.Equal(t, "blog-1", blogID)
			return &models.BlogBan{IsBanned: true}, nil
		}
		defer func() { tc.Blogs.GetBlogBanFunc = nil }()

		rec := httptest.NewRecorder()
		tc.Handler.HandleCommentCreate(rec, NewAuthenticatedRequest(http.MethodPost, "/api/posts/post-1/comments", "post-1", body, tc.Fixtures.Viewer))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "banned from this blog")
	})

	t.Run("ban lifted", func(t *testing.T) {
		tc.Blogs.GetBlogBanFunc = func(ctx context.Context, userID, blogID string) (*models.BlogBan, error) {
			return &models.BlogBan{IsBanned: false}, nil
		}
		defer func() { tc.Blogs.GetBlogBanFunc = nil }()

		rec := httptest.NewRecorder()
		tc.Handler.HandleCommentCreate(rec, NewAuthenticatedRequest(http.MethodPost, "/api/posts/post-1/comments", "post-1", body, tc.Fixtures.Viewer))
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("hidden post", func(t *testing.T) {
		tcHidden := NewTestContext()
		rec := httptest.NewRecorder()
		tcHidden.Handler.HandleCommentCreate(rec, NewAuthenticatedRequest(http.MethodPost, "/api/posts/hidden/comments", "hidden", body, tc.Fixtures.Viewer))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHandlePostCommentList(t *testing.T) {
	tc := NewTestContext()
	tc.Posts.GetVisiblePostFunc = func(ctx context.Context, id string) (*models.Post, error) {
		return tc.Fixtures.Post, nil
	}
	tc.Comments.CountCommentsFunc = func(ctx context.Context, f database.CommentFilter) (int, error) {
		return 1, nil
	}
	tc.Comments.ListCommentsFunc = func(ctx context.Context, f database.CommentFilter, opts database.ListOptions) ([]*models.Comment, error) {
		return []*models.Comment{tc.Fixtures.Comment}, nil
	}

	rec := httptest.NewRecorder()
	tc.Handler.HandlePostCommentList(rec, NewJSONRequest(http.MethodGet, "/api/posts/post-1/comments", "post-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		TotalCount int                  `json:"totalCount"`
		Items      []models.CommentView `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, 1, page.TotalCount)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "ivan", page.Items[0].CommentatorInfo.UserLogin)
}
