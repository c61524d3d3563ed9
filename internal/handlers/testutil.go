package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/moderation"
	"inkwell/internal/query"
)

// TestFixtures contains sample data for testing
type TestFixtures struct {
	User    *models.User
	Blog    *models.Blog
	Post    *models.Post
	Comment *models.Comment
	Viewer  *middleware.Viewer
}

// NewTestFixtures creates a set of sample test data
func NewTestFixtures() *TestFixtures {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	user := &models.User{
		ID:           "user-1",
		Login:        "maria",
		Email:        "maria@example.com",
		PasswordHash: "$2a$10$invalidhashforfixtures",
		CreatedAt:    now,
	}

	blog := &models.Blog{
		ID:          "blog-1",
		OwnerID:     user.ID,
		OwnerLogin:  user.Login,
		Name:        "Field Notes",
		Description: "Occasional writing",
		WebsiteURL:  "https://example.com",
		CreatedAt:   now,
	}

	post := &models.Post{
		ID:               "post-1",
		BlogID:           blog.ID,
		BlogName:         blog.Name,
		UserID:           user.ID,
		Title:            "First Post",
		ShortDescription: "A short description",
		Content:          "The post content",
		CreatedAt:        now,
	}

	comment := &models.Comment{
		ID:        "comment-1",
		PostID:    post.ID,
		UserID:    "user-2",
		UserLogin: "ivan",
		Content:   "A comment long enough to pass validation",
		CreatedAt: now,
	}

	return &TestFixtures{
		User:    user,
		Blog:    blog,
		Post:    post,
		Comment: comment,
		Viewer:  &middleware.Viewer{UserID: user.ID, Login: user.Login, Token: "session-token-1"},
	}
}

// TestContext contains test dependencies
type TestContext struct {
	Handler  *Handler
	Users    *database.MockUserStore
	Blogs    *database.MockBlogStore
	Posts    *database.MockPostStore
	Comments *database.MockCommentStore
	Likes    *database.MockLikeStore
	Devices  *database.MockDeviceStore
	Fixtures *TestFixtures
}

// NewTestContext creates a test context with mock stores wired through
// the real moderation service and query engine, so handler tests
// exercise the same paths the server does.
func NewTestContext() *TestContext {
	tc := &TestContext{
		Users:    &database.MockUserStore{},
		Blogs:    &database.MockBlogStore{},
		Posts:    &database.MockPostStore{},
		Comments: &database.MockCommentStore{},
		Likes:    &database.MockLikeStore{},
		Devices:  &database.MockDeviceStore{},
		Fixtures: NewTestFixtures(),
	}

	moderationSvc := moderation.NewService(tc.Users, tc.Blogs, tc.Comments, tc.Likes, tc.Devices)
	queries := query.NewEngine(tc.Blogs, tc.Posts, tc.Comments, tc.Likes)

	tc.Handler = NewHandler(moderationSvc, queries,
		tc.Users, tc.Blogs, tc.Posts, tc.Comments, tc.Likes, tc.Devices,
		Config{AdminToken: "test-admin-token"})
	return tc
}

// NewJSONRequest builds an unauthenticated request with an optional
// JSON body and "id" path value.
func NewJSONRequest(method, target, pathID string, body any) *http.Request {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if pathID != "" {
		req.SetPathValue("id", pathID)
	}
	return req
}

// NewAuthenticatedRequest builds a request carrying the given viewer,
// the way ViewerMiddleware would attach it.
func NewAuthenticatedRequest(method, target, pathID string, body any, viewer *middleware.Viewer) *http.Request {
	req := NewJSONRequest(method, target, pathID, body)
	return req.WithContext(middleware.WithViewer(req.Context(), viewer))
}
