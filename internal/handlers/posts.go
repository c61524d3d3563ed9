package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/query"
)

type createBlogRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	WebsiteURL  string `json:"websiteUrl"`
}

func (req *createBlogRequest) validate() string {
	switch {
	case strings.TrimSpace(req.Name) == "" || len(req.Name) > 15:
		return "name must be 1-15 characters"
	case len(req.Description) > 500:
		return "description must be at most 500 characters"
	case !strings.HasPrefix(req.WebsiteURL, "https://") || len(req.WebsiteURL) > 100:
		return "websiteUrl must be an https URL of at most 100 characters"
	}
	return ""
}

// HandleBlogCreate creates a blog owned by the caller.
// POST /api/blogger/blogs
func (h *Handler) HandleBlogCreate(w http.ResponseWriter, r *http.Request) {
	viewer, _ := middleware.ViewerFromContext(r.Context())

	var req createBlogRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	blog := &models.Blog{
		ID:          uuid.NewString(),
		OwnerID:     viewer.UserID,
		OwnerLogin:  viewer.Login,
		Name:        h.sanitizer.Sanitize(req.Name),
		Description: h.sanitizer.Sanitize(req.Description),
		WebsiteURL:  req.WebsiteURL,
		CreatedAt:   time.Now().UTC(),
	}
	if err := h.blogs.CreateBlog(r.Context(), blog); err != nil {
		writeDomainError(w, err, "blog")
		return
	}

	writeJSON(w, http.StatusCreated, models.BlogView{
		ID:          blog.ID,
		Name:        blog.Name,
		Description: blog.Description,
		WebsiteURL:  blog.WebsiteURL,
		CreatedAt:   blog.CreatedAt,
	}, "blog")
}

type createPostRequest struct {
	Title            string `json:"title"`
	ShortDescription string `json:"shortDescription"`
	Content          string `json:"content"`
}

func (req *createPostRequest) validate() string {
	switch {
	case strings.TrimSpace(req.Title) == "" || len(req.Title) > 30:
		return "title must be 1-30 characters"
	case strings.TrimSpace(req.ShortDescription) == "" || len(req.ShortDescription) > 100:
		return "shortDescription must be 1-100 characters"
	case strings.TrimSpace(req.Content) == "" || len(req.Content) > 1000:
		return "content must be 1-1000 characters"
	}
	return ""
}

// HandlePostCreate creates a post in one of the caller's blogs.
// POST /api/blogger/blogs/{id}/posts
func (h *Handler) HandlePostCreate(w http.ResponseWriter, r *http.Request) {
	blogID := requireID(w, r.PathValue("id"))
	if blogID == "" {
		return
	}
	viewer, _ := middleware.ViewerFromContext(r.Context())

	var req createPostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	blog, err := h.blogs.GetBlog(r.Context(), blogID)
	if err != nil {
		writeDomainError(w, err, "blog")
		return
	}
	if blog.OwnerID != viewer.UserID {
		http.Error(w, "You do not own this blog", http.StatusForbidden)
		return
	}

	post := &models.Post{
		ID:               uuid.NewString(),
		BlogID:           blog.ID,
		BlogName:         blog.Name,
		UserID:           viewer.UserID,
		Title:            h.sanitizer.Sanitize(req.Title),
		ShortDescription: h.sanitizer.Sanitize(req.ShortDescription),
		Content:          h.sanitizer.Sanitize(req.Content),
		CreatedAt:        time.Now().UTC(),
	}
	if err := h.posts.CreatePost(r.Context(), post); err != nil {
		writeDomainError(w, err, "post")
		return
	}

	writeJSON(w, http.StatusCreated, models.PostView{
		ID:               post.ID,
		Title:            post.Title,
		ShortDescription: post.ShortDescription,
		Content:          post.Content,
		BlogID:           post.BlogID,
		BlogName:         post.BlogName,
		CreatedAt:        post.CreatedAt,
		ExtendedLikesInfo: models.ExtendedLikesInfo{
			MyStatus:    models.LikeStatusNone,
			NewestLikes: []models.LikeDetailsView{},
		},
	}, "post")
}

// HandlePostList returns one page of visible posts. GET /api/posts
func (h *Handler) HandlePostList(w http.ResponseWriter, r *http.Request) {
	page, err := h.queries.ListPosts(r.Context(), middleware.ViewerID(r.Context()), query.ParseListParams(r.URL.Query()))
	if err != nil {
		writeDomainError(w, err, "posts")
		return
	}
	writeJSON(w, http.StatusOK, page, "posts")
}

// HandleBlogPostList returns one page of a blog's visible posts.
// GET /api/blogs/{id}/posts
func (h *Handler) HandleBlogPostList(w http.ResponseWriter, r *http.Request) {
	blogID := requireID(w, r.PathValue("id"))
	if blogID == "" {
		return
	}

	page, err := h.queries.ListPostsForBlog(r.Context(), blogID, middleware.ViewerID(r.Context()), query.ParseListParams(r.URL.Query()))
	if err != nil {
		writeDomainError(w, err, "blog")
		return
	}
	writeJSON(w, http.StatusOK, page, "posts")
}

// HandlePostGet returns one visible post. GET /api/posts/{id}
func (h *Handler) HandlePostGet(w http.ResponseWriter, r *http.Request) {
	postID := requireID(w, r.PathValue("id"))
	if postID == "" {
		return
	}

	post, err := h.queries.GetPost(r.Context(), postID, middleware.ViewerID(r.Context()))
	if err != nil {
		writeDomainError(w, err, "post")
		return
	}
	writeJSON(w, http.StatusOK, post, "post")
}

type likeStatusRequest struct {
	LikeStatus string `json:"likeStatus"`
}

// HandlePostLikeStatus records the caller's reaction to a post.
// PUT /api/posts/{id}/like-status
func (h *Handler) HandlePostLikeStatus(w http.ResponseWriter, r *http.Request) {
	postID := requireID(w, r.PathValue("id"))
	if postID == "" {
		return
	}

	var req likeStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	status, ok := models.ParseLikeStatus(req.LikeStatus)
	if !ok {
		http.Error(w, "likeStatus must be None, Like or Dislike", http.StatusBadRequest)
		return
	}

	if _, err := h.posts.GetVisiblePost(r.Context(), postID); err != nil {
		writeDomainError(w, err, "post")
		return
	}

	h.applyLikeStatus(w, r, postID, models.ParentPost, status)
}

// applyLikeStatus upserts the caller's reaction on a parent,
// denormalizing the caller's current ban state onto the record.
func (h *Handler) applyLikeStatus(w http.ResponseWriter, r *http.Request, parentID string, parentType models.ParentType, status models.LikeStatusValue) {
	viewer, _ := middleware.ViewerFromContext(r.Context())

	user, err := h.users.GetUser(r.Context(), viewer.UserID)
	if err != nil {
		writeDomainError(w, err, "user")
		return
	}

	err = h.likes.UpsertLikeStatus(r.Context(), &models.LikeStatus{
		ID:         uuid.NewString(),
		ParentID:   parentID,
		ParentType: parentType,
		UserID:     user.ID,
		UserLogin:  user.Login,
		Status:     status,
		IsBanned:   user.BanInfo.IsBanned,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		writeDomainError(w, err, "like status")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
