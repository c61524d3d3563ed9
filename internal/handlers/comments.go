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

type createCommentRequest struct {
	Content string `json:"content"`
}

func (req *createCommentRequest) validate() string {
	trimmed := strings.TrimSpace(req.Content)
	if len(trimmed) < 20 || len(trimmed) > 300 {
		return "content must be 20-300 characters"
	}
	return ""
}

// HandleCommentCreate adds a comment to a visible post. A caller who is
// banned from the post's blog gets a 403, not a silent drop.
// POST /api/posts/{id}/comments
func (h *Handler) HandleCommentCreate(w http.ResponseWriter, r *http.Request) {
	postID := requireID(w, r.PathValue("id"))
	if postID == "" {
		return
	}
	viewer, _ := middleware.ViewerFromContext(r.Context())

	var req createCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	post, err := h.posts.GetVisiblePost(r.Context(), postID)
	if err != nil {
		writeDomainError(w, err, "post")
		return
	}

	blocked, err := h.moderation.IsBlockedFromBlog(r.Context(), viewer.UserID, post.BlogID)
	if err != nil {
		writeDomainError(w, err, "comment")
		return
	}
	if blocked {
		http.Error(w, "You are banned from this blog", http.StatusForbidden)
		return
	}

	comment := &models.Comment{
		ID:        uuid.NewString(),
		PostID:    post.ID,
		UserID:    viewer.UserID,
		UserLogin: viewer.Login,
		Content:   h.sanitizer.Sanitize(req.Content),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.comments.CreateComment(r.Context(), comment); err != nil {
		writeDomainError(w, err, "comment")
		return
	}

	writeJSON(w, http.StatusCreated, models.CommentView{
		ID:      comment.ID,
		Content: comment.Content,
		CommentatorInfo: models.CommentatorInfo{
			UserID:    comment.UserID,
			UserLogin: comment.UserLogin,
		},
		CreatedAt: comment.CreatedAt,
		LikesInfo: models.LikesInfo{MyStatus: models.LikeStatusNone},
	}, "comment")
}

// HandlePostCommentList returns one page of a visible post's comments.
// GET /api/posts/{id}/comments
func (h *Handler) HandlePostCommentList(w http.ResponseWriter, r *http.Request) {
	postID := requireID(w, r.PathValue("id"))
	if postID == "" {
		return
	}

	page, err := h.queries.ListCommentsForPost(r.Context(), postID, middleware.ViewerID(r.Context()), query.ParseListParams(r.URL.Query()))
	if err != nil {
		writeDomainError(w, err, "post")
		return
	}
	writeJSON(w, http.StatusOK, page, "comments")
}

// HandleCommentGet returns one visible comment. GET /api/comments/{id}
func (h *Handler) HandleCommentGet(w http.ResponseWriter, r *http.Request) {
	commentID := requireID(w, r.PathValue("id"))
	if commentID == "" {
		return
	}

	comment, err := h.queries.GetComment(r.Context(), commentID, middleware.ViewerID(r.Context()))
	if err != nil {
		writeDomainError(w, err, "comment")
		return
	}
	writeJSON(w, http.StatusOK, comment, "comment")
}

// HandleCommentLikeStatus records the caller's reaction to a comment.
// PUT /api/comments/{id}/like-status
func (h *Handler) HandleCommentLikeStatus(w http.ResponseWriter, r *http.Request) {
	commentID := requireID(w, r.PathValue("id"))
	if commentID == "" {
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

	if _, err := h.comments.GetVisibleComment(r.Context(), commentID); err != nil {
		writeDomainError(w, err, "comment")
		return
	}

	h.applyLikeStatus(w, r, commentID, models.ParentComment, status)
}
