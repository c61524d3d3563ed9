package handlers

import (
	"net/http"

	"inkwell/internal/middleware"
	"inkwell/internal/query"
)

// HandleBlogBan bans or unbans a user from a single blog. Only the
// blog's owner may do this, and the ban never touches the target's
// content. PUT /api/blogger/users/{id}/ban
func (h *Handler) HandleBlogBan(w http.ResponseWriter, r *http.Request) {
	userID := requireID(w, r.PathValue("id"))
	if userID == "" {
		return
	}

	var req banRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.BlogID == "" {
		http.Error(w, "blogId is required", http.StatusBadRequest)
		return
	}

	blog, err := h.blogs.GetBlog(r.Context(), req.BlogID)
	if err != nil {
		writeDomainError(w, err, "blog")
		return
	}
	if blog.OwnerID != middleware.ViewerID(r.Context()) {
		http.Error(w, "You do not own this blog", http.StatusForbidden)
		return
	}

	if _, err := h.moderation.SetBlogBan(r.Context(), userID, req.BlogID, req.IsBanned, req.BanReason); err != nil {
		writeDomainError(w, err, "user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleBannedUsersForBlog lists the ban records of one blog.
// GET /api/blogger/users/blog/{id}
func (h *Handler) HandleBannedUsersForBlog(w http.ResponseWriter, r *http.Request) {
	blogID := requireID(w, r.PathValue("id"))
	if blogID == "" {
		return
	}

	blog, err := h.blogs.GetBlog(r.Context(), blogID)
	if err != nil {
		writeDomainError(w, err, "blog")
		return
	}
	if blog.OwnerID != middleware.ViewerID(r.Context()) {
		http.Error(w, "You do not own this blog", http.StatusForbidden)
		return
	}

	page, err := h.queries.ListBannedUsersForBlog(r.Context(), blogID, query.ParseListParams(r.URL.Query()))
	if err != nil {
		writeDomainError(w, err, "blog")
		return
	}

	writeJSON(w, http.StatusOK, page, "banned users")
}

// HandleBloggerComments lists every comment left on any of the caller's
// posts, each located by its post. GET /api/blogger/blogs/comments
func (h *Handler) HandleBloggerComments(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.ViewerID(r.Context())

	page, err := h.queries.ListBloggerComments(r.Context(), ownerID, query.ParseListParams(r.URL.Query()))
	if err != nil {
		writeDomainError(w, err, "comments")
		return
	}

	writeJSON(w, http.StatusOK, page, "blogger comments")
}
