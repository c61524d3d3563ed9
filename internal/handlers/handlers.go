package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog/log"

	"inkwell/internal/database"
	"inkwell/internal/moderation"
	"inkwell/internal/query"
)

// Config holds handler configuration options
type Config struct {
	// AdminToken guards the super-admin surface. Empty disables it.
	AdminToken string
}

// Handler contains all HTTP handler methods and their dependencies.
// Dependencies are injected via the constructor for better testability.
type Handler struct {
	moderation *moderation.Service
	queries    *query.Engine
	users      database.UserStore
	blogs      database.BlogStore
	posts      database.PostStore
	comments   database.CommentStore
	likes      database.LikeStore
	devices    database.DeviceStore
	sanitizer  *bluemonday.Policy
	config     Config
}

// NewHandler creates a new Handler with all required dependencies.
// This constructor pattern ensures the Handler is always fully initialized.
func NewHandler(
	moderationSvc *moderation.Service,
	queries *query.Engine,
	users database.UserStore,
	blogs database.BlogStore,
	posts database.PostStore,
	comments database.CommentStore,
	likes database.LikeStore,
	devices database.DeviceStore,
	config Config,
) *Handler {
	return &Handler{
		moderation: moderationSvc,
		queries:    queries,
		users:      users,
		blogs:      blogs,
		posts:      posts,
		comments:   comments,
		likes:      likes,
		devices:    devices,
		sanitizer:  bluemonday.UGCPolicy(),
		config:     config,
	}
}

// requireID validates a path parameter. Returns the id if present, or
// writes an error response and returns empty string.
func requireID(w http.ResponseWriter, id string) string {
	if strings.TrimSpace(id) == "" {
		http.Error(w, "Record id is required", http.StatusBadRequest)
		return ""
	}
	return id
}

// decodeJSON decodes the request body into target, rejecting malformed
// bodies with a 400. Unknown fields are tolerated so clients can send
// supersets of the expected payload.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// writeJSON encodes and writes a JSON response
func writeJSON(w http.ResponseWriter, status int, v any, entityName string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode " + entityName + " response")
	}
}

// writeDomainError maps service and store errors onto HTTP statuses.
// A partial cascade is reported explicitly so the caller knows a retry
// endpoint exists; everything unexpected is a plain 500.
func writeDomainError(w http.ResponseWriter, err error, entityName string) {
	var cascadeErr *moderation.CascadeError
	switch {
	case errors.As(err, &cascadeErr):
		failed := cascadeErr.FailedSteps()
		steps := make([]string, 0, len(failed))
		for _, r := range failed {
			steps = append(steps, string(r.Step))
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"message":     "Ban flag recorded but the cascade did not complete; retry it",
			"failedSteps": steps,
		}, entityName)
	case errors.Is(err, moderation.ErrUserNotFound),
		errors.Is(err, moderation.ErrBlogNotFound),
		errors.Is(err, database.ErrNotFound):
		http.Error(w, capitalize(entityName)+" not found", http.StatusNotFound)
	case errors.Is(err, moderation.ErrReasonRequired):
		http.Error(w, "Ban reason is required", http.StatusBadRequest)
	default:
		log.Error().Err(err).Msg("Failed to handle " + entityName + " request")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
