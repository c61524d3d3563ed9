package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
)

type loginRequest struct {
	LoginOrEmail string `json:"loginOrEmail"`
	Password     string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

// HandleLogin checks credentials and opens a device session. A banned
// user cannot log in; their existing sessions are already gone.
// POST /api/auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.LoginOrEmail == "" || req.Password == "" {
		http.Error(w, "loginOrEmail and password are required", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByLogin(r.Context(), req.LoginOrEmail)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}
		writeDomainError(w, err, "user")
		return
	}
	if user.BanInfo.IsBanned {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	session := models.DeviceSession{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		UserLogin: user.Login,
		IP:        middleware.GetClientIP(r),
		UserAgent: r.UserAgent(),
		CreatedAt: time.Now().UTC(),
	}
	if err := h.devices.SaveSession(r.Context(), session); err != nil {
		log.Error().Err(err).Msg("Failed to save device session")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{AccessToken: session.Token}, "login")
}

// HandleLogout closes the caller's current device session.
// POST /api/auth/logout
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.devices.DeleteSession(r.Context(), viewer.Token); err != nil && !errors.Is(err, database.ErrNotFound) {
		log.Error().Err(err).Msg("Failed to delete device session")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type meResponse struct {
	UserID string `json:"userId"`
	Login  string `json:"login"`
}

// HandleMe identifies the caller. GET /api/auth/me
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.ViewerFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, meResponse{UserID: viewer.UserID, Login: viewer.Login}, "me")
}
