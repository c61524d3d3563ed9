package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"inkwell/internal/models"
)

// banRequest is the shared payload for both ban surfaces.
type banRequest struct {
	IsBanned  bool   `json:"isBanned"`
	BanReason string `json:"banReason"`
	BlogID    string `json:"blogId,omitempty"`
}

// HandleUserBan bans or unbans a user platform-wide and runs the
// content cascade. PUT /api/sa/users/{id}/ban
func (h *Handler) HandleUserBan(w http.ResponseWriter, r *http.Request) {
	userID := requireID(w, r.PathValue("id"))
	if userID == "" {
		return
	}

	var req banRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.moderation.SetUserBan(r.Context(), userID, req.IsBanned, req.BanReason); err != nil {
		writeDomainError(w, err, "user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleCascadeRetry re-runs the content cascade for a user against the
// authoritative ban flag. POST /api/sa/users/{id}/ban/retry
func (h *Handler) HandleCascadeRetry(w http.ResponseWriter, r *http.Request) {
	userID := requireID(w, r.PathValue("id"))
	if userID == "" {
		return
	}

	if err := h.moderation.RetryCascade(r.Context(), userID); err != nil {
		writeDomainError(w, err, "user")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type createUserRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func (req *createUserRequest) validate() string {
	switch {
	case len(req.Login) < 3 || len(req.Login) > 10:
		return "login must be 3-10 characters"
	case len(req.Password) < 6 || len(req.Password) > 20:
		return "password must be 6-20 characters"
	case !strings.Contains(req.Email, "@"):
		return "email is invalid"
	}
	return ""
}

// HandleUserCreate registers a new account. POST /api/sa/users
func (h *Handler) HandleUserCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("Failed to hash password")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Login:        req.Login,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := h.users.CreateUser(r.Context(), user); err != nil {
		writeDomainError(w, err, "user")
		return
	}

	writeJSON(w, http.StatusCreated, models.UserView{
		ID:        user.ID,
		Login:     user.Login,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		BanInfo:   user.BanInfo,
	}, "user")
}

// statsView summarizes moderation activity for the admin dashboard. The
// counters come straight from the process's Prometheus registry, so the
// numbers match what /metrics exports.
type statsView struct {
	UsersCount        int              `json:"usersCount"`
	CascadeRuns       map[string]int64 `json:"cascadeRuns"`
	CascadeStepErrors int64            `json:"cascadeStepErrors"`
	BlogBans          map[string]int64 `json:"blogBans"`
}

// HandleStats reports moderation counters. GET /api/sa/stats
func (h *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	usersCount, err := h.users.CountUsers(r.Context())
	if err != nil {
		writeDomainError(w, err, "stats")
		return
	}

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		log.Error().Err(err).Msg("Failed to gather metrics for stats")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	stats := statsView{
		UsersCount:  usersCount,
		CascadeRuns: map[string]int64{},
		BlogBans:    map[string]int64{},
	}
	for _, family := range families {
		switch family.GetName() {
		case "inkwell_cascade_runs_total":
			for _, metric := range family.GetMetric() {
				stats.CascadeRuns[labelValue(metric, "result")] += int64(metric.GetCounter().GetValue())
			}
		case "inkwell_cascade_steps_total":
			for _, metric := range family.GetMetric() {
				if labelValue(metric, "outcome") == "error" {
					stats.CascadeStepErrors += int64(metric.GetCounter().GetValue())
				}
			}
		case "inkwell_blog_bans_total":
			for _, metric := range family.GetMetric() {
				stats.BlogBans[labelValue(metric, "action")] += int64(metric.GetCounter().GetValue())
			}
		}
	}

	writeJSON(w, http.StatusOK, stats, "stats")
}

func labelValue(m *dto.Metric, name string) string {
	for _, pair := range m.GetLabel() {
		if pair.GetName() == name {
			return pair.GetValue()
		}
	}
	return ""
}
