package moderation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"inkwell/internal/database"
	"inkwell/internal/metrics"
	"inkwell/internal/models"
	"inkwell/internal/tracing"
)

// Service executes the ban workflows. It is the single writer of both
// the authoritative ban flags and the denormalized copies on dependent
// records.
type Service struct {
	users    database.UserStore
	blogs    database.BlogStore
	comments database.CommentStore
	likes    database.LikeStore
	devices  database.DeviceStore
}

// NewService creates the moderation service with its cascade targets.
func NewService(
	users database.UserStore,
	blogs database.BlogStore,
	comments database.CommentStore,
	likes database.LikeStore,
	devices database.DeviceStore,
) *Service {
	return &Service{
		users:    users,
		blogs:    blogs,
		comments: comments,
		likes:    likes,
		devices:  devices,
	}
}

// SetUserBan bans or unbans a user globally and propagates the flag to
// every dependent record. The workflow is a fixed sequence of
// idempotent set-to-value writes, not a transaction:
//
//  1. resolve the user
//  2. commit the authoritative flag (reason and date cleared on unban)
//  3. flag the user's comments
//  4. flag the user's like statuses
//  5. delete the user's device sessions (ban only; unban does not
//     restore sessions, the user must log in again)
//
// If any step after 2 fails, the authoritative flag stays committed and
// the error is a *CascadeError describing what remains to retry.
func (s *Service) SetUserBan(ctx context.Context, userID string, banned bool, reason string) error {
	ctx, span := tracing.ModerationSpan(ctx, "set_user_ban", userID)
	defer span.End()

	action := banAction(banned)

	if banned && !validReason(reason) {
		metrics.CascadeRunsTotal.WithLabelValues(action, "invalid").Inc()
		return ErrReasonRequired
	}

	if _, err := s.users.GetUser(ctx, userID); err != nil {
		metrics.CascadeRunsTotal.WithLabelValues(action, "not_found").Inc()
		tracing.EndWithError(span, err)
		if errors.Is(err, database.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("resolve user: %w", err)
	}

	info := models.BanInfo{}
	if banned {
		now := time.Now().UTC()
		info = models.BanInfo{IsBanned: true, BanDate: &now, BanReason: reason}
	}
	if err := s.users.SetUserBan(ctx, userID, info); err != nil {
		metrics.CascadeRunsTotal.WithLabelValues(action, "error").Inc()
		tracing.EndWithError(span, err)
		return fmt.Errorf("commit ban flag: %w", err)
	}

	results := s.runCascade(ctx, userID, banned)
	for _, r := range results {
		if r.Err != nil {
			err := &CascadeError{UserID: userID, Banned: banned, Steps: results}
			metrics.CascadeRunsTotal.WithLabelValues(action, "partial").Inc()
			tracing.EndWithError(span, err)
			log.Error().Err(err).Str("user_id", userID).Bool("banned", banned).
				Msg("Ban cascade incomplete, authoritative flag committed")
			return err
		}
	}

	metrics.CascadeRunsTotal.WithLabelValues(action, "ok").Inc()
	log.Info().Str("user_id", userID).Bool("banned", banned).
		Msg("Ban cascade completed")
	return nil
}

// RetryCascade re-runs the dependent-record steps using the current
// authoritative flag. Because every step sets values rather than
// incrementing, re-running after a partial failure converges to the
// same fixed point as a clean run.
func (s *Service) RetryCascade(ctx context.Context, userID string) error {
	ctx, span := tracing.ModerationSpan(ctx, "retry_cascade", userID)
	defer span.End()

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		tracing.EndWithError(span, err)
		if errors.Is(err, database.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("resolve user: %w", err)
	}

	results := s.runCascade(ctx, userID, user.BanInfo.IsBanned)
	for _, r := range results {
		if r.Err != nil {
			err := &CascadeError{UserID: userID, Banned: user.BanInfo.IsBanned, Steps: results}
			tracing.EndWithError(span, err)
			return err
		}
	}

	log.Info().Str("user_id", userID).Bool("banned", user.BanInfo.IsBanned).
		Msg("Ban cascade retry completed")
	return nil
}

// runCascade executes the dependent-record steps in their fixed order.
// A failed step does not stop later steps: each is independent, and
// running the survivors now means a retry has less to redo.
func (s *Service) runCascade(ctx context.Context, userID string, banned bool) []StepResult {
	results := make([]StepResult, 0, len(CascadeSteps))

	for _, step := range CascadeSteps {
		r := StepResult{Step: step}
		switch step {
		case StepComments:
			r.Affected, r.Err = s.comments.SetCommentsBanByUser(ctx, userID, banned)
		case StepLikes:
			r.Affected, r.Err = s.likes.SetLikesBanByUser(ctx, userID, banned)
		case StepDevices:
			// Sessions are only purged on ban. Unban leaves the (empty)
			// session set alone; re-authentication is required.
			if banned {
				var n int
				n, r.Err = s.devices.DeleteAllForUser(ctx, userID)
				r.Affected = int64(n)
			}
		}

		outcome := "ok"
		if r.Err != nil {
			outcome = "error"
			log.Error().Err(r.Err).Str("user_id", userID).Str("step", string(step)).
				Msg("Ban cascade step failed")
		}
		metrics.CascadeStepsTotal.WithLabelValues(string(step), outcome).Inc()
		results = append(results, r)
	}
	return results
}

// SetBlogBan blocks or unblocks a user on one specific blog. The ban
// record for a (user, blog) pair is created on the first call and
// mutated in place afterwards; its id never changes. Blog-level bans
// deliberately do not cascade to the blog's posts or comments — their
// scope is the banned-users list and comment admission, nothing else.
func (s *Service) SetBlogBan(ctx context.Context, userID, blogID string, banned bool, reason string) (*models.BlogBan, error) {
	ctx, span := tracing.ModerationSpan(ctx, "set_blog_ban", userID)
	defer span.End()

	if banned && !validReason(reason) {
		return nil, ErrReasonRequired
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		tracing.EndWithError(span, err)
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}

	blog, err := s.blogs.GetBlog(ctx, blogID)
	if err != nil {
		tracing.EndWithError(span, err)
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrBlogNotFound
		}
		return nil, fmt.Errorf("resolve blog: %w", err)
	}

	now := time.Now().UTC()

	ban, err := s.blogs.GetBlogBan(ctx, userID, blogID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		ban = &models.BlogBan{
			ID:        uuid.NewString(),
			BlogID:    blog.ID,
			BlogName:  blog.Name,
			UserID:    user.ID,
			UserLogin: user.Login,
			CreatedAt: now,
		}
	case err != nil:
		tracing.EndWithError(span, err)
		return nil, fmt.Errorf("lookup blog ban: %w", err)
	}

	ban.IsBanned = banned
	if banned {
		ban.BanReason = reason
		ban.BanDate = &now
	} else {
		ban.BanReason = ""
		ban.BanDate = nil
	}

	if err := s.blogs.UpsertBlogBan(ctx, ban); err != nil {
		tracing.EndWithError(span, err)
		return nil, fmt.Errorf("persist blog ban: %w", err)
	}

	metrics.BlogBansTotal.WithLabelValues(banAction(banned)).Inc()
	log.Info().Str("user_id", userID).Str("blog_id", blogID).Bool("banned", banned).
		Msg("Blog-level ban updated")
	return ban, nil
}

// IsBlockedFromBlog reports whether the user is currently blocked from
// interacting with the blog. Used at comment admission.
func (s *Service) IsBlockedFromBlog(ctx context.Context, userID, blogID string) (bool, error) {
	ban, err := s.blogs.GetBlogBan(ctx, userID, blogID)
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return ban.IsBanned, nil
}

func banAction(banned bool) string {
	if banned {
		return "ban"
	}
	return "unban"
}
