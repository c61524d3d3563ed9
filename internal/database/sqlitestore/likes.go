package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

// LikeStore implements database.LikeStore using SQLite. One row per
// (parent_id, parent_type, user_id); reactions are upserts, never an
// append log.
type LikeStore struct {
	db *sql.DB
}

var _ database.LikeStore = (*LikeStore)(nil)

func (s *LikeStore) UpsertLikeStatus(ctx context.Context, status *models.LikeStatus) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO like_statuses (id, parent_id, parent_type, user_id, user_login, status, is_banned, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(parent_id, parent_type, user_id) DO UPDATE SET
			status     = excluded.status,
			is_banned  = excluded.is_banned,
			created_at = excluded.created_at
	`, status.ID, status.ParentID, string(status.ParentType), status.UserID, status.UserLogin,
		string(status.Status), boolToInt(status.IsBanned), encodeTime(status.CreatedAt))
	if err != nil {
		return fmt.Errorf("upsert like status: %w", err)
	}
	return nil
}

func (s *LikeStore) GetLikeStatus(ctx context.Context, parentID string, parentType models.ParentType, userID string) (*models.LikeStatus, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, parent_id, parent_type, user_id, user_login, status, is_banned, created_at
		FROM like_statuses WHERE parent_id = ? AND parent_type = ? AND user_id = ?
	`, parentID, string(parentType), userID)
	ls, err := scanLikeStatus(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get like status: %w", err)
	}
	return ls, nil
}

// CountReactions excludes banned reactors via the denormalized flag,
// never via a join against users.
func (s *LikeStore) CountReactions(ctx context.Context, parentID string, parentType models.ParentType, status models.LikeStatusValue) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM like_statuses
		WHERE parent_id = ? AND parent_type = ? AND status = ? AND is_banned = 0
	`, parentID, string(parentType), string(status)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count reactions: %w", err)
	}
	return n, nil
}

func (s *LikeStore) NewestLikes(ctx context.Context, parentID string, parentType models.ParentType, limit int) ([]*models.LikeStatus, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, parent_id, parent_type, user_id, user_login, status, is_banned, created_at
		FROM like_statuses
		WHERE parent_id = ? AND parent_type = ? AND status = ? AND is_banned = 0
		ORDER BY created_at DESC LIMIT ?
	`, parentID, string(parentType), string(models.LikeStatusLike), limit)
	if err != nil {
		return nil, fmt.Errorf("newest likes: %w", err)
	}
	defer rows.Close()

	var likes []*models.LikeStatus
	for rows.Next() {
		ls, err := scanLikeStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("newest likes: %w", err)
		}
		likes = append(likes, ls)
	}
	return likes, rows.Err()
}

// SetLikesBanByUser is a cascade step: a bulk set-to-value write, safe
// to repeat.
func (s *LikeStore) SetLikesBanByUser(ctx context.Context, userID string, banned bool) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE like_statuses SET is_banned = ? WHERE user_id = ?`,
		boolToInt(banned), userID)
	if err != nil {
		return 0, fmt.Errorf("set likes ban: %w", err)
	}
	return res.RowsAffected()
}

func scanLikeStatus(row rowScanner) (*models.LikeStatus, error) {
	var (
		ls         models.LikeStatus
		parentType string
		status     string
		isBanned   int
		createdAt  string
	)
	if err := row.Scan(&ls.ID, &ls.ParentID, &parentType, &ls.UserID, &ls.UserLogin,
		&status, &isBanned, &createdAt); err != nil {
		return nil, err
	}
	ls.ParentType = models.ParentType(parentType)
	ls.Status = models.LikeStatusValue(status)
	ls.IsBanned = isBanned == 1
	ls.CreatedAt = decodeTime(createdAt)
	return &ls, nil
}
