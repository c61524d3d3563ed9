package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

// UserStore implements database.UserStore using SQLite.
type UserStore struct {
	db *sql.DB
}

var _ database.UserStore = (*UserStore)(nil)

func (s *UserStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, login, email, password_hash, created_at, is_banned, ban_date, ban_reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, user.ID, user.Login, user.Email, user.PasswordHash, encodeTime(user.CreatedAt),
		boolToInt(user.BanInfo.IsBanned), encodeNullTime(user.BanInfo.BanDate), user.BanInfo.BanReason)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *UserStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, `WHERE id = ?`, id)
}

// GetUserByLogin resolves a login credential; the API accepts either
// the login or the email address in the same field.
func (s *UserStore) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	return s.getUser(ctx, `WHERE login = ? OR email = ?`, login, login)
}

func (s *UserStore) getUser(ctx context.Context, where string, args ...any) (*models.User, error) {
	var (
		u         models.User
		createdAt string
		isBanned  int
		banDate   sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, login, email, password_hash, created_at, is_banned, ban_date, ban_reason
		FROM users `+where, args...,
	).Scan(&u.ID, &u.Login, &u.Email, &u.PasswordHash, &createdAt, &isBanned, &banDate, &u.BanInfo.BanReason)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u.CreatedAt = decodeTime(createdAt)
	u.BanInfo.IsBanned = isBanned == 1
	u.BanInfo.BanDate = decodeNullTime(banDate)
	return &u, nil
}

// SetUserBan writes the authoritative ban flag. Setting the same state
// twice is a no-op by construction (set-to-value, not increment).
func (s *UserStore) SetUserBan(ctx context.Context, id string, info models.BanInfo) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET is_banned = ?, ban_date = ?, ban_reason = ? WHERE id = ?
	`, boolToInt(info.IsBanned), encodeNullTime(info.BanDate), info.BanReason, id)
	if err != nil {
		return fmt.Errorf("set user ban: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set user ban: %w", err)
	}
	if n == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (s *UserStore) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
