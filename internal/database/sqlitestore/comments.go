package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

// CommentStore implements database.CommentStore using SQLite.
type CommentStore struct {
	db *sql.DB
}

var _ database.CommentStore = (*CommentStore)(nil)

func (s *CommentStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, post_id, user_id, user_login, content, is_banned, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, comment.ID, comment.PostID, comment.UserID, comment.UserLogin, comment.Content,
		boolToInt(comment.IsBanned), encodeTime(comment.CreatedAt))
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (s *CommentStore) GetVisibleComment(ctx context.Context, id string) (*models.Comment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, post_id, user_id, user_login, content, is_banned, created_at
		FROM comments WHERE id = ? AND is_banned = 0
	`, id)
	comment, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return comment, nil
}

func (s *CommentStore) CountComments(ctx context.Context, f database.CommentFilter) (int, error) {
	where, args := commentWhere(f)
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments c `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count comments: %w", err)
	}
	return n, nil
}

func (s *CommentStore) ListComments(ctx context.Context, f database.CommentFilter, opts database.ListOptions) ([]*models.Comment, error) {
	where, args := commentWhere(f)
	query := `
		SELECT c.id, c.post_id, c.user_id, c.user_login, c.content, c.is_banned, c.created_at
		FROM comments c ` + where + orderClause(commentSortColumns, opts) + ` LIMIT ? OFFSET ?`
	args = append(args, opts.Limit, opts.Skip)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("list comments: %w", err)
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// SetCommentsBanByUser is a cascade step: a bulk set-to-value write,
// safe to repeat.
func (s *CommentStore) SetCommentsBanByUser(ctx context.Context, userID string, banned bool) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE comments SET is_banned = ? WHERE user_id = ?`,
		boolToInt(banned), userID)
	if err != nil {
		return 0, fmt.Errorf("set comments ban: %w", err)
	}
	return res.RowsAffected()
}

var commentSortColumns = map[string]string{
	"createdAt": "c.created_at",
	"userLogin": "c.user_login",
}

func commentWhere(f database.CommentFilter) (string, []any) {
	where := `WHERE 1=1`
	var args []any
	if !f.IncludeBanned {
		where += ` AND c.is_banned = 0`
	}
	if f.PostID != "" {
		where += ` AND c.post_id = ?`
		args = append(args, f.PostID)
	}
	if f.PostOwnerID != "" {
		// Blogger comment feed: comments on the owner's visible posts only.
		where += ` AND c.post_id IN (SELECT id FROM posts WHERE user_id = ? AND is_banned = 0)`
		args = append(args, f.PostOwnerID)
	}
	return where, args
}

func scanComment(row rowScanner) (*models.Comment, error) {
	var (
		c         models.Comment
		isBanned  int
		createdAt string
	)
	if err := row.Scan(&c.ID, &c.PostID, &c.UserID, &c.UserLogin, &c.Content, &isBanned, &createdAt); err != nil {
		return nil, err
	}
	c.IsBanned = isBanned == 1
	c.CreatedAt = decodeTime(createdAt)
	return &c, nil
}
