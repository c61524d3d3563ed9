package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

// PostStore implements database.PostStore using SQLite.
type PostStore struct {
	db *sql.DB
}

var _ database.PostStore = (*PostStore)(nil)

func (s *PostStore) CreatePost(ctx context.Context, post *models.Post) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (id, blog_id, blog_name, user_id, title, short_description, content, is_banned, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, post.ID, post.BlogID, post.BlogName, post.UserID, post.Title, post.ShortDescription,
		post.Content, boolToInt(post.IsBanned), encodeTime(post.CreatedAt))
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// GetVisiblePost treats banned posts as absent: the is_banned predicate
// is part of the lookup, not a post-filter.
func (s *PostStore) GetVisiblePost(ctx context.Context, id string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, blog_id, blog_name, user_id, title, short_description, content, is_banned, created_at
		FROM posts WHERE id = ? AND is_banned = 0
	`, id)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

func (s *PostStore) CountPosts(ctx context.Context, f database.PostFilter) (int, error) {
	where, args := postWhere(f)
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return n, nil
}

func (s *PostStore) ListPosts(ctx context.Context, f database.PostFilter, opts database.ListOptions) ([]*models.Post, error) {
	where, args := postWhere(f)
	query := `
		SELECT id, blog_id, blog_name, user_id, title, short_description, content, is_banned, created_at
		FROM posts ` + where + orderClause(postSortColumns, opts) + ` LIMIT ? OFFSET ?`
	args = append(args, opts.Limit, opts.Skip)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("list posts: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

var postSortColumns = map[string]string{
	"createdAt": "created_at",
	"title":     "title",
	"blogName":  "blog_name",
}

func postWhere(f database.PostFilter) (string, []any) {
	where := `WHERE 1=1`
	var args []any
	if !f.IncludeBanned {
		where += ` AND is_banned = 0`
	}
	if f.BlogID != "" {
		where += ` AND blog_id = ?`
		args = append(args, f.BlogID)
	}
	if f.OwnerID != "" {
		where += ` AND user_id = ?`
		args = append(args, f.OwnerID)
	}
	if f.SearchNameTerm != "" {
		where += ` AND lower(title) LIKE '%' || lower(?) || '%'`
		args = append(args, f.SearchNameTerm)
	}
	return where, args
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		p         models.Post
		isBanned  int
		createdAt string
	)
	if err := row.Scan(&p.ID, &p.BlogID, &p.BlogName, &p.UserID, &p.Title,
		&p.ShortDescription, &p.Content, &isBanned, &createdAt); err != nil {
		return nil, err
	}
	p.IsBanned = isBanned == 1
	p.CreatedAt = decodeTime(createdAt)
	return &p, nil
}
