package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

// BlogStore implements database.BlogStore using SQLite. It owns both
// blog records and the per-blog ban records.
type BlogStore struct {
	db *sql.DB
}

var _ database.BlogStore = (*BlogStore)(nil)

func (s *BlogStore) CreateBlog(ctx context.Context, blog *models.Blog) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blogs (id, owner_id, owner_login, name, description, website_url, is_banned, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, blog.ID, blog.OwnerID, blog.OwnerLogin, blog.Name, blog.Description, blog.WebsiteURL,
		boolToInt(blog.IsBanned), encodeTime(blog.CreatedAt))
	if err != nil {
		return fmt.Errorf("create blog: %w", err)
	}
	return nil
}

func (s *BlogStore) GetBlog(ctx context.Context, id string) (*models.Blog, error) {
	var (
		b         models.Blog
		createdAt string
		isBanned  int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, owner_login, name, description, website_url, is_banned, created_at
		FROM blogs WHERE id = ?
	`, id).Scan(&b.ID, &b.OwnerID, &b.OwnerLogin, &b.Name, &b.Description, &b.WebsiteURL, &isBanned, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blog: %w", err)
	}
	b.IsBanned = isBanned == 1
	b.CreatedAt = decodeTime(createdAt)
	return &b, nil
}

func (s *BlogStore) GetBlogBan(ctx context.Context, userID, blogID string) (*models.BlogBan, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, blog_id, blog_name, user_id, user_login, is_banned, ban_reason, ban_date, created_at
		FROM blog_bans WHERE user_id = ? AND blog_id = ?
	`, userID, blogID)
	ban, err := scanBlogBan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blog ban: %w", err)
	}
	return ban, nil
}

// UpsertBlogBan keeps the invariant of at most one record per
// (user, blog) pair: a conflicting insert mutates the existing row and
// leaves its id and created_at untouched.
func (s *BlogStore) UpsertBlogBan(ctx context.Context, ban *models.BlogBan) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blog_bans (id, blog_id, blog_name, user_id, user_login, is_banned, ban_reason, ban_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, blog_id) DO UPDATE SET
			is_banned  = excluded.is_banned,
			ban_reason = excluded.ban_reason,
			ban_date   = excluded.ban_date
	`, ban.ID, ban.BlogID, ban.BlogName, ban.UserID, ban.UserLogin,
		boolToInt(ban.IsBanned), ban.BanReason, encodeNullTime(ban.BanDate), encodeTime(ban.CreatedAt))
	if err != nil {
		return fmt.Errorf("upsert blog ban: %w", err)
	}
	return nil
}

func (s *BlogStore) CountBlogBans(ctx context.Context, f database.BlogBanFilter) (int, error) {
	where, args := blogBanWhere(f)
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_bans `+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count blog bans: %w", err)
	}
	return n, nil
}

func (s *BlogStore) ListBlogBans(ctx context.Context, f database.BlogBanFilter, opts database.ListOptions) ([]*models.BlogBan, error) {
	where, args := blogBanWhere(f)
	query := `
		SELECT id, blog_id, blog_name, user_id, user_login, is_banned, ban_reason, ban_date, created_at
		FROM blog_bans ` + where + orderClause(blogBanSortColumns, opts) + ` LIMIT ? OFFSET ?`
	args = append(args, opts.Limit, opts.Skip)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list blog bans: %w", err)
	}
	defer rows.Close()

	var bans []*models.BlogBan
	for rows.Next() {
		ban, err := scanBlogBan(rows)
		if err != nil {
			return nil, fmt.Errorf("list blog bans: %w", err)
		}
		bans = append(bans, ban)
	}
	return bans, rows.Err()
}

var blogBanSortColumns = map[string]string{
	"createdAt": "created_at",
	"login":     "user_login",
	"banDate":   "ban_date",
}

func blogBanWhere(f database.BlogBanFilter) (string, []any) {
	where := `WHERE blog_id = ?`
	args := []any{f.BlogID}
	if f.SearchLoginTerm != "" {
		where += ` AND lower(user_login) LIKE '%' || lower(?) || '%'`
		args = append(args, f.SearchLoginTerm)
	}
	return where, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlogBan(row rowScanner) (*models.BlogBan, error) {
	var (
		b         models.BlogBan
		isBanned  int
		banDate   sql.NullString
		createdAt string
	)
	if err := row.Scan(&b.ID, &b.BlogID, &b.BlogName, &b.UserID, &b.UserLogin,
		&isBanned, &b.BanReason, &banDate, &createdAt); err != nil {
		return nil, err
	}
	b.IsBanned = isBanned == 1
	b.BanDate = decodeNullTime(banDate)
	b.CreatedAt = decodeTime(createdAt)
	return &b, nil
}

// orderClause builds an ORDER BY from a whitelist of sortable columns.
// Unknown sort keys fall back to created_at rather than failing.
func orderClause(columns map[string]string, opts database.ListOptions) string {
	col, ok := columns[opts.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if opts.SortDesc {
		dir = "DESC"
	}
	return ` ORDER BY ` + col + ` ` + dir
}
