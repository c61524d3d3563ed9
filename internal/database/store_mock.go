package database

import (
	"context"

	"inkwell/internal/models"
)

// Mock stores for testing. Each method delegates to a function field so
// tests inject exactly the behavior they need; unset fields return zero
// values.

// MockUserStore is a func-field mock of UserStore.
type MockUserStore struct {
	CreateUserFunc     func(ctx context.Context, user *models.User) error
	GetUserFunc        func(ctx context.Context, id string) (*models.User, error)
	GetUserByLoginFunc func(ctx context.Context, login string) (*models.User, error)
	SetUserBanFunc     func(ctx context.Context, id string, info models.BanInfo) error
	CountUsersFunc     func(ctx context.Context) (int, error)
}

var _ UserStore = (*MockUserStore)(nil)

func (m *MockUserStore) CreateUser(ctx context.Context, user *models.User) error {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, user)
	}
	return nil
}

func (m *MockUserStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	if m.GetUserFunc != nil {
		return m.GetUserFunc(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *MockUserStore) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	if m.GetUserByLoginFunc != nil {
		return m.GetUserByLoginFunc(ctx, login)
	}
	return nil, ErrNotFound
}

func (m *MockUserStore) SetUserBan(ctx context.Context, id string, info models.BanInfo) error {
	if m.SetUserBanFunc != nil {
		return m.SetUserBanFunc(ctx, id, info)
	}
	return nil
}

func (m *MockUserStore) CountUsers(ctx context.Context) (int, error) {
	if m.CountUsersFunc != nil {
		return m.CountUsersFunc(ctx)
	}
	return 0, nil
}

// MockBlogStore is a func-field mock of BlogStore.
type MockBlogStore struct {
	CreateBlogFunc    func(ctx context.Context, blog *models.Blog) error
	GetBlogFunc       func(ctx context.Context, id string) (*models.Blog, error)
	GetBlogBanFunc    func(ctx context.Context, userID, blogID string) (*models.BlogBan, error)
	UpsertBlogBanFunc func(ctx context.Context, ban *models.BlogBan) error
	CountBlogBansFunc func(ctx context.Context, f BlogBanFilter) (int, error)
	ListBlogBansFunc  func(ctx context.Context, f BlogBanFilter, opts ListOptions) ([]*models.BlogBan, error)
}

var _ BlogStore = (*MockBlogStore)(nil)

func (m *MockBlogStore) CreateBlog(ctx context.Context, blog *models.Blog) error {
	if m.CreateBlogFunc != nil {
		return m.CreateBlogFunc(ctx, blog)
	}
	return nil
}

func (m *MockBlogStore) GetBlog(ctx context.Context, id string) (*models.Blog, error) {
	if m.GetBlogFunc != nil {
		return m.GetBlogFunc(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *MockBlogStore) GetBlogBan(ctx context.Context, userID, blogID string) (*models.BlogBan, error) {
	if m.GetBlogBanFunc != nil {
		return m.GetBlogBanFunc(ctx, userID, blogID)
	}
	return nil, ErrNotFound
}

func (m *MockBlogStore) UpsertBlogBan(ctx context.Context, ban *models.BlogBan) error {
	if m.UpsertBlogBanFunc != nil {
		return m.UpsertBlogBanFunc(ctx, ban)
	}
	return nil
}

func (m *MockBlogStore) CountBlogBans(ctx context.Context, f BlogBanFilter) (int, error) {
	if m.CountBlogBansFunc != nil {
		return m.CountBlogBansFunc(ctx, f)
	}
	return 0, nil
}

func (m *MockBlogStore) ListBlogBans(ctx context.Context, f BlogBanFilter, opts ListOptions) ([]*models.BlogBan, error) {
	if m.ListBlogBansFunc != nil {
		return m.ListBlogBansFunc(ctx, f, opts)
	}
	return nil, nil
}

// MockPostStore is a func-field mock of PostStore.
type MockPostStore struct {
	CreatePostFunc     func(ctx context.Context, post *models.Post) error
	GetVisiblePostFunc func(ctx context.Context, id string) (*models.Post, error)
	CountPostsFunc     func(ctx context.Context, f PostFilter) (int, error)
	ListPostsFunc      func(ctx context.Context, f PostFilter, opts ListOptions) ([]*models.Post, error)
}

var _ PostStore = (*MockPostStore)(nil)

func (m *MockPostStore) CreatePost(ctx context.Context, post *models.Post) error {
	if m.CreatePostFunc != nil {
		return m.CreatePostFunc(ctx, post)
	}
	return nil
}

func (m *MockPostStore) GetVisiblePost(ctx context.Context, id string) (*models.Post, error) {
	if m.GetVisiblePostFunc != nil {
		return m.GetVisiblePostFunc(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *MockPostStore) CountPosts(ctx context.Context, f PostFilter) (int, error) {
	if m.CountPostsFunc != nil {
		return m.CountPostsFunc(ctx, f)
	}
	return 0, nil
}

func (m *MockPostStore) ListPosts(ctx context.Context, f PostFilter, opts ListOptions) ([]*models.Post, error) {
	if m.ListPostsFunc != nil {
		return m.ListPostsFunc(ctx, f, opts)
	}
	return nil, nil
}

// MockCommentStore is a func-field mock of CommentStore.
type MockCommentStore struct {
	CreateCommentFunc        func(ctx context.Context, comment *models.Comment) error
	GetVisibleCommentFunc    func(ctx context.Context, id string) (*models.Comment, error)
	CountCommentsFunc        func(ctx context.Context, f CommentFilter) (int, error)
	ListCommentsFunc         func(ctx context.Context, f CommentFilter, opts ListOptions) ([]*models.Comment, error)
	SetCommentsBanByUserFunc func(ctx context.Context, userID string, banned bool) (int64, error)
}

var _ CommentStore = (*MockCommentStore)(nil)

func (m *MockCommentStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	if m.CreateCommentFunc != nil {
		return m.CreateCommentFunc(ctx, comment)
	}
	return nil
}

func (m *MockCommentStore) GetVisibleComment(ctx context.Context, id string) (*models.Comment, error) {
	if m.GetVisibleCommentFunc != nil {
		return m.GetVisibleCommentFunc(ctx, id)
	}
	return nil, ErrNotFound
}

func (m *MockCommentStore) CountComments(ctx context.Context, f CommentFilter) (int, error) {
	if m.CountCommentsFunc != nil {
		return m.CountCommentsFunc(ctx, f)
	}
	return 0, nil
}

func (m *MockCommentStore) ListComments(ctx context.Context, f CommentFilter, opts ListOptions) ([]*models.Comment, error) {
	if m.ListCommentsFunc != nil {
		return m.ListCommentsFunc(ctx, f, opts)
	}
	return nil, nil
}

func (m *MockCommentStore) SetCommentsBanByUser(ctx context.Context, userID string, banned bool) (int64, error) {
	if m.SetCommentsBanByUserFunc != nil {
		return m.SetCommentsBanByUserFunc(ctx, userID, banned)
	}
	return 0, nil
}

// MockLikeStore is a func-field mock of LikeStore.
type MockLikeStore struct {
	UpsertLikeStatusFunc  func(ctx context.Context, status *models.LikeStatus) error
	GetLikeStatusFunc     func(ctx context.Context, parentID string, parentType models.ParentType, userID string) (*models.LikeStatus, error)
	CountReactionsFunc    func(ctx context.Context, parentID string, parentType models.ParentType, status models.LikeStatusValue) (int, error)
	NewestLikesFunc       func(ctx context.Context, parentID string, parentType models.ParentType, limit int) ([]*models.LikeStatus, error)
	SetLikesBanByUserFunc func(ctx context.Context, userID string, banned bool) (int64, error)
}

var _ LikeStore = (*MockLikeStore)(nil)

func (m *MockLikeStore) UpsertLikeStatus(ctx context.Context, status *models.LikeStatus) error {
	if m.UpsertLikeStatusFunc != nil {
		return m.UpsertLikeStatusFunc(ctx, status)
	}
	return nil
}

func (m *MockLikeStore) GetLikeStatus(ctx context.Context, parentID string, parentType models.ParentType, userID string) (*models.LikeStatus, error) {
	if m.GetLikeStatusFunc != nil {
		return m.GetLikeStatusFunc(ctx, parentID, parentType, userID)
	}
	return nil, ErrNotFound
}

func (m *MockLikeStore) CountReactions(ctx context.Context, parentID string, parentType models.ParentType, status models.LikeStatusValue) (int, error) {
	if m.CountReactionsFunc != nil {
		return m.CountReactionsFunc(ctx, parentID, parentType, status)
	}
	return 0, nil
}

func (m *MockLikeStore) NewestLikes(ctx context.Context, parentID string, parentType models.ParentType, limit int) ([]*models.LikeStatus, error) {
	if m.NewestLikesFunc != nil {
		return m.NewestLikesFunc(ctx, parentID, parentType, limit)
	}
	return nil, nil
}

func (m *MockLikeStore) SetLikesBanByUser(ctx context.Context, userID string, banned bool) (int64, error) {
	if m.SetLikesBanByUserFunc != nil {
		return m.SetLikesBanByUserFunc(ctx, userID, banned)
	}
	return 0, nil
}

// MockDeviceStore is a func-field mock of DeviceStore.
type MockDeviceStore struct {
	SaveSessionFunc      func(ctx context.Context, session models.DeviceSession) error
	GetSessionFunc       func(ctx context.Context, token string) (*models.DeviceSession, error)
	DeleteSessionFunc    func(ctx context.Context, token string) error
	DeleteAllForUserFunc func(ctx context.Context, userID string) (int, error)
	CloseFunc            func() error
}

var _ DeviceStore = (*MockDeviceStore)(nil)

func (m *MockDeviceStore) SaveSession(ctx context.Context, session models.DeviceSession) error {
	if m.SaveSessionFunc != nil {
		return m.SaveSessionFunc(ctx, session)
	}
	return nil
}

func (m *MockDeviceStore) GetSession(ctx context.Context, token string) (*models.DeviceSession, error) {
	if m.GetSessionFunc != nil {
		return m.GetSessionFunc(ctx, token)
	}
	return nil, ErrNotFound
}

func (m *MockDeviceStore) DeleteSession(ctx context.Context, token string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, token)
	}
	return nil
}

func (m *MockDeviceStore) DeleteAllForUser(ctx context.Context, userID string) (int, error) {
	if m.DeleteAllForUserFunc != nil {
		return m.DeleteAllForUserFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockDeviceStore) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}
