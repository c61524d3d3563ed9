package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"inkwell/internal/database"
	"inkwell/internal/metrics"
	"inkwell/internal/models"
	"inkwell/internal/tracing"
)

// newestLikesLimit caps the newest-likes list on a post view.
const newestLikesLimit = 3

// enrichConcurrency bounds the per-item lookup fan-out. The lookups
// per item stay exactly the ones a sequential walk would do; only the
// shape of the fan-out changes.
const enrichConcurrency = 8

// Engine builds the read models. It never mutates anything.
type Engine struct {
	blogs    database.BlogStore
	posts    database.PostStore
	comments database.CommentStore
	likes    database.LikeStore
}

// NewEngine creates the query engine over the given stores.
func NewEngine(
	blogs database.BlogStore,
	posts database.PostStore,
	comments database.CommentStore,
	likes database.LikeStore,
) *Engine {
	return &Engine{
		blogs:    blogs,
		posts:    posts,
		comments: comments,
		likes:    likes,
	}
}

// ListPosts returns one page of visible posts, enriched with reaction
// aggregates for the given viewer ("" means unauthenticated).
func (e *Engine) ListPosts(ctx context.Context, viewerID string, p ListParams) (*Page[models.PostView], error) {
	return e.listPosts(ctx, viewerID, p, database.PostFilter{SearchNameTerm: p.SearchNameTerm}, "posts")
}

// ListPostsForBlog returns one page of a blog's visible posts. The
// blog itself must exist.
func (e *Engine) ListPostsForBlog(ctx context.Context, blogID, viewerID string, p ListParams) (*Page[models.PostView], error) {
	if _, err := e.blogs.GetBlog(ctx, blogID); err != nil {
		return nil, err
	}
	return e.listPosts(ctx, viewerID, p, database.PostFilter{
		BlogID:         blogID,
		SearchNameTerm: p.SearchNameTerm,
	}, "blog_posts")
}

func (e *Engine) listPosts(ctx context.Context, viewerID string, p ListParams, filter database.PostFilter, view string) (*Page[models.PostView], error) {
	ctx, span := tracing.QuerySpan(ctx, view)
	defer span.End()
	defer observe(view, time.Now())

	totalCount, err := e.posts.CountPosts(ctx, filter)
	if err != nil {
		tracing.EndWithError(span, err)
		return nil, fmt.Errorf("count posts: %w", err)
	}

	posts, err := e.posts.ListPosts(ctx, filter, p.Options())
	if err != nil {
		tracing.EndWithError(span, err)
		return nil, fmt.Errorf("list posts: %w", err)
	}

	items := make([]models.PostView, len(posts))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i, post := range posts {
		g.Go(func() error {
			pv, err := e.postView(gCtx, post, viewerID)
			if err != nil {
				return err
			}
			items[i] = *pv
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		tracing.EndWithError(span, err)
		return nil, err
	}

	return NewPage(p, totalCount, items), nil
}

// GetPost returns one visible post, enriched. A banned post is
// reported as not found, never as a banned item.
func (e *Engine) GetPost(ctx context.Context, postID, viewerID string) (*models.PostView, error) {
	ctx, span := tracing.QuerySpan(ctx, "post")
	defer span.End()
	defer observe("post", time.Now())

	post, err := e.posts.GetVisiblePost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return e.postView(ctx, post, viewerID)
}

// postView joins one post with its reaction aggregates: the viewer's
// own status, like/dislike counts excluding banned reactors, and the
// newest likes.
func (e *Engine) postView(ctx context.Context, post *models.Post, viewerID string) (*models.PostView, error) {
	likesInfo, err := e.likesInfo(ctx, post.ID, models.ParentPost, viewerID)
	if err != nil {
		return nil, err
	}

	newest, err := e.likes.NewestLikes(ctx, post.ID, models.ParentPost, newestLikesLimit)
	if err != nil {
		return nil, fmt.Errorf("newest likes: %w", err)
	}
	newestLikes := make([]models.LikeDetailsView, 0, len(newest))
	for _, like := range newest {
		newestLikes = append(newestLikes, models.LikeDetailsView{
			AddedAt: like.CreatedAt,
			UserID:  like.UserID,
			Login:   like.UserLogin,
		})
	}

	return &models.PostView{
		ID:               post.ID,
		Title:            post.Title,
		ShortDescription: post.ShortDescription,
		Content:          post.Content,
		BlogID:           post.BlogID,
		BlogName:         post.BlogName,
		CreatedAt:        post.CreatedAt,
		ExtendedLikesInfo: models.ExtendedLikesInfo{
			LikesCount:    likesInfo.LikesCount,
			DislikesCount: likesInfo.DislikesCount,
			MyStatus:      likesInfo.MyStatus,
			NewestLikes:   newestLikes,
		},
	}, nil
}

// ListCommentsForPost returns one page of a visible post's visible
// comments. A banned or missing post yields not found.
func (e *Engine) ListCommentsForPost(ctx context.Context, postID, viewerID string, p ListParams) (*Page[models.CommentView], error) {
	ctx, span := tracing.QuerySpan(ctx, "post_comments")
	defer span.End()
	defer observe("post_comments", time.Now())

	if _, err := e.posts.GetVisiblePost(ctx, postID); err != nil {
		return nil, err
	}

	filter := database.CommentFilter{PostID: postID}

	totalCount, err := e.comments.CountComments(ctx, filter)
	if err != nil {
		tracing.EndWithError(span, err)
		return nil, fmt.Errorf("count comments: %w", err)
	}

	comments, err := e.comments.ListComments(ctx, filter, p.Options())
	if err != nil {
		tracing.EndWithError(span, err)
		return nil, fmt.Errorf("list comments: %w", err)
	}

	items := make([]models.CommentView, len(comments))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i, comment := range comments {
		g.Go(func() error {
			view, err := e.commentView(gCtx, comment, viewerID)
			if err != nil {
				return err
			}
			items[i] = *view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		tracing.EndWithError(span, err)
		return nil, err
	}

	return NewPage(p, totalCount, items), nil
}

// GetComment returns one visible comment, enriched.
func (e *Engine) GetComment(ctx context.Context, commentID, viewerID string) (*models.CommentView, error) {
	ctx, span := tracing.QuerySpan(ctx, "comment")
	defer span.End()
	defer observe("comment", time.Now())

	comment, err := e.comments.GetVisibleComment(ctx, commentID)
	if err != nil {
		return nil, err
	}
	return e.commentView(ctx, comment, viewerID)
}

func (e *Engine) commentView(ctx context.Context, comment *models.Comment, viewerID string) (*models.CommentView, error) {
	likesInfo, err := e.likesInfo(ctx, comment.ID, models.ParentComment, viewerID)
	if err != nil {
		return nil, err
	}
	return &models.CommentView{
		ID:      comment.ID,
		Content: comment.Content,
		CommentatorInfo: models.CommentatorInfo{
			UserID:    comment.UserID,
			UserLogin: comment.UserLogin,
		},
		CreatedAt: comment.CreatedAt,
		LikesInfo: *likesInfo,
	}, nil
}

// likesInfo computes the shared reaction aggregates for one parent.
// myStatus is None for an unauthenticated viewer or one who never
// reacted; counts never include banned reactors.
func (e *Engine) likesInfo(ctx context.Context, parentID string, parentType models.ParentType, viewerID string) (*models.LikesInfo, error) {
	myStatus := models.LikeStatusNone
	if viewerID != "" {
		own, err := e.likes.GetLikeStatus(ctx, parentID, parentType, viewerID)
		switch {
		case errors.Is(err, database.ErrNotFound):
			// never reacted
		case err != nil:
			return nil, fmt.Errorf("viewer status: %w", err)
		default:
			myStatus = own.Status
		}
	}

	likesCount, err := e.likes.CountReactions(ctx, parentID, parentType, models.LikeStatusLike)
	if err != nil {
		return nil, fmt.Errorf("likes count: %w", err)
	}
	dislikesCount, err := e.likes.CountReactions(ctx, parentID, parentType, models.LikeStatusDislike)
	if err != nil {
		return nil, fmt.Errorf("dislikes count: %w", err)
	}

	return &models.LikesInfo{
		LikesCount:    likesCount,
		DislikesCount: dislikesCount,
		MyStatus:      myStatus,
	}, nil
}

// ListBloggerComments returns one page of comments left on any of the
// owner's visible posts, each located by its post.
func (e *Engine) ListBloggerComments(ctx context.Context, ownerID string, p ListParams) (*Page[models.BloggerCommentView], error) {
	ctx, span := tracing.QuerySpan(ctx, "blogger_comments")
	defer span.End()
	defer observe("blogger_comments", time.Now())

	filter := database.CommentFilter{PostOwnerID: ownerID}

	totalCount, err := e.comments.CountComments(ctx, filter)
	if err != nil {
		tracing.EndWithError(span, err)
		return nil, fmt.Errorf("count comments: %w", err)
	}

	comments, err := e.comments.ListComments(ctx, filter, p.Options())
	if err != nil {
		tracing.EndWithError(span, err)
		return nil, fmt.Errorf("list comments: %w", err)
	}

	items := make([]models.BloggerCommentView, len(comments))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(enrichConcurrency)
	for i, comment := range comments {
		g.Go(func() error {
			post, err := e.posts.GetVisiblePost(gCtx, comment.PostID)
			if err != nil {
				return fmt.Errorf("resolve post %s: %w", comment.PostID, err)
			}
			items[i] = models.BloggerCommentView{
				ID:      comment.ID,
				Content: comment.Content,
				CommentatorInfo: models.CommentatorInfo{
					UserID:    comment.UserID,
					UserLogin: comment.UserLogin,
				},
				CreatedAt: comment.CreatedAt,
				PostInfo: models.PostInfoView{
					ID:       post.ID,
					Title:    post.Title,
					BlogID:   post.BlogID,
					BlogName: post.BlogName,
				},
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		tracing.EndWithError(span, err)
		return nil, err
	}

	return NewPage(p, totalCount, items), nil
}

// ListBannedUsersForBlog returns one page of the blog's ban records,
// optionally filtered by a login substring. This is the only listing
// that shows banned entries; hiding them would defeat its purpose.
func (e *Engine) ListBannedUsersForBlog(ctx context.Context, blogID string, p ListParams) (*Page[models.BannedUserView], error) {
	ctx, span := tracing.QuerySpan(ctx, "banned_users")
	defer span.End()
	defer observe("banned_users", time.Now())

	if _, err := e.blogs.GetBlog(ctx, blogID); err != nil {
		return nil, err
	}

	filter := database.BlogBanFilter{
		BlogID:          blogID,
		SearchLoginTerm: p.SearchLoginTerm,
	}

	totalCount, err := e.blogs.CountBlogBans(ctx, filter)
	if err != nil {
		tracing.EndWithError(span, err)
		return nil, fmt.Errorf("count blog bans: %w", err)
	}

	bans, err := e.blogs.ListBlogBans(ctx, filter, p.Options())
	if err != nil {
		tracing.EndWithError(span, err)
		return nil, fmt.Errorf("list blog bans: %w", err)
	}

	items := make([]models.BannedUserView, 0, len(bans))
	for _, ban := range bans {
		items = append(items, models.BannedUserView{
			ID:    ban.ID,
			Login: ban.UserLogin,
			BanInfo: models.BanInfo{
				IsBanned:  ban.IsBanned,
				BanDate:   ban.BanDate,
				BanReason: ban.BanReason,
			},
		})
	}

	return NewPage(p, totalCount, items), nil
}

func observe(view string, start time.Time) {
	metrics.QueryDuration.WithLabelValues(view).Observe(time.Since(start).Seconds())
}
