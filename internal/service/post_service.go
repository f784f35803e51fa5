package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/domain"
	"github.com/phrazzld/lumo-api/internal/platform/logger"
	"github.com/phrazzld/lumo-api/internal/store"
)

// Feed paging bounds.
const (
	DefaultFeedLimit = 20
	MaxFeedLimit     = 100
)

// PostService creates posts and assembles the feed.
type PostService interface {
	// CreatePost stores a new post owned by userID.
	CreatePost(ctx context.Context, userID uuid.UUID, imageURL, caption string) (*domain.Post, error)

	// Feed returns recent posts from all users, newest first, with authors
	// and comments resolved.
	Feed(ctx context.Context, limit, offset int) ([]domain.FeedPost, error)
}

type postServiceImpl struct {
	users    store.UserStore
	posts    store.PostStore
	comments store.CommentStore
	logger   *slog.Logger
}

// NewPostService creates a PostService.
func NewPostService(
	users store.UserStore,
	posts store.PostStore,
	comments store.CommentStore,
	logger *slog.Logger,
) (PostService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if posts == nil {
		return nil, domain.NewValidationError("posts", "cannot be nil", domain.ErrValidation)
	}
	if comments == nil {
		return nil, domain.NewValidationError("comments", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &postServiceImpl{
		users:    users,
		posts:    posts,
		comments: comments,
		logger:   logger.With(slog.String("component", "post_service")),
	}, nil
}

// CreatePost implements PostService.CreatePost.
func (s *postServiceImpl) CreatePost(
	ctx context.Context,
	userID uuid.UUID,
	imageURL, caption string,
) (*domain.Post, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	post, err := domain.NewPost(userID, imageURL, caption)
	if err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, post); err != nil {
		log.Error("failed to create post", slog.String("error", err.Error()))
		return nil, NewServiceError("post", "create", "failed to save post", err)
	}

	log.Info("post created", slog.String("post_id", post.ID.String()))
	return post, nil
}

// ClampFeedLimit maps a requested page size onto the allowed range.
func ClampFeedLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultFeedLimit
	case limit > MaxFeedLimit:
		return MaxFeedLimit
	default:
		return limit
	}
}

// Feed implements PostService.Feed.
func (s *postServiceImpl) Feed(ctx context.Context, limit, offset int) ([]domain.FeedPost, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if offset < 0 {
		offset = 0
	}
	posts, err := s.posts.ListRecent(ctx, ClampFeedLimit(limit), offset)
	if err != nil {
		log.Error("failed to list posts", slog.String("error", err.Error()))
		return nil, NewServiceError("post", "feed", "failed to load posts", err)
	}
	if len(posts) == 0 {
		return []domain.FeedPost{}, nil
	}

	postIDs := make([]uuid.UUID, 0, len(posts))
	for _, p := range posts {
		postIDs = append(postIDs, p.ID)
	}

	comments, err := s.comments.ListByPosts(ctx, postIDs)
	if err != nil {
		log.Error("failed to load comments", slog.String("error", err.Error()))
		return nil, NewServiceError("post", "feed", "failed to load comments", err)
	}

	// One lookup covers both post authors and comment authors.
	seen := map[uuid.UUID]bool{}
	var authorIDs []uuid.UUID
	addAuthor := func(id uuid.UUID) {
		if !seen[id] {
			seen[id] = true
			authorIDs = append(authorIDs, id)
		}
	}
	for _, p := range posts {
		addAuthor(p.UserID)
		for _, c := range comments[p.ID] {
			addAuthor(c.UserID)
		}
	}
	authors, err := s.users.GetSummaries(ctx, authorIDs)
	if err != nil {
		log.Error("failed to resolve authors", slog.String("error", err.Error()))
		return nil, NewServiceError("post", "feed", "failed to resolve authors", err)
	}
	author := func(id uuid.UUID) domain.UserSummary {
		if sum, ok := authors[id]; ok {
			return sum
		}
		return domain.UserSummary{ID: id}
	}

	feed := make([]domain.FeedPost, 0, len(posts))
	for _, p := range posts {
		views := make([]domain.CommentView, 0, len(comments[p.ID]))
		for _, c := range comments[p.ID] {
			views = append(views, domain.CommentView{
				ID:        c.ID,
				Content:   c.Content,
				Author:    author(c.UserID),
				CreatedAt: c.CreatedAt,
			})
		}
		feed = append(feed, domain.FeedPost{
			Post:     p,
			Author:   author(p.UserID),
			Comments: views,
		})
	}
	return feed, nil
}
