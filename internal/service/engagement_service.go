package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/domain"
	"github.com/phrazzld/lumo-api/internal/platform/logger"
	"github.com/phrazzld/lumo-api/internal/store"
)

// EngagementService handles likes and comments on posts.
type EngagementService interface {
	// LikePost adds userID to the post's like set and notifies the owner.
	LikePost(ctx context.Context, postID, userID uuid.UUID) (*domain.Post, error)

	// UnlikePost removes userID from the post's like set. The owner is not notified.
	UnlikePost(ctx context.Context, postID, userID uuid.UUID) (*domain.Post, error)

	// AddComment stores a comment by userID and notifies the owner.
	AddComment(ctx context.Context, postID, userID uuid.UUID, content string) (*domain.Comment, error)
}

type engagementServiceImpl struct {
	posts    store.PostStore
	comments store.CommentStore
	notifier Notifier
	logger   *slog.Logger
}

// NewEngagementService creates an EngagementService.
func NewEngagementService(
	posts store.PostStore,
	comments store.CommentStore,
	notifier Notifier,
	logger *slog.Logger,
) (EngagementService, error) {
	if posts == nil {
		return nil, domain.NewValidationError("posts", "cannot be nil", domain.ErrValidation)
	}
	if comments == nil {
		return nil, domain.NewValidationError("comments", "cannot be nil", domain.ErrValidation)
	}
	if notifier == nil {
		return nil, domain.NewValidationError("notifier", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &engagementServiceImpl{
		posts:    posts,
		comments: comments,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "engagement_service")),
	}, nil
}

// LikePost implements EngagementService.LikePost. Liking one's own post is
// allowed and notifies oneself.
func (s *engagementServiceImpl) LikePost(ctx context.Context, postID, userID uuid.UUID) (*domain.Post, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("post_id", postID.String()),
		slog.String("user_id", userID.String()),
	)

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Likes.Contains(userID) {
		return nil, ErrAlreadyLiked
	}

	added, err := s.posts.AddLike(ctx, postID, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to like post", slog.String("error", err.Error()))
		return nil, NewServiceError("engagement", "like", "failed to save like", err)
	}
	if !added {
		return nil, ErrAlreadyLiked
	}
	post.Likes.Add(userID)

	log.Debug("post liked")

	n, err := domain.NewNotification(domain.NotificationLike, userID, &postID)
	if err != nil {
		log.Error("failed to build like notification", slog.String("error", err.Error()))
		return post, nil
	}
	s.notifier.Notify(ctx, post.UserID, n)
	return post, nil
}

// UnlikePost implements EngagementService.UnlikePost.
func (s *engagementServiceImpl) UnlikePost(ctx context.Context, postID, userID uuid.UUID) (*domain.Post, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("post_id", postID.String()),
		slog.String("user_id", userID.String()),
	)

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.Likes.Contains(userID) {
		return nil, ErrNotLiked
	}

	removed, err := s.posts.RemoveLike(ctx, postID, userID)
	if err != nil {
		log.Error("failed to unlike post", slog.String("error", err.Error()))
		return nil, NewServiceError("engagement", "unlike", "failed to delete like", err)
	}
	if !removed {
		return nil, ErrNotLiked
	}
	post.Likes.Remove(userID)

	log.Debug("post unliked")
	return post, nil
}

// AddComment implements EngagementService.AddComment.
func (s *engagementServiceImpl) AddComment(
	ctx context.Context,
	postID, userID uuid.UUID,
	content string,
) (*domain.Comment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("post_id", postID.String()),
		slog.String("user_id", userID.String()),
	)

	comment, err := domain.NewComment(postID, userID, content)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to create comment", slog.String("error", err.Error()))
		return nil, NewServiceError("engagement", "comment", "failed to save comment", err)
	}

	n, err := domain.NewNotification(domain.NotificationComment, userID, &postID)
	if err != nil {
		log.Error("failed to build comment notification", slog.String("error", err.Error()))
		return comment, nil
	}
	s.notifier.Notify(ctx, post.UserID, n)
	return comment, nil
}
