package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/domain"
)

// PostStore defines the interface for post and like persistence.
type PostStore interface {
	// Create saves a new post.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, post *domain.Post) error

	// GetByID retrieves a post with its like set in insertion order.
	// Returns ErrPostNotFound if the post does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)

	// GetSummaries resolves ids to notification projections. IDs that do
	// not resolve are absent from the result.
	GetSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.PostSummary, error)

	// ListByUser returns the user's posts newest first, likes populated.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Post, error)

	// ListRecent returns posts from all users newest first, likes populated.
	ListRecent(ctx context.Context, limit, offset int) ([]*domain.Post, error)

	// AddLike records that userID likes postID. It reports false without
	// error when the like already exists.
	AddLike(ctx context.Context, postID, userID uuid.UUID) (bool, error)

	// RemoveLike deletes userID's like of postID. It reports false without
	// error when there was no like.
	RemoveLike(ctx context.Context, postID, userID uuid.UUID) (bool, error)

	// WithTx returns a PostStore that runs its statements in tx.
	WithTx(tx *sql.Tx) PostStore
}

// CommentStore defines the interface for comment persistence.
type CommentStore interface {
	// Create saves a new comment.
	// Returns ErrInvalidEntity if the post or author does not exist.
	Create(ctx context.Context, comment *domain.Comment) error

	// ListByPosts returns the comments of each post oldest first, keyed by post ID.
	ListByPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]*domain.Comment, error)
}
