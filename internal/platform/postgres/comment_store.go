package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/domain"
	"github.com/phrazzld/lumo-api/internal/platform/logger"
	"github.com/phrazzld/lumo-api/internal/store"
)

// PostgresCommentStore implements store.CommentStore.
type PostgresCommentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCommentStore creates a new PostgreSQL implementation of the CommentStore interface.
func NewPostgresCommentStore(db store.DBTX, logger *slog.Logger) *PostgresCommentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCommentStore{
		db:     db,
		logger: logger.With(slog.String("component", "comment_store")),
	}
}

var _ store.CommentStore = (*PostgresCommentStore)(nil)

// Create implements store.CommentStore.Create.
func (s *PostgresCommentStore) Create(ctx context.Context, c *domain.Comment) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, post_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.PostID, c.UserID, c.Content, c.CreatedAt)
	if err != nil {
		switch foreignKeyConstraint(err) {
		case "comments_post_id_fkey":
			return store.ErrPostNotFound
		case "comments_user_id_fkey":
			return store.ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create comment",
			slog.String("error", err.Error()),
			slog.String("post_id", c.PostID.String()))
		return store.NewStoreError("comment", "create", "insert failed", MapError(err))
	}
	return nil
}

// ListByPosts implements store.CommentStore.ListByPosts.
func (s *PostgresCommentStore) ListByPosts(
	ctx context.Context,
	postIDs []uuid.UUID,
) (map[uuid.UUID][]*domain.Comment, error) {
	out := make(map[uuid.UUID][]*domain.Comment, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, post_id, user_id, content, created_at
		FROM comments
		WHERE post_id = ANY($1::uuid[])
		ORDER BY created_at, id`,
		uuidArray(postIDs))
	if err != nil {
		return nil, store.NewStoreError("comment", "list_by_posts", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Content, &c.CreatedAt); err != nil {
			return nil, store.NewStoreError("comment", "list_by_posts", "scan failed", err)
		}
		out[c.PostID] = append(out[c.PostID], &c)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("comment", "list_by_posts", "iteration failed", err)
	}
	return out, nil
}
