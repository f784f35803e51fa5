package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/domain"
	"github.com/phrazzld/lumo-api/internal/platform/logger"
	"github.com/phrazzld/lumo-api/internal/store"
)

const postColumns = `id, user_id, image_url, caption, created_at`

// PostgresPostStore implements store.PostStore. Likes live in post_likes,
// one row per (post, user), ordered by seq.
type PostgresPostStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresPostStore creates a new PostgreSQL implementation of the PostStore interface.
func NewPostgresPostStore(db store.DBTX, logger *slog.Logger) *PostgresPostStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresPostStore{
		db:     db,
		logger: logger.With(slog.String("component", "post_store")),
	}
}

var _ store.PostStore = (*PostgresPostStore)(nil)

// WithTx implements store.PostStore.WithTx.
func (s *PostgresPostStore) WithTx(tx *sql.Tx) store.PostStore {
	return &PostgresPostStore{db: tx, logger: s.logger}
}

// Create implements store.PostStore.Create.
func (s *PostgresPostStore) Create(ctx context.Context, post *domain.Post) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := post.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (id, user_id, image_url, caption, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		post.ID, post.UserID, post.ImageURL, post.Caption, post.CreatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("post owner does not exist", slog.String("user_id", post.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found", store.ErrInvalidEntity, post.UserID)
		}
		log.Error("failed to create post",
			slog.String("error", err.Error()),
			slog.String("post_id", post.ID.String()))
		return store.NewStoreError("post", "create", "insert failed", MapError(err))
	}

	log.Info("post created",
		slog.String("post_id", post.ID.String()),
		slog.String("user_id", post.UserID.String()))
	return nil
}

// GetByID implements store.PostStore.GetByID.
func (s *PostgresPostStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	post, err := scanPost(s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("post not found", slog.String("post_id", id.String()))
			return nil, store.ErrPostNotFound
		}
		log.Error("failed to query post", slog.String("error", err.Error()))
		return nil, store.NewStoreError("post", "get", "query failed", err)
	}

	if err := s.loadLikes(ctx, []*domain.Post{post}); err != nil {
		return nil, err
	}
	return post, nil
}

// ListByUser implements store.PostStore.ListByUser.
func (s *PostgresPostStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Post, error) {
	return s.list(ctx, "list_by_user",
		`SELECT `+postColumns+` FROM posts WHERE user_id = $1 ORDER BY created_at DESC, id`,
		userID)
}

// ListRecent implements store.PostStore.ListRecent.
func (s *PostgresPostStore) ListRecent(ctx context.Context, limit, offset int) ([]*domain.Post, error) {
	return s.list(ctx, "list_recent",
		`SELECT `+postColumns+` FROM posts ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
		limit, offset)
}

func (s *PostgresPostStore) list(ctx context.Context, op, query string, args ...any) ([]*domain.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, store.NewStoreError("post", op, "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	posts := []*domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, store.NewStoreError("post", op, "scan failed", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("post", op, "iteration failed", err)
	}

	if err := s.loadLikes(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// loadLikes fills the like set of each post in one query.
func (s *PostgresPostStore) loadLikes(ctx context.Context, posts []*domain.Post) error {
	if len(posts) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*domain.Post, len(posts))
	ids := make([]uuid.UUID, len(posts))
	for i, p := range posts {
		byID[p.ID] = p
		ids[i] = p.ID
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT post_id, user_id FROM post_likes WHERE post_id = ANY($1::uuid[]) ORDER BY seq`,
		uuidArray(ids))
	if err != nil {
		return store.NewStoreError("post", "load_likes", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var postID, userID uuid.UUID
		if err := rows.Scan(&postID, &userID); err != nil {
			return store.NewStoreError("post", "load_likes", "scan failed", err)
		}
		if p, ok := byID[postID]; ok {
			p.Likes.Add(userID)
		}
	}
	if err := rows.Err(); err != nil {
		return store.NewStoreError("post", "load_likes", "iteration failed", err)
	}
	return nil
}

// GetSummaries implements store.PostStore.GetSummaries.
func (s *PostgresPostStore) GetSummaries(
	ctx context.Context,
	ids []uuid.UUID,
) (map[uuid.UUID]domain.PostSummary, error) {
	out := make(map[uuid.UUID]domain.PostSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, image_url FROM posts WHERE id = ANY($1::uuid[])`, uuidArray(ids))
	if err != nil {
		return nil, store.NewStoreError("post", "get_summaries", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var sum domain.PostSummary
		if err := rows.Scan(&sum.ID, &sum.ImageURL); err != nil {
			return nil, store.NewStoreError("post", "get_summaries", "scan failed", err)
		}
		out[sum.ID] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("post", "get_summaries", "iteration failed", err)
	}
	return out, nil
}

// AddLike implements store.PostStore.AddLike.
func (s *PostgresPostStore) AddLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO post_likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING`,
		postID, userID)
	if err != nil {
		switch foreignKeyConstraint(err) {
		case "post_likes_post_id_fkey":
			return false, store.ErrPostNotFound
		case "post_likes_user_id_fkey":
			return false, store.ErrUserNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to add like",
			slog.String("error", err.Error()),
			slog.String("post_id", postID.String()),
			slog.String("user_id", userID.String()))
		return false, store.NewStoreError("post", "add_like", "insert failed", MapError(err))
	}
	return rowsAffected(result)
}

// RemoveLike implements store.PostStore.RemoveLike.
func (s *PostgresPostStore) RemoveLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to remove like",
			slog.String("error", err.Error()),
			slog.String("post_id", postID.String()),
			slog.String("user_id", userID.String()))
		return false, store.NewStoreError("post", "remove_like", "delete failed", err)
	}
	return rowsAffected(result)
}

func scanPost(row rowScanner) (*domain.Post, error) {
	var p domain.Post
	if err := row.Scan(&p.ID, &p.UserID, &p.ImageURL, &p.Caption, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
