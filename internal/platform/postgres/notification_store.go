package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/domain"
	"github.com/phrazzld/lumo-api/internal/platform/logger"
	"github.com/phrazzld/lumo-api/internal/store"
)

// PostgresNotificationStore implements store.NotificationStore on the
// notifications table, which is ordered by its bigserial seq column.
type PostgresNotificationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNotificationStore creates a new PostgreSQL implementation of the NotificationStore interface.
func NewPostgresNotificationStore(db store.DBTX, logger *slog.Logger) *PostgresNotificationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresNotificationStore{
		db:     db,
		logger: logger.With(slog.String("component", "notification_store")),
	}
}

var _ store.NotificationStore = (*PostgresNotificationStore)(nil)

// Append implements store.NotificationStore.Append.
func (s *PostgresNotificationStore) Append(ctx context.Context, userID uuid.UUID, n *domain.Notification) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := n.Validate(); err != nil {
		return err
	}

	var postID any
	if n.PostID != nil {
		postID = *n.PostID
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (user_id, type, from_user_id, post_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		userID, string(n.Type), n.FromUserID, postID, n.CreatedAt)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return store.ErrUserNotFound
		}
		log.Error("failed to append notification",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("type", string(n.Type)))
		return store.NewStoreError("notification", "append", "insert failed", MapError(err))
	}

	log.Debug("notification appended",
		slog.String("user_id", userID.String()),
		slog.String("type", string(n.Type)))
	return nil
}

// ListByUser implements store.NotificationStore.ListByUser.
func (s *PostgresNotificationStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT type, from_user_id, post_id, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY seq`,
		userID)
	if err != nil {
		return nil, store.NewStoreError("notification", "list", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	out := []*domain.Notification{}
	for rows.Next() {
		var (
			n      domain.Notification
			typ    string
			postID uuid.NullUUID
		)
		if err := rows.Scan(&typ, &n.FromUserID, &postID, &n.CreatedAt); err != nil {
			return nil, store.NewStoreError("notification", "list", "scan failed", err)
		}
		n.Type = domain.NotificationType(typ)
		if postID.Valid {
			id := postID.UUID
			n.PostID = &id
		}
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("notification", "list", "iteration failed", err)
	}
	return out, nil
}
