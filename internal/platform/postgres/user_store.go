package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/domain"
	"github.com/phrazzld/lumo-api/internal/platform/logger"
	"github.com/phrazzld/lumo-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const userColumns = `id, username, email, hashed_password, description, profile_picture, created_at, updated_at`

// PostgresUserStore implements store.UserStore. Friend lists live in the
// friendships table, one row per directed edge, ordered by seq.
type PostgresUserStore struct {
	db         store.DBTX
	bcryptCost int
	logger     *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
func NewPostgresUserStore(db store.DBTX, bcryptCost int, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &PostgresUserStore{
		db:         db,
		bcryptCost: bcryptCost,
		logger:     logger.With(slog.String("component", "user_store")),
	}
}

var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx.
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, bcryptCost: s.bcryptCost, logger: s.logger}
}

// Create implements store.UserStore.Create.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.bcryptCost)
	if err != nil {
		log.Error("failed to hash password", slog.String("error", err.Error()))
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, hashed_password, description, profile_picture, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		user.ID, user.Username, user.Email, string(hash),
		user.Description, user.ProfilePicture, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("email already registered", slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return store.NewStoreError("user", "create", "insert failed", MapError(err))
	}

	user.HashedPassword = string(hash)
	user.Password = ""
	log.Info("user created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)))
}

func (s *PostgresUserStore) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to query user", slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "get", "query failed", err)
	}

	friends, err := s.friendIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	user.Friends = domain.NewIDSet(friends...)
	return user, nil
}

func (s *PostgresUserStore) friendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT friend_id FROM friendships WHERE user_id = $1 ORDER BY seq`, userID)
	if err != nil {
		return nil, store.NewStoreError("user", "list_friends", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, store.NewStoreError("user", "list_friends", "scan failed", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("user", "list_friends", "iteration failed", err)
	}
	return ids, nil
}

// List implements store.UserStore.List.
func (s *PostgresUserStore) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, store.NewStoreError("user", "list", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, store.NewStoreError("user", "list", "scan failed", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("user", "list", "iteration failed", err)
	}
	return users, nil
}

// GetSummaries implements store.UserStore.GetSummaries.
func (s *PostgresUserStore) GetSummaries(
	ctx context.Context,
	ids []uuid.UUID,
) (map[uuid.UUID]domain.UserSummary, error) {
	out := make(map[uuid.UUID]domain.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, profile_picture FROM users WHERE id = ANY($1::uuid[])`,
		uuidArray(ids))
	if err != nil {
		return nil, store.NewStoreError("user", "get_summaries", "query failed", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var sum domain.UserSummary
		if err := rows.Scan(&sum.ID, &sum.Username, &sum.ProfilePicture); err != nil {
			return nil, store.NewStoreError("user", "get_summaries", "scan failed", err)
		}
		out[sum.ID] = sum
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("user", "get_summaries", "iteration failed", err)
	}
	return out, nil
}

// UpdateProfile implements store.UserStore.UpdateProfile.
func (s *PostgresUserStore) UpdateProfile(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET username = $2, description = $3, profile_picture = $4, updated_at = $5
		WHERE id = $1`,
		user.ID, user.Username, user.Description, user.ProfilePicture, user.UpdatedAt)
	if err != nil {
		log.Error("failed to update profile",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return store.NewStoreError("user", "update_profile", "update failed", MapError(err))
	}
	if err := CheckRowsAffected(result, "user"); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrUserNotFound
		}
		return err
	}

	log.Debug("profile updated", slog.String("user_id", user.ID.String()))
	return nil
}

// AddFriend implements store.UserStore.AddFriend.
func (s *PostgresUserStore) AddFriend(ctx context.Context, userID, friendID uuid.UUID) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO friendships (user_id, friend_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, friend_id) DO NOTHING`,
		userID, friendID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return false, store.ErrUserNotFound
		}
		log.Error("failed to add friend",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("friend_id", friendID.String()))
		return false, store.NewStoreError("friendship", "add", "insert failed", MapError(err))
	}
	return rowsAffected(result)
}

// RemoveFriend implements store.UserStore.RemoveFriend.
func (s *PostgresUserStore) RemoveFriend(ctx context.Context, userID, friendID uuid.UUID) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM friendships WHERE user_id = $1 AND friend_id = $2`,
		userID, friendID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to remove friend",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("friend_id", friendID.String()))
		return false, store.NewStoreError("friendship", "remove", "delete failed", err)
	}
	return rowsAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.HashedPassword,
		&u.Description,
		&u.ProfilePicture,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}

// uuidArray renders ids as a Postgres array literal for a $n::uuid[] parameter.
func uuidArray(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}
