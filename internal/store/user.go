package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/domain"
)

// UserStore defines the interface for user data persistence, including each
// user's friend list.
type UserStore interface {
	// Create saves a new user, hashing its plaintext password.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user with its friend list in insertion order.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List returns every user ordered by creation time. Friend lists are
	// not populated.
	List(ctx context.Context) ([]*domain.User, error)

	// GetSummaries resolves ids to display projections. IDs that do not
	// resolve are absent from the result.
	GetSummaries(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.UserSummary, error)

	// UpdateProfile writes the editable profile fields of user.
	// Returns ErrUserNotFound if the user does not exist.
	UpdateProfile(ctx context.Context, user *domain.User) error

	// AddFriend appends friendID to userID's friend list. It reports false
	// without error when friendID is already present.
	AddFriend(ctx context.Context, userID, friendID uuid.UUID) (bool, error)

	// RemoveFriend removes friendID from userID's friend list. It reports
	// false without error when friendID was not present.
	RemoveFriend(ctx context.Context, userID, friendID uuid.UUID) (bool, error)

	// WithTx returns a UserStore that runs its statements in tx.
	WithTx(tx *sql.Tx) UserStore
}
