package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/domain"
)

// NotificationStore persists each user's append-only notification sequence.
type NotificationStore interface {
	// Append adds n to the end of userID's sequence.
	// Returns ErrUserNotFound if the user does not exist.
	Append(ctx context.Context, userID uuid.UUID, n *domain.Notification) error

	// ListByUser returns userID's notifications in append order. It does not
	// check that the user exists; an unknown user yields an empty slice.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)
}
