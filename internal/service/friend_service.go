package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/domain"
	"github.com/phrazzld/lumo-api/internal/platform/logger"
	"github.com/phrazzld/lumo-api/internal/store"
)

// FriendService maintains the symmetric friend graph.
type FriendService interface {
	// AddFriend makes userID and friendID friends of each other and sends
	// each of them a follow notification from the other.
	AddFriend(ctx context.Context, userID, friendID uuid.UUID) error

	// RemoveFriend removes the friendship in both directions.
	RemoveFriend(ctx context.Context, userID, friendID uuid.UUID) error
}

type friendServiceImpl struct {
	users    store.UserStore
	tx       store.Transactor
	notifier Notifier
	logger   *slog.Logger
}

// NewFriendService creates a FriendService.
func NewFriendService(
	users store.UserStore,
	tx store.Transactor,
	notifier Notifier,
	logger *slog.Logger,
) (FriendService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if tx == nil {
		return nil, domain.NewValidationError("tx", "cannot be nil", domain.ErrValidation)
	}
	if notifier == nil {
		return nil, domain.NewValidationError("notifier", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &friendServiceImpl{
		users:    users,
		tx:       tx,
		notifier: notifier,
		logger:   logger.With(slog.String("component", "friend_service")),
	}, nil
}

// AddFriend implements FriendService.AddFriend.
//
// Both edges are written in one transaction. Only the initiating user's
// list is checked, so a reverse edge left behind by an earlier failure is
// absorbed rather than reported.
func (s *friendServiceImpl) AddFriend(ctx context.Context, userID, friendID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("friend_id", friendID.String()),
	)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, friendID); err != nil {
		return err
	}
	if userID == friendID {
		return ErrCannotFriendSelf
	}
	if user.Friends.Contains(friendID) {
		return ErrAlreadyFriends
	}

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		added, err := users.AddFriend(ctx, userID, friendID)
		if err != nil {
			return err
		}
		if !added {
			// Lost a race with a concurrent request for the same pair.
			return ErrAlreadyFriends
		}
		_, err = users.AddFriend(ctx, friendID, userID)
		return err
	})
	if err != nil {
		if !IsConflictError(err) && !store.IsNotFoundError(err) {
			log.Error("failed to add friend", slog.String("error", err.Error()))
			return NewServiceError("friend", "add", "failed to save friendship", err)
		}
		return err
	}

	log.Info("friendship created")

	s.notify(ctx, friendID, userID, log)
	s.notify(ctx, userID, friendID, log)
	return nil
}

func (s *friendServiceImpl) notify(ctx context.Context, recipient, from uuid.UUID, log *slog.Logger) {
	n, err := domain.NewNotification(domain.NotificationFollow, from, nil)
	if err != nil {
		log.Error("failed to build follow notification", slog.String("error", err.Error()))
		return
	}
	s.notifier.Notify(ctx, recipient, n)
}

// RemoveFriend implements FriendService.RemoveFriend.
//
// A missing reverse edge is a no-op, not an error.
func (s *friendServiceImpl) RemoveFriend(ctx context.Context, userID, friendID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("friend_id", friendID.String()),
	)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.Friends.Contains(friendID) {
		return ErrNotFriends
	}

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)

		removed, err := users.RemoveFriend(ctx, userID, friendID)
		if err != nil {
			return err
		}
		if !removed {
			return ErrNotFriends
		}
		_, err = users.RemoveFriend(ctx, friendID, userID)
		return err
	})
	if err != nil {
		if !IsConflictError(err) {
			log.Error("failed to remove friend", slog.String("error", err.Error()))
			return NewServiceError("friend", "remove", "failed to delete friendship", err)
		}
		return err
	}

	log.Info("friendship removed")
	return nil
}
