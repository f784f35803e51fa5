package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/domain"
	"github.com/phrazzld/lumo-api/internal/platform/logger"
	"github.com/phrazzld/lumo-api/internal/store"
	"golang.org/x/sync/errgroup"
)

// ProfileService reads and edits user profiles.
type ProfileService interface {
	// GetProfile returns the user, with friends resolved, and their posts
	// newest first.
	GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// UpdateProfile applies a partial update. Nil and empty fields are left
	// unchanged.
	UpdateProfile(ctx context.Context, userID uuid.UUID, update domain.ProfileUpdate) (*domain.ProfileUser, error)

	// ListUsers returns every user without credentials, oldest account first.
	ListUsers(ctx context.Context) ([]domain.ProfileUser, error)
}

type profileServiceImpl struct {
	users  store.UserStore
	posts  store.PostStore
	now    func() time.Time
	logger *slog.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(users store.UserStore, posts store.PostStore, logger *slog.Logger) (ProfileService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if posts == nil {
		return nil, domain.NewValidationError("posts", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &profileServiceImpl{
		users:  users,
		posts:  posts,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger.With(slog.String("component", "profile_service")),
	}, nil
}

// GetProfile implements ProfileService.GetProfile. Friends and posts are
// loaded concurrently.
func (s *profileServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		friends []domain.UserSummary
		posts   []*domain.Post
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		friends, err = s.resolveFriends(gctx, user)
		return err
	})
	g.Go(func() error {
		var err error
		posts, err = s.posts.ListByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("failed to assemble profile",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("profile", "get", "failed to load profile", err)
	}

	if posts == nil {
		posts = []*domain.Post{}
	}
	return &domain.Profile{
		User:  domain.NewProfileUser(user, friends),
		Posts: posts,
	}, nil
}

// resolveFriends returns friend projections in friend-list order. Friends
// whose accounts no longer exist are skipped.
func (s *profileServiceImpl) resolveFriends(ctx context.Context, user *domain.User) ([]domain.UserSummary, error) {
	ids := user.Friends.IDs()
	summaries, err := s.users.GetSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserSummary, 0, len(ids))
	for _, id := range ids {
		if sum, ok := summaries[id]; ok {
			out = append(out, sum)
		}
	}
	return out, nil
}

// UpdateProfile implements ProfileService.UpdateProfile.
func (s *profileServiceImpl) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	update domain.ProfileUpdate,
) (*domain.ProfileUser, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("user_id", userID.String()))

	update = update.Normalize()
	if err := update.Validate(); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !update.IsEmpty() {
		update.Apply(user, s.now())
		if err := s.users.UpdateProfile(ctx, user); err != nil {
			if store.IsNotFoundError(err) {
				return nil, err
			}
			log.Error("failed to update profile", slog.String("error", err.Error()))
			return nil, NewServiceError("profile", "update", "failed to save profile", err)
		}
		log.Info("profile updated")
	}

	friends, err := s.resolveFriends(ctx, user)
	if err != nil {
		log.Error("failed to resolve friends", slog.String("error", err.Error()))
		return nil, NewServiceError("profile", "update", "failed to load friends", err)
	}
	pu := domain.NewProfileUser(user, friends)
	return &pu, nil
}

// ListUsers implements ProfileService.ListUsers. Friend lists are left empty.
func (s *profileServiceImpl) ListUsers(ctx context.Context) ([]domain.ProfileUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list users",
			slog.String("error", err.Error()))
		return nil, NewServiceError("profile", "list", "failed to load users", err)
	}
	out := make([]domain.ProfileUser, 0, len(users))
	for _, u := range users {
		out = append(out, domain.NewProfileUser(u, nil))
	}
	return out, nil
}
