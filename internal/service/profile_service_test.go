package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/domain"
	"github.com/phrazzld/lumo-api/internal/mocks"
	"github.com/phrazzld/lumo-api/internal/service"
	"github.com/phrazzld/lumo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func newProfileService(t *testing.T) (service.ProfileService, *mocks.MockUserStore, *mocks.MockPostStore) {
	t.Helper()
	users, posts := mocks.NewMockUserStore(), mocks.NewMockPostStore()
	svc, err := service.NewProfileService(users, posts, testLogger())
	require.NoError(t, err)
	return svc, users, posts
}

func TestNewProfileServiceValidation(t *testing.T) {
	_, err := service.NewProfileService(nil, mocks.NewMockPostStore(), nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewProfileService(mocks.NewMockUserStore(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("posts newest first with friends resolved", func(t *testing.T) {
		svc, users, posts := newProfileService(t)
		friendA := seedUser(t, users, nil, "alice")
		friendB := seedUser(t, users, nil, "bob")
		ghost := uuid.New()
		u := seedUser(t, users, nil, "carol", friendB.ID, ghost, friendA.ID)

		base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
		older := seedPost(t, posts, u.ID, base)
		newer := seedPost(t, posts, u.ID, base.Add(time.Hour))
		seedPost(t, posts, friendA.ID, base.Add(2*time.Hour))

		profile, err := svc.GetProfile(ctx, u.ID)
		require.NoError(t, err)

		assert.Equal(t, "carol", profile.User.Username)
		require.Len(t, profile.User.Friends, 2)
		assert.Equal(t, "bob", profile.User.Friends[0].Username)
		assert.Equal(t, "alice", profile.User.Friends[1].Username)

		require.Len(t, profile.Posts, 2)
		assert.Equal(t, newer.ID, profile.Posts[0].ID)
		assert.Equal(t, older.ID, profile.Posts[1].ID)
	})

	t.Run("serialized profile carries no credentials", func(t *testing.T) {
		svc, users, _ := newProfileService(t)
		u := seedUser(t, users, nil, "dave")

		profile, err := svc.GetProfile(ctx, u.ID)
		require.NoError(t, err)
		assert.NotNil(t, profile.Posts)

		data, err := json.Marshal(profile)
		require.NoError(t, err)
		body := string(data)
		assert.NotContains(t, body, "password")
		assert.NotContains(t, body, "hashed")
		assert.True(t, strings.Contains(body, `"posts":[]`))
		assert.True(t, strings.Contains(body, `"friends":[]`))
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _, _ := newProfileService(t)
		_, err := svc.GetProfile(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("post lookup failure", func(t *testing.T) {
		svc, users, posts := newProfileService(t)
		u := seedUser(t, users, nil, "erin")
		posts.ListByUserFn = func(ctx context.Context, userID uuid.UUID) ([]*domain.Post, error) {
			return nil, errors.New("timeout")
		}

		_, err := svc.GetProfile(ctx, u.ID)
		var svcErr *service.ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "get", svcErr.Operation)
	})
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update keeps other fields", func(t *testing.T) {
		svc, users, _ := newProfileService(t)
		u := seedUser(t, users, nil, "frank")
		u.Description = "old bio"
		u.ProfilePicture = "old.png"
		users.Put(u)

		got, err := svc.UpdateProfile(ctx, u.ID, domain.ProfileUpdate{Description: strPtr("new bio")})
		require.NoError(t, err)
		assert.Equal(t, "frank", got.Username)
		assert.Equal(t, "new bio", got.Description)
		assert.Equal(t, "old.png", got.ProfilePicture)

		stored, err := users.GetByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, "new bio", stored.Description)
		assert.Equal(t, "old.png", stored.ProfilePicture)
	})

	t.Run("empty strings leave fields unchanged", func(t *testing.T) {
		svc, users, _ := newProfileService(t)
		u := seedUser(t, users, nil, "grace")
		u.Description = "bio"
		users.Put(u)
		writes := 0
		users.UpdateProfileFn = func(ctx context.Context, user *domain.User) error {
			writes++
			return nil
		}

		got, err := svc.UpdateProfile(ctx, u.ID, domain.ProfileUpdate{
			Username:    strPtr("  "),
			Description: strPtr(""),
		})
		require.NoError(t, err)
		assert.Equal(t, "grace", got.Username)
		assert.Equal(t, "bio", got.Description)
		assert.Zero(t, writes)
	})

	t.Run("returns resolved friends", func(t *testing.T) {
		svc, users, _ := newProfileService(t)
		friend := seedUser(t, users, nil, "heidi")
		u := seedUser(t, users, nil, "ivan", friend.ID)

		got, err := svc.UpdateProfile(ctx, u.ID, domain.ProfileUpdate{ProfilePicture: strPtr("me.png")})
		require.NoError(t, err)
		require.Len(t, got.Friends, 1)
		assert.Equal(t, friend.ID, got.Friends[0].ID)
	})

	t.Run("invalid username", func(t *testing.T) {
		svc, users, _ := newProfileService(t)
		u := seedUser(t, users, nil, "judy")

		_, err := svc.UpdateProfile(ctx, u.ID, domain.ProfileUpdate{Username: strPtr("x")})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown user", func(t *testing.T) {
		svc, _, _ := newProfileService(t)
		_, err := svc.UpdateProfile(ctx, uuid.New(), domain.ProfileUpdate{Description: strPtr("bio")})
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestListUsers(t *testing.T) {
	svc, users, _ := newProfileService(t)
	first := seedUser(t, users, nil, "kate")
	second := seedUser(t, users, nil, "leo", first.ID)
	second.CreatedAt = first.CreatedAt.Add(time.Second)
	users.Put(second)

	got, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, second.ID, got[1].ID)
	assert.Empty(t, got[1].Friends)
}
