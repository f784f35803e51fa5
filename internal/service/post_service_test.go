package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/domain"
	"github.com/phrazzld/lumo-api/internal/mocks"
	"github.com/phrazzld/lumo-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampFeedLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-1, service.DefaultFeedLimit},
		{0, service.DefaultFeedLimit},
		{1, 1},
		{50, 50},
		{service.MaxFeedLimit, service.MaxFeedLimit},
		{service.MaxFeedLimit + 1, service.MaxFeedLimit},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, service.ClampFeedLimit(tc.in), "limit %d", tc.in)
	}
}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()
	users, posts, comments := mocks.NewMockUserStore(), mocks.NewMockPostStore(), mocks.NewMockCommentStore()
	svc, err := service.NewPostService(users, posts, comments, testLogger())
	require.NoError(t, err)
	owner := uuid.New()

	post, err := svc.CreatePost(ctx, owner, "https://img.example.com/a.jpg", "beach")
	require.NoError(t, err)
	assert.Equal(t, owner, post.UserID)

	stored, err := posts.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "beach", stored.Caption)

	_, err = svc.CreatePost(ctx, owner, "", "no image")
	assert.ErrorIs(t, err, domain.ErrValidation)

	posts.CreateFn = func(ctx context.Context, post *domain.Post) error { return errors.New("disk full") }
	_, err = svc.CreatePost(ctx, owner, "https://img.example.com/b.jpg", "")
	var svcErr *service.ServiceError
	assert.ErrorAs(t, err, &svcErr)
}

func TestFeed(t *testing.T) {
	ctx := context.Background()
	users, posts, comments := mocks.NewMockUserStore(), mocks.NewMockPostStore(), mocks.NewMockCommentStore()
	svc, err := service.NewPostService(users, posts, comments, testLogger())
	require.NoError(t, err)

	alice := seedUser(t, users, nil, "alice")
	bob := seedUser(t, users, nil, "bob")
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	p1 := seedPost(t, posts, alice.ID, base)
	p2 := seedPost(t, posts, bob.ID, base.Add(time.Hour))
	p3 := seedPost(t, posts, alice.ID, base.Add(2*time.Hour))

	c, err := domain.NewComment(p1.ID, bob.ID, "nice")
	require.NoError(t, err)
	require.NoError(t, comments.Create(ctx, c))

	t.Run("newest first with authors and comments", func(t *testing.T) {
		feed, err := svc.Feed(ctx, 0, 0)
		require.NoError(t, err)
		require.Len(t, feed, 3)
		assert.Equal(t, p3.ID, feed[0].ID)
		assert.Equal(t, p2.ID, feed[1].ID)
		assert.Equal(t, "bob", feed[1].Author.Username)
		assert.Equal(t, p1.ID, feed[2].ID)
		assert.Equal(t, "alice", feed[2].Author.Username)

		assert.NotNil(t, feed[0].Comments)
		assert.Empty(t, feed[0].Comments)
		require.Len(t, feed[2].Comments, 1)
		assert.Equal(t, "nice", feed[2].Comments[0].Content)
		assert.Equal(t, "bob", feed[2].Comments[0].Author.Username)
	})

	t.Run("paging", func(t *testing.T) {
		feed, err := svc.Feed(ctx, 1, 1)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		assert.Equal(t, p2.ID, feed[0].ID)

		feed, err = svc.Feed(ctx, 10, -5)
		require.NoError(t, err)
		assert.Len(t, feed, 3)
	})

	t.Run("past the end", func(t *testing.T) {
		feed, err := svc.Feed(ctx, 10, 10)
		require.NoError(t, err)
		assert.NotNil(t, feed)
		assert.Empty(t, feed)
	})

	t.Run("clamps limit", func(t *testing.T) {
		var gotLimit int
		posts.ListRecentFn = func(ctx context.Context, limit, offset int) ([]*domain.Post, error) {
			gotLimit = limit
			return nil, nil
		}
		defer func() { posts.ListRecentFn = nil }()

		_, err := svc.Feed(ctx, 1000, 0)
		require.NoError(t, err)
		assert.Equal(t, service.MaxFeedLimit, gotLimit)
	})

	t.Run("author account gone", func(t *testing.T) {
		ghost := uuid.New()
		p := seedPost(t, posts, ghost, base.Add(3*time.Hour))

		feed, err := svc.Feed(ctx, 1, 0)
		require.NoError(t, err)
		require.Len(t, feed, 1)
		assert.Equal(t, p.ID, feed[0].ID)
		assert.Equal(t, ghost, feed[0].Author.ID)
		assert.Empty(t, feed[0].Author.Username)
	})
}
