package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/domain"
	"github.com/phrazzld/lumo-api/internal/mocks"
	"github.com/phrazzld/lumo-api/internal/service"
	"github.com/phrazzld/lumo-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLikeAndUnlikePost(t *testing.T) {
	t.Parallel()

	userID, postID := uuid.New(), uuid.New()

	tests := []struct {
		name       string
		method     string
		path       string
		serviceErr error
		wantStatus int
		wantError  string
		wantLiked  bool
	}{
		{"like", http.MethodPost, "/api/post/" + postID.String() + "/like", nil, http.StatusOK, "", true},
		{"like twice", http.MethodPost, "/api/post/" + postID.String() + "/like", service.ErrAlreadyLiked,
			http.StatusBadRequest, "Post already liked", false},
		{"like missing post", http.MethodPost, "/api/post/" + postID.String() + "/like", store.ErrPostNotFound,
			http.StatusNotFound, "Post not found", false},
		{"like malformed id", http.MethodPost, "/api/post/123/like", nil,
			http.StatusBadRequest, "Invalid postId: has invalid format", false},
		{"unlike", http.MethodDelete, "/api/post/" + postID.String() + "/like", nil, http.StatusOK, "", false},
		{"unlike never liked", http.MethodDelete, "/api/post/" + postID.String() + "/like", service.ErrNotLiked,
			http.StatusBadRequest, "Post not liked yet", false},
		{"unlike storage failure", http.MethodDelete, "/api/post/" + postID.String() + "/like", errors.New("timeout"),
			http.StatusInternalServerError, "Failed to unlike post", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			engagement := &mocks.MockEngagementService{
				LikePostFn: func(_ context.Context, p, u uuid.UUID) (*domain.Post, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &domain.Post{ID: p, Likes: domain.NewIDSet(u)}, nil
				},
				UnlikePostFn: func(_ context.Context, p, _ uuid.UUID) (*domain.Post, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &domain.Post{ID: p, Likes: domain.NewIDSet()}, nil
				},
			}
			handler := NewPostHandler(&mocks.MockPostService{}, engagement, discardLogger())

			h := handler.LikePost
			if tt.method == http.MethodDelete {
				h = handler.UnlikePost
			}
			rec := serve(t, h, tt.method, "/api/post/{postId}/like", tt.path, "", userID)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, errorMessage(t, rec))
				return
			}

			var post domain.Post
			decodeBody(t, rec, &post)
			assert.Equal(t, postID, post.ID)
			assert.Equal(t, tt.wantLiked, post.Likes.Contains(userID))
		})
	}
}

func TestAddComment(t *testing.T) {
	t.Parallel()

	userID, postID := uuid.New(), uuid.New()
	path := "/api/post/" + postID.String() + "/comments"
	pattern := "/api/post/{postId}/comments"

	t.Run("created", func(t *testing.T) {
		var gotContent string
		engagement := &mocks.MockEngagementService{
			AddCommentFn: func(_ context.Context, p, u uuid.UUID, content string) (*domain.Comment, error) {
				gotContent = content
				return domain.NewComment(p, u, content)
			},
		}
		handler := NewPostHandler(&mocks.MockPostService{}, engagement, discardLogger())

		rec := serve(t, handler.AddComment, http.MethodPost, pattern, path, `{"content":"great shot"}`, userID)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "great shot", gotContent)
		var body map[string]interface{}
		decodeBody(t, rec, &body)
		assert.Equal(t, postID.String(), body["post_id"])
	})

	t.Run("empty content", func(t *testing.T) {
		handler := NewPostHandler(&mocks.MockPostService{}, &mocks.MockEngagementService{}, discardLogger())
		rec := serve(t, handler.AddComment, http.MethodPost, pattern, path, `{"content":""}`, userID)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid content: required field", errorMessage(t, rec))
	})

	t.Run("missing post", func(t *testing.T) {
		engagement := &mocks.MockEngagementService{
			AddCommentFn: func(context.Context, uuid.UUID, uuid.UUID, string) (*domain.Comment, error) {
				return nil, store.ErrPostNotFound
			},
		}
		handler := NewPostHandler(&mocks.MockPostService{}, engagement, discardLogger())
		rec := serve(t, handler.AddComment, http.MethodPost, pattern, path, `{"content":"hi"}`, userID)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCreatePost(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name       string
		body       string
		userID     uuid.UUID
		wantStatus int
	}{
		{"created", `{"image_url":"https://img.example.com/a.jpg","caption":"sunset"}`, userID, http.StatusCreated},
		{"missing image", `{"caption":"sunset"}`, userID, http.StatusBadRequest},
		{"trailing garbage", `{"image_url":"a.jpg"}{}`, userID, http.StatusBadRequest},
		{"unauthenticated", `{"image_url":"a.jpg"}`, uuid.Nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			handler := NewPostHandler(&mocks.MockPostService{}, &mocks.MockEngagementService{}, discardLogger())

			rec := serve(t, handler.CreatePost, http.MethodPost, "/api/posts", "/api/posts", tt.body, tt.userID)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusCreated {
				var post domain.Post
				decodeBody(t, rec, &post)
				assert.Equal(t, userID, post.UserID)
				assert.Equal(t, "sunset", post.Caption)
				assert.Equal(t, 0, post.Likes.Len())
			}
		})
	}
}

func TestFeed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", http.StatusOK, service.DefaultFeedLimit, 0},
		{"explicit paging", "?limit=5&offset=10", http.StatusOK, 5, 10},
		{"non-numeric limit", "?limit=abc", http.StatusBadRequest, 0, 0},
		{"negative offset", "?offset=-1", http.StatusBadRequest, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotLimit, gotOffset := -1, -1
			posts := &mocks.MockPostService{
				FeedFn: func(_ context.Context, limit, offset int) ([]domain.FeedPost, error) {
					gotLimit, gotOffset = limit, offset
					return []domain.FeedPost{}, nil
				},
			}
			handler := NewPostHandler(posts, &mocks.MockEngagementService{}, discardLogger())

			rec := serve(t, handler.Feed, http.MethodGet, "/api/posts/feed", "/api/posts/feed"+tt.query, "", uuid.New())

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				assert.Equal(t, -1, gotLimit, "service must not be called")
				return
			}
			assert.Equal(t, tt.wantLimit, gotLimit)
			assert.Equal(t, tt.wantOffset, gotOffset)

			var body []json.RawMessage
			decodeBody(t, rec, &body)
			assert.NotNil(t, body)
		})
	}
}
