package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/domain"
	"github.com/phrazzld/lumo-api/internal/service"
	"github.com/phrazzld/lumo-api/internal/task"
)

// MockFriendService implements service.FriendService for handler tests.
type MockFriendService struct {
	AddFriendFn    func(ctx context.Context, userID, friendID uuid.UUID) error
	RemoveFriendFn func(ctx context.Context, userID, friendID uuid.UUID) error
}

var _ service.FriendService = (*MockFriendService)(nil)

// AddFriend implements service.FriendService.
func (m *MockFriendService) AddFriend(ctx context.Context, userID, friendID uuid.UUID) error {
	if m.AddFriendFn != nil {
		return m.AddFriendFn(ctx, userID, friendID)
	}
	return nil
}

// RemoveFriend implements service.FriendService.
func (m *MockFriendService) RemoveFriend(ctx context.Context, userID, friendID uuid.UUID) error {
	if m.RemoveFriendFn != nil {
		return m.RemoveFriendFn(ctx, userID, friendID)
	}
	return nil
}

// MockEngagementService implements service.EngagementService for handler tests.
type MockEngagementService struct {
	LikePostFn   func(ctx context.Context, postID, userID uuid.UUID) (*domain.Post, error)
	UnlikePostFn func(ctx context.Context, postID, userID uuid.UUID) (*domain.Post, error)
	AddCommentFn func(ctx context.Context, postID, userID uuid.UUID, content string) (*domain.Comment, error)
}

var _ service.EngagementService = (*MockEngagementService)(nil)

// LikePost implements service.EngagementService.
func (m *MockEngagementService) LikePost(ctx context.Context, postID, userID uuid.UUID) (*domain.Post, error) {
	if m.LikePostFn != nil {
		return m.LikePostFn(ctx, postID, userID)
	}
	return &domain.Post{ID: postID, Likes: domain.NewIDSet(userID)}, nil
}

// UnlikePost implements service.EngagementService.
func (m *MockEngagementService) UnlikePost(ctx context.Context, postID, userID uuid.UUID) (*domain.Post, error) {
	if m.UnlikePostFn != nil {
		return m.UnlikePostFn(ctx, postID, userID)
	}
	return &domain.Post{ID: postID, Likes: domain.NewIDSet()}, nil
}

// AddComment implements service.EngagementService.
func (m *MockEngagementService) AddComment(
	ctx context.Context,
	postID, userID uuid.UUID,
	content string,
) (*domain.Comment, error) {
	if m.AddCommentFn != nil {
		return m.AddCommentFn(ctx, postID, userID, content)
	}
	return domain.NewComment(postID, userID, content)
}

// MockNotificationService implements service.NotificationService for handler tests.
type MockNotificationService struct {
	AppendFn func(ctx context.Context, userID uuid.UUID, n *domain.Notification) error
	ListFn   func(ctx context.Context, userID uuid.UUID) ([]domain.NotificationView, error)

	RecordingNotifier
}

var _ service.NotificationService = (*MockNotificationService)(nil)

// Append implements service.NotificationService.
func (m *MockNotificationService) Append(ctx context.Context, userID uuid.UUID, n *domain.Notification) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, userID, n)
	}
	return nil
}

// List implements service.NotificationService.
func (m *MockNotificationService) List(ctx context.Context, userID uuid.UUID) ([]domain.NotificationView, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, userID)
	}
	return []domain.NotificationView{}, nil
}

// HandleDeliveryFailure implements service.NotificationService.
func (m *MockNotificationService) HandleDeliveryFailure(task.Task, error) {}

// MockProfileService implements service.ProfileService for handler tests.
type MockProfileService struct {
	GetProfileFn    func(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	UpdateProfileFn func(ctx context.Context, userID uuid.UUID, update domain.ProfileUpdate) (*domain.ProfileUser, error)
	ListUsersFn     func(ctx context.Context) ([]domain.ProfileUser, error)
}

var _ service.ProfileService = (*MockProfileService)(nil)

// GetProfile implements service.ProfileService.
func (m *MockProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	if m.GetProfileFn != nil {
		return m.GetProfileFn(ctx, userID)
	}
	return &domain.Profile{User: domain.ProfileUser{ID: userID, Friends: []domain.UserSummary{}}, Posts: []*domain.Post{}}, nil
}

// UpdateProfile implements service.ProfileService.
func (m *MockProfileService) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	update domain.ProfileUpdate,
) (*domain.ProfileUser, error) {
	if m.UpdateProfileFn != nil {
		return m.UpdateProfileFn(ctx, userID, update)
	}
	return &domain.ProfileUser{ID: userID, Friends: []domain.UserSummary{}}, nil
}

// ListUsers implements service.ProfileService.
func (m *MockProfileService) ListUsers(ctx context.Context) ([]domain.ProfileUser, error) {
	if m.ListUsersFn != nil {
		return m.ListUsersFn(ctx)
	}
	return []domain.ProfileUser{}, nil
}

// MockPostService implements service.PostService for handler tests.
type MockPostService struct {
	CreatePostFn func(ctx context.Context, userID uuid.UUID, imageURL, caption string) (*domain.Post, error)
	FeedFn       func(ctx context.Context, limit, offset int) ([]domain.FeedPost, error)
}

var _ service.PostService = (*MockPostService)(nil)

// CreatePost implements service.PostService.
func (m *MockPostService) CreatePost(
	ctx context.Context,
	userID uuid.UUID,
	imageURL, caption string,
) (*domain.Post, error) {
	if m.CreatePostFn != nil {
		return m.CreatePostFn(ctx, userID, imageURL, caption)
	}
	return domain.NewPost(userID, imageURL, caption)
}

// Feed implements service.PostService.
func (m *MockPostService) Feed(ctx context.Context, limit, offset int) ([]domain.FeedPost, error) {
	if m.FeedFn != nil {
		return m.FeedFn(ctx, limit, offset)
	}
	return []domain.FeedPost{}, nil
}
