package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/domain"
	"github.com/phrazzld/lumo-api/internal/store"
)

// MockPostStore implements store.PostStore in memory for testing.
type MockPostStore struct {
	CreateFn       func(ctx context.Context, post *domain.Post) error
	GetByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	GetSummariesFn func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.PostSummary, error)
	ListByUserFn   func(ctx context.Context, userID uuid.UUID) ([]*domain.Post, error)
	ListRecentFn   func(ctx context.Context, limit, offset int) ([]*domain.Post, error)
	AddLikeFn      func(ctx context.Context, postID, userID uuid.UUID) (bool, error)
	RemoveLikeFn   func(ctx context.Context, postID, userID uuid.UUID) (bool, error)

	mu    sync.Mutex
	posts map[uuid.UUID]*domain.Post
}

var _ store.PostStore = (*MockPostStore)(nil)

// NewMockPostStore creates an empty store.
func NewMockPostStore() *MockPostStore {
	return &MockPostStore{posts: make(map[uuid.UUID]*domain.Post)}
}

// Put stores a copy of post.
func (m *MockPostStore) Put(post *domain.Post) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posts[post.ID] = clonePost(post)
}

// Likes returns the stored like set of id, or nil if id is unknown.
func (m *MockPostStore) Likes(id uuid.UUID) []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.posts[id]; ok {
		return p.Likes.IDs()
	}
	return nil
}

func clonePost(p *domain.Post) *domain.Post {
	c := *p
	c.Likes = domain.NewIDSet(p.Likes.IDs()...)
	return &c
}

func (m *MockPostStore) sorted(keep func(*domain.Post) bool) []*domain.Post {
	out := []*domain.Post{}
	for _, p := range m.posts {
		if keep(p) {
			out = append(out, clonePost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Create implements store.PostStore.
func (m *MockPostStore) Create(ctx context.Context, post *domain.Post) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, post)
	}
	m.Put(post)
	return nil
}

// GetByID implements store.PostStore.
func (m *MockPostStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, store.ErrPostNotFound
	}
	return clonePost(p), nil
}

// GetSummaries implements store.PostStore.
func (m *MockPostStore) GetSummaries(
	ctx context.Context,
	ids []uuid.UUID,
) (map[uuid.UUID]domain.PostSummary, error) {
	if m.GetSummariesFn != nil {
		return m.GetSummariesFn(ctx, ids)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uuid.UUID]domain.PostSummary, len(ids))
	for _, id := range ids {
		if p, ok := m.posts[id]; ok {
			out[id] = p.Summary()
		}
	}
	return out, nil
}

// ListByUser implements store.PostStore.
func (m *MockPostStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Post, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(p *domain.Post) bool { return p.UserID == userID }), nil
}

// ListRecent implements store.PostStore.
func (m *MockPostStore) ListRecent(ctx context.Context, limit, offset int) ([]*domain.Post, error) {
	if m.ListRecentFn != nil {
		return m.ListRecentFn(ctx, limit, offset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.sorted(func(*domain.Post) bool { return true })
	if offset >= len(all) {
		return []*domain.Post{}, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

// AddLike implements store.PostStore.
func (m *MockPostStore) AddLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	if m.AddLikeFn != nil {
		return m.AddLikeFn(ctx, postID, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok {
		return false, store.ErrPostNotFound
	}
	return p.Likes.Add(userID), nil
}

// RemoveLike implements store.PostStore.
func (m *MockPostStore) RemoveLike(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	if m.RemoveLikeFn != nil {
		return m.RemoveLikeFn(ctx, postID, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[postID]
	if !ok {
		return false, nil
	}
	return p.Likes.Remove(userID), nil
}

// WithTx implements store.PostStore.
func (m *MockPostStore) WithTx(tx *sql.Tx) store.PostStore {
	return m
}

// MockCommentStore implements store.CommentStore in memory for testing.
type MockCommentStore struct {
	CreateFn      func(ctx context.Context, comment *domain.Comment) error
	ListByPostsFn func(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]*domain.Comment, error)

	mu       sync.Mutex
	comments []*domain.Comment
}

var _ store.CommentStore = (*MockCommentStore)(nil)

// NewMockCommentStore creates an empty store.
func NewMockCommentStore() *MockCommentStore {
	return &MockCommentStore{}
}

// Create implements store.CommentStore.
func (m *MockCommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, comment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *comment
	m.comments = append(m.comments, &c)
	return nil
}

// ListByPosts implements store.CommentStore.
func (m *MockCommentStore) ListByPosts(
	ctx context.Context,
	postIDs []uuid.UUID,
) (map[uuid.UUID][]*domain.Comment, error) {
	if m.ListByPostsFn != nil {
		return m.ListByPostsFn(ctx, postIDs)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	want := make(map[uuid.UUID]bool, len(postIDs))
	for _, id := range postIDs {
		want[id] = true
	}
	out := make(map[uuid.UUID][]*domain.Comment)
	for _, c := range m.comments {
		if want[c.PostID] {
			cc := *c
			out[c.PostID] = append(out[c.PostID], &cc)
		}
	}
	return out, nil
}
