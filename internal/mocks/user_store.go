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

// MockUserStore implements store.UserStore in memory for testing.
type MockUserStore struct {
	CreateFn        func(ctx context.Context, user *domain.User) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn    func(ctx context.Context, email string) (*domain.User, error)
	ListFn          func(ctx context.Context) ([]*domain.User, error)
	GetSummariesFn  func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.UserSummary, error)
	UpdateProfileFn func(ctx context.Context, user *domain.User) error
	AddFriendFn     func(ctx context.Context, userID, friendID uuid.UUID) (bool, error)
	RemoveFriendFn  func(ctx context.Context, userID, friendID uuid.UUID) (bool, error)

	mu    sync.Mutex
	users map[uuid.UUID]*domain.User

	// WithTxCalls counts WithTx invocations.
	WithTxCalls int
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates an empty store.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{users: make(map[uuid.UUID]*domain.User)}
}

// Put stores a copy of user, replacing any user with the same ID.
func (m *MockUserStore) Put(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = cloneUser(user)
}

// Friends returns the stored friend list of id, or nil if id is unknown.
func (m *MockUserStore) Friends(id uuid.UUID) []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u.Friends.IDs()
	}
	return nil
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Friends = domain.NewIDSet(u.Friends.IDs()...)
	return &c
}

// Create implements store.UserStore.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	user.HashedPassword = "hashed:" + user.Password
	user.Password = ""
	m.users[user.ID] = cloneUser(user)
	return nil
}

// GetByID implements store.UserStore.
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// GetByEmail implements store.UserStore.
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, store.ErrUserNotFound
}

// List implements store.UserStore.
func (m *MockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		c := cloneUser(u)
		c.Friends = domain.NewIDSet()
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// GetSummaries implements store.UserStore.
func (m *MockUserStore) GetSummaries(
	ctx context.Context,
	ids []uuid.UUID,
) (map[uuid.UUID]domain.UserSummary, error) {
	if m.GetSummariesFn != nil {
		return m.GetSummariesFn(ctx, ids)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[uuid.UUID]domain.UserSummary, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = u.Summary()
		}
	}
	return out, nil
}

// UpdateProfile implements store.UserStore.
func (m *MockUserStore) UpdateProfile(ctx context.Context, user *domain.User) error {
	if m.UpdateProfileFn != nil {
		return m.UpdateProfileFn(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	u.Username = user.Username
	u.Description = user.Description
	u.ProfilePicture = user.ProfilePicture
	u.UpdatedAt = user.UpdatedAt
	return nil
}

// AddFriend implements store.UserStore.
func (m *MockUserStore) AddFriend(ctx context.Context, userID, friendID uuid.UUID) (bool, error) {
	if m.AddFriendFn != nil {
		return m.AddFriendFn(ctx, userID, friendID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return false, store.ErrUserNotFound
	}
	if _, ok := m.users[friendID]; !ok {
		return false, store.ErrUserNotFound
	}
	return u.Friends.Add(friendID), nil
}

// RemoveFriend implements store.UserStore.
func (m *MockUserStore) RemoveFriend(ctx context.Context, userID, friendID uuid.UUID) (bool, error) {
	if m.RemoveFriendFn != nil {
		return m.RemoveFriendFn(ctx, userID, friendID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return false, nil
	}
	return u.Friends.Remove(friendID), nil
}

// WithTx implements store.UserStore. The mock has no transactions; the
// same store is returned.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	m.mu.Lock()
	m.WithTxCalls++
	m.mu.Unlock()
	return m
}
