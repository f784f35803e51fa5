package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/domain"
	"github.com/phrazzld/lumo-api/internal/store"
)

// MockNotificationStore implements store.NotificationStore in memory.
// Recipients must be registered with Known unless AppendFn is set.
type MockNotificationStore struct {
	AppendFn     func(ctx context.Context, userID uuid.UUID, n *domain.Notification) error
	ListByUserFn func(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)

	mu      sync.Mutex
	known   map[uuid.UUID]bool
	entries map[uuid.UUID][]*domain.Notification
}

var _ store.NotificationStore = (*MockNotificationStore)(nil)

// NewMockNotificationStore creates a store that accepts appends for the
// given recipients.
func NewMockNotificationStore(known ...uuid.UUID) *MockNotificationStore {
	m := &MockNotificationStore{
		known:   make(map[uuid.UUID]bool),
		entries: make(map[uuid.UUID][]*domain.Notification),
	}
	m.Known(known...)
	return m
}

// Known registers recipients that exist.
func (m *MockNotificationStore) Known(ids ...uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		m.known[id] = true
	}
}

// Entries returns what has been appended for userID.
func (m *MockNotificationStore) Entries(userID uuid.UUID) []*domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.Notification(nil), m.entries[userID]...)
}

// Append implements store.NotificationStore.
func (m *MockNotificationStore) Append(ctx context.Context, userID uuid.UUID, n *domain.Notification) error {
	if m.AppendFn != nil {
		return m.AppendFn(ctx, userID, n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.known[userID] {
		return store.ErrUserNotFound
	}
	m.entries[userID] = append(m.entries[userID], n)
	return nil
}

// ListByUser implements store.NotificationStore.
func (m *MockNotificationStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	out := m.Entries(userID)
	if out == nil {
		out = []*domain.Notification{}
	}
	return out, nil
}
