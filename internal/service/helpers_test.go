package service_test

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/domain"
	"github.com/phrazzld/lumo-api/internal/mocks"
	"github.com/phrazzld/lumo-api/internal/task"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seedUser stores a user with the given friends and registers it as a
// notification recipient.
func seedUser(
	t *testing.T,
	users *mocks.MockUserStore,
	notes *mocks.MockNotificationStore,
	name string,
	friends ...uuid.UUID,
) *domain.User {
	t.Helper()
	u, err := domain.NewUser(name, name+"@example.com", "password123")
	require.NoError(t, err)
	u.Friends = domain.NewIDSet(friends...)
	users.Put(u)
	if notes != nil {
		notes.Known(u.ID)
	}
	return u
}

func seedPost(t *testing.T, posts *mocks.MockPostStore, owner uuid.UUID, createdAt time.Time) *domain.Post {
	t.Helper()
	p, err := domain.NewPost(owner, "https://img.example.com/"+uuid.NewString()+".jpg", "")
	require.NoError(t, err)
	p.CreatedAt = createdAt
	posts.Put(p)
	return p
}

// fakeQueue records enqueued tasks instead of running them.
type fakeQueue struct {
	mu     sync.Mutex
	tasks  []task.Task
	err    error
	closed bool
}

func (q *fakeQueue) Enqueue(t task.Task) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, t)
	return nil
}

func (q *fakeQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
}

func (q *fakeQueue) take() []task.Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.tasks
	q.tasks = nil
	return out
}

// countingRecorder tallies outcomes by name.
type countingRecorder struct {
	mu     sync.Mutex
	counts map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{counts: map[string]int{}}
}

func (r *countingRecorder) NotificationOutcome(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[outcome]++
}

func (r *countingRecorder) get(outcome string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[outcome]
}
