package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/domain"
)

// Delivery is one notification handed to a RecordingNotifier.
type Delivery struct {
	Recipient    uuid.UUID
	Notification *domain.Notification
}

// RecordingNotifier implements service.Notifier by recording every call.
type RecordingNotifier struct {
	mu         sync.Mutex
	deliveries []Delivery
}

// Notify records the delivery.
func (r *RecordingNotifier) Notify(ctx context.Context, userID uuid.UUID, n *domain.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries = append(r.deliveries, Delivery{Recipient: userID, Notification: n})
}

// Deliveries returns the recorded calls in order.
func (r *RecordingNotifier) Deliveries() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Delivery(nil), r.deliveries...)
}
