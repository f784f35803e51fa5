package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/domain"
	"github.com/phrazzld/lumo-api/internal/platform/logger"
	"github.com/phrazzld/lumo-api/internal/platform/metrics"
	"github.com/phrazzld/lumo-api/internal/store"
	"github.com/phrazzld/lumo-api/internal/task"
	"golang.org/x/sync/errgroup"
)

// Notifier delivers notifications on a best-effort basis. Notify never
// fails the caller; the triggering mutation stands whatever happens to
// the notification.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, n *domain.Notification)
}

// NotificationService manages each user's notification sequence.
type NotificationService interface {
	Notifier

	// Append adds n to userID's notifications.
	// Returns store.ErrUserNotFound if the user does not exist.
	Append(ctx context.Context, userID uuid.UUID, n *domain.Notification) error

	// List returns userID's notifications in append order with senders and
	// posts resolved to display projections.
	// Returns store.ErrUserNotFound if the user does not exist.
	List(ctx context.Context, userID uuid.UUID) ([]domain.NotificationView, error)

	// HandleDeliveryFailure is the worker pool error handler for
	// notification delivery tasks. Other task types are ignored.
	HandleDeliveryFailure(t task.Task, err error)
}

// OutcomeRecorder counts notification delivery outcomes.
type OutcomeRecorder interface {
	NotificationOutcome(outcome string)
}

type noopRecorder struct{}

func (noopRecorder) NotificationOutcome(string) {}

// DeliveryConfig controls the retry behaviour of Notify.
type DeliveryConfig struct {
	// MaxAttempts is the total number of append attempts, the synchronous
	// one included. Values below 1 are treated as 1 (no retry).
	MaxAttempts int

	// RetryDelay is waited before each retried attempt.
	RetryDelay time.Duration
}

type notificationServiceImpl struct {
	users         store.UserStore
	posts         store.PostStore
	notifications store.NotificationStore
	queue         task.TaskQueueWriter
	recorder      OutcomeRecorder
	config        DeliveryConfig
	logger        *slog.Logger
}

// NewNotificationService creates a NotificationService. queue may be nil,
// in which case failed appends are dropped instead of retried. recorder
// may be nil.
func NewNotificationService(
	users store.UserStore,
	posts store.PostStore,
	notifications store.NotificationStore,
	queue task.TaskQueueWriter,
	recorder OutcomeRecorder,
	config DeliveryConfig,
	logger *slog.Logger,
) (NotificationService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if posts == nil {
		return nil, domain.NewValidationError("posts", "cannot be nil", domain.ErrValidation)
	}
	if notifications == nil {
		return nil, domain.NewValidationError("notifications", "cannot be nil", domain.ErrValidation)
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &notificationServiceImpl{
		users:         users,
		posts:         posts,
		notifications: notifications,
		queue:         queue,
		recorder:      recorder,
		config:        config,
		logger:        logger.With(slog.String("component", "notification_service")),
	}, nil
}

// Append implements NotificationService.Append.
func (s *notificationServiceImpl) Append(ctx context.Context, userID uuid.UUID, n *domain.Notification) error {
	if err := s.notifications.Append(ctx, userID, n); err != nil {
		return err
	}
	s.recorder.NotificationOutcome(metrics.OutcomeDelivered)
	return nil
}

// Notify implements Notifier.Notify.
func (s *notificationServiceImpl) Notify(ctx context.Context, userID uuid.UUID, n *domain.Notification) {
	err := s.Append(ctx, userID, n)
	if err == nil {
		return
	}

	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("recipient_id", userID.String()),
		slog.String("type", string(n.Type)),
	)
	s.recorder.NotificationOutcome(metrics.OutcomeFailed)
	log.Warn("notification append failed", slog.String("error", err.Error()))

	if !retryable(err) {
		s.drop(log, "permanent failure", err)
		return
	}
	s.schedule(log, newDeliveryTask(s, userID, n, 2))
}

// List implements NotificationService.List.
func (s *notificationServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]domain.NotificationView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	entries, err := s.notifications.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list notifications",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("notification", "list", "failed to load notifications", err)
	}

	var fromIDs, postIDs []uuid.UUID
	seenUsers := map[uuid.UUID]bool{}
	seenPosts := map[uuid.UUID]bool{}
	for _, n := range entries {
		if !seenUsers[n.FromUserID] {
			seenUsers[n.FromUserID] = true
			fromIDs = append(fromIDs, n.FromUserID)
		}
		if n.PostID != nil && !seenPosts[*n.PostID] {
			seenPosts[*n.PostID] = true
			postIDs = append(postIDs, *n.PostID)
		}
	}

	var (
		senders map[uuid.UUID]domain.UserSummary
		posts   map[uuid.UUID]domain.PostSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		senders, err = s.users.GetSummaries(gctx, fromIDs)
		return err
	})
	g.Go(func() error {
		var err error
		posts, err = s.posts.GetSummaries(gctx, postIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("failed to resolve notification references",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, NewServiceError("notification", "list", "failed to resolve references", err)
	}

	views := make([]domain.NotificationView, 0, len(entries))
	for _, n := range entries {
		from, ok := senders[n.FromUserID]
		if !ok {
			// Sender account is gone; keep the entry with a bare reference.
			from = domain.UserSummary{ID: n.FromUserID}
		}
		view := domain.NotificationView{
			Type:      n.Type,
			From:      from,
			CreatedAt: n.CreatedAt,
		}
		if n.PostID != nil {
			if p, ok := posts[*n.PostID]; ok {
				view.Post = &p
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// HandleDeliveryFailure implements NotificationService.HandleDeliveryFailure.
func (s *notificationServiceImpl) HandleDeliveryFailure(t task.Task, err error) {
	dt, ok := t.(*deliveryTask)
	if !ok {
		return
	}

	log := s.logger.With(
		slog.String("task_id", dt.id.String()),
		slog.String("recipient_id", dt.recipient.String()),
		slog.String("type", string(dt.notification.Type)),
		slog.Int("attempt", dt.attempt),
	)
	s.recorder.NotificationOutcome(metrics.OutcomeFailed)

	switch {
	case errors.Is(err, context.Canceled):
		s.drop(log, "shutting down", err)
	case !retryable(err):
		s.drop(log, "permanent failure", err)
	case dt.attempt >= s.config.MaxAttempts:
		s.drop(log, "attempts exhausted", err)
	default:
		s.schedule(log, newDeliveryTask(s, dt.recipient, dt.notification, dt.attempt+1))
	}
}

func (s *notificationServiceImpl) schedule(log *slog.Logger, t *deliveryTask) {
	if t.attempt > s.config.MaxAttempts {
		s.drop(log, "attempts exhausted", nil)
		return
	}
	if s.queue == nil {
		s.drop(log, "retries disabled", nil)
		return
	}
	if err := s.queue.Enqueue(t); err != nil {
		s.drop(log, "retry queue unavailable", err)
		return
	}
	s.recorder.NotificationOutcome(metrics.OutcomeRetried)
	log.Info("notification scheduled for retry", slog.Int("next_attempt", t.attempt))
}

func (s *notificationServiceImpl) drop(log *slog.Logger, reason string, err error) {
	s.recorder.NotificationOutcome(metrics.OutcomeDropped)
	attrs := []any{slog.String("reason", reason)}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	log.Error("notification dropped", attrs...)
}

// retryable reports whether another append could succeed. A missing
// recipient or an invalid notification will fail the same way every time.
func retryable(err error) bool {
	return !store.IsNotFoundError(err) && !domain.IsValidationError(err)
}

// deliveryTask retries one notification append after a delay.
type deliveryTask struct {
	id           uuid.UUID
	svc          *notificationServiceImpl
	recipient    uuid.UUID
	notification *domain.Notification
	attempt      int
}

func newDeliveryTask(
	svc *notificationServiceImpl,
	recipient uuid.UUID,
	n *domain.Notification,
	attempt int,
) *deliveryTask {
	return &deliveryTask{
		id:           uuid.New(),
		svc:          svc,
		recipient:    recipient,
		notification: n,
		attempt:      attempt,
	}
}

// ID implements task.Task.
func (t *deliveryTask) ID() uuid.UUID { return t.id }

// Type implements task.Task.
func (t *deliveryTask) Type() string { return task.TaskTypeNotificationDelivery }

// Execute implements task.Task.
func (t *deliveryTask) Execute(ctx context.Context) error {
	if d := t.svc.config.RetryDelay; d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	if err := t.svc.Append(ctx, t.recipient, t.notification); err != nil {
		return fmt.Errorf("delivery attempt %d: %w", t.attempt, err)
	}
	t.svc.logger.Info("notification delivered on retry",
		slog.String("recipient_id", t.recipient.String()),
		slog.Int("attempt", t.attempt))
	return nil
}
