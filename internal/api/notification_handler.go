package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lumo-api/internal/api/shared"
	"github.com/phrazzld/lumo-api/internal/platform/logger"
	"github.com/phrazzld/lumo-api/internal/service"
)

// NotificationHandler serves the caller's notifications.
type NotificationHandler struct {
	notificationService service.NotificationService
	logger              *slog.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationService service.NotificationService, logger *slog.Logger) *NotificationHandler {
	if notificationService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("notificationService cannot be nil for NotificationHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger.With(slog.String("component", "notification_handler")),
	}
}

// ListNotifications handles GET /api/notifications.
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	notifications, err := h.notificationService.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load notifications")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, notifications)
}
