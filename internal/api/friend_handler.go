package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lumo-api/internal/api/shared"
	"github.com/phrazzld/lumo-api/internal/platform/logger"
	"github.com/phrazzld/lumo-api/internal/service"
)

// FriendHandler handles friend graph requests.
type FriendHandler struct {
	friendService service.FriendService
	logger        *slog.Logger
}

// NewFriendHandler creates a new FriendHandler.
func NewFriendHandler(friendService service.FriendService, logger *slog.Logger) *FriendHandler {
	if friendService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("friendService cannot be nil for FriendHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FriendHandler{
		friendService: friendService,
		logger:        logger.With(slog.String("component", "friend_handler")),
	}
}

// AddFriend handles POST /api/friend/{friendId}.
func (h *FriendHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, friendID, ok := handleUserIDAndPathUUID(w, r, "friendId", log)
	if !ok {
		return
	}

	if err := h.friendService.AddFriend(r.Context(), userID, friendID); err != nil {
		HandleAPIError(w, r, err, "Failed to add friend")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, "Friend added")
}

// RemoveFriend handles DELETE /api/friend/{friendId}.
func (h *FriendHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, friendID, ok := handleUserIDAndPathUUID(w, r, "friendId", log)
	if !ok {
		return
	}

	if err := h.friendService.RemoveFriend(r.Context(), userID, friendID); err != nil {
		HandleAPIError(w, r, err, "Failed to remove friend")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, "Friend removed")
}
