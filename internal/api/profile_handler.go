package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lumo-api/internal/api/shared"
	"github.com/phrazzld/lumo-api/internal/platform/logger"
	"github.com/phrazzld/lumo-api/internal/service"
)

// ProfileHandler handles profile reads and edits and the user list.
type ProfileHandler struct {
	profileService service.ProfileService
	logger         *slog.Logger
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService service.ProfileService, logger *slog.Logger) *ProfileHandler {
	if profileService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("profileService cannot be nil for ProfileHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileHandler{
		profileService: profileService,
		logger:         logger.With(slog.String("component", "profile_handler")),
	}
}

// GetProfile handles GET /api/profile/{id}. Any authenticated user may
// read any profile.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	_, profileID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	profile, err := h.profileService.GetProfile(r.Context(), profileID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load profile")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/profile for the authenticated user.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	user, err := h.profileService.UpdateProfile(r.Context(), userID, req.ToDomain())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update profile")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, UpdateProfileResponse{
		Message: "Profile updated",
		User:    user,
	})
}

// ListUsers handles GET /api/users.
func (h *ProfileHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.profileService.ListUsers(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load users")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, users)
}
