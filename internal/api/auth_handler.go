package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/api/shared"
	"github.com/phrazzld/lumo-api/internal/domain"
	"github.com/phrazzld/lumo-api/internal/platform/logger"
	"github.com/phrazzld/lumo-api/internal/service/auth"
	"github.com/phrazzld/lumo-api/internal/store"
)

// AuthHandler handles registration, login and token refresh.
type AuthHandler struct {
	userStore        store.UserStore
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	logger           *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		userStore:        userStore,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		logger:           logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RegisterRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	user, err := domain.NewUser(req.Username, req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.userStore.Create(r.Context(), user); err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}
	log.Info("user registered", slog.String("user_id", user.ID.String()))

	h.respondWithTokens(w, r, http.StatusCreated, user)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req LoginRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid credentials", err,
				shared.WithElevatedLogLevel())
			return
		}
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid credentials", err,
			shared.WithElevatedLogLevel())
		return
	}

	h.respondWithTokens(w, r, http.StatusOK, user)
}

// RefreshToken handles POST /api/auth/refresh. The refresh token is
// rotated along with the access token.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req RefreshTokenRequest
	if !decodeAndValidate(w, r, &req, log) {
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, GetSafeErrorMessage(err), err,
			shared.WithElevatedLogLevel())
		return
	}

	// A deleted account cannot refresh its tokens.
	if _, err := h.userStore.GetByID(r.Context(), claims.UserID); err != nil {
		if store.IsNotFoundError(err) {
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid refresh token", err)
			return
		}
		HandleAPIError(w, r, err, "Failed to refresh token")
		return
	}

	access, refresh, expiresAt, err := h.issueTokens(r.Context(), claims.UserID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	})
}

func (h *AuthHandler) respondWithTokens(w http.ResponseWriter, r *http.Request, status int, user *domain.User) {
	access, refresh, expiresAt, err := h.issueTokens(r.Context(), user.ID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, status, AuthResponse{
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
	})
}

// issueTokens returns an access token, a refresh token and the access
// token's expiry.
func (h *AuthHandler) issueTokens(ctx context.Context, userID uuid.UUID) (string, string, string, error) {
	log := logger.FromContextOrDefault(ctx, h.logger).With(slog.String("user_id", userID.String()))

	access, err := h.jwtService.GenerateToken(ctx, userID)
	if err != nil {
		log.Error("failed to generate access token", slog.String("error", err.Error()))
		return "", "", "", err
	}
	refresh, err := h.jwtService.GenerateRefreshToken(ctx, userID)
	if err != nil {
		log.Error("failed to generate refresh token", slog.String("error", err.Error()))
		return "", "", "", err
	}
	return access, refresh, h.jwtService.AccessTokenExpiry().UTC().Format(time.RFC3339), nil
}
