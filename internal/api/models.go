package api

import (
	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/domain"
)

// RegisterRequest is the payload of POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the payload of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`

	// AccessToken authorizes API calls as a Bearer token.
	AccessToken string `json:"token"`

	// RefreshToken obtains a new token pair from /api/auth/refresh.
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the RFC 3339 expiry of AccessToken.
	ExpiresAt string `json:"expires_at"`
}

// RefreshTokenRequest is the payload of POST /api/auth/refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse carries a new token pair.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// UpdateProfileRequest is the payload of PUT /api/profile. Absent and
// empty fields are left unchanged; field rules are enforced by the domain.
type UpdateProfileRequest struct {
	Username       *string `json:"username"`
	Description    *string `json:"description"`
	ProfilePicture *string `json:"profile_picture"`
}

// ToDomain converts the request into a domain.ProfileUpdate.
func (r UpdateProfileRequest) ToDomain() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		Username:       r.Username,
		Description:    r.Description,
		ProfilePicture: r.ProfilePicture,
	}
}

// UpdateProfileResponse is returned by PUT /api/profile.
type UpdateProfileResponse struct {
	Message string              `json:"message"`
	User    *domain.ProfileUser `json:"user"`
}

// CreatePostRequest is the payload of POST /api/posts. The image itself is
// stored elsewhere; the post keeps its URL.
type CreatePostRequest struct {
	ImageURL string `json:"image_url" validate:"required,max=2048"`
	Caption  string `json:"caption"   validate:"max=2200"`
}

// CreateCommentRequest is the payload of POST /api/post/{postId}/comments.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}
