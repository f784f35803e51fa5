package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lumo-api/internal/domain"
	"github.com/phrazzld/lumo-api/internal/mocks"
	"github.com/phrazzld/lumo-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	expiry := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "valid registration",
			body:       `{"username":"alice","email":"alice@example.com","password":"password123"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "invalid email",
			body:       `{"username":"alice","email":"invalid-email","password":"password123"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid email: invalid email format",
		},
		{
			name:       "password too short",
			body:       `{"username":"alice","email":"a2@example.com","password":"short"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid password: too short",
		},
		{
			name:       "missing username",
			body:       `{"email":"a3@example.com","password":"password123"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid username: required field",
		},
		{
			name:       "malformed json",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Invalid request format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			userStore := mocks.NewMockUserStore()
			jwtService := &mocks.MockJWTService{Token: "access-token", RefreshToken: "refresh-token", Expiry: expiry}
			handler := NewAuthHandler(userStore, jwtService, &mocks.MockPasswordVerifier{ShouldSucceed: true}, discardLogger())

			rec := serve(t, handler.Register, http.MethodPost, "/api/auth/register", "/api/auth/register", tt.body, uuid.Nil)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, errorMessage(t, rec))
				return
			}

			var resp AuthResponse
			decodeBody(t, rec, &resp)
			assert.NotEqual(t, uuid.Nil, resp.UserID)
			assert.Equal(t, "alice", resp.Username)
			assert.Equal(t, "alice@example.com", resp.Email)
			assert.Equal(t, "access-token", resp.AccessToken)
			assert.Equal(t, "refresh-token", resp.RefreshToken)
			assert.Equal(t, "2025-04-01T12:00:00Z", resp.ExpiresAt)

			stored, err := userStore.GetByID(context.Background(), resp.UserID)
			require.NoError(t, err)
			assert.NotEqual(t, "password123", stored.HashedPassword)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()
	userStore := mocks.NewMockUserStore()
	existing, err := domain.NewUser("bob", "bob@example.com", "password123")
	require.NoError(t, err)
	userStore.Put(existing)

	handler := NewAuthHandler(userStore, &mocks.MockJWTService{Token: "t"}, &mocks.MockPasswordVerifier{}, discardLogger())
	rec := serve(t, handler.Register, http.MethodPost, "/api/auth/register", "/api/auth/register",
		`{"username":"bobby","email":"bob@example.com","password":"password123"}`, uuid.Nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email already exists", errorMessage(t, rec))
}

func TestLogin(t *testing.T) {
	t.Parallel()

	user, err := domain.NewUser("carol", "carol@example.com", "password123")
	require.NoError(t, err)
	user.HashedPassword = "stored-hash"

	tests := []struct {
		name       string
		body       string
		verifier   *mocks.MockPasswordVerifier
		wantStatus int
	}{
		{
			name:       "valid login",
			body:       `{"email":"carol@example.com","password":"password123"}`,
			verifier:   &mocks.MockPasswordVerifier{ShouldSucceed: true},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown email",
			body:       `{"email":"nobody@example.com","password":"password123"}`,
			verifier:   &mocks.MockPasswordVerifier{ShouldSucceed: true},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "wrong password",
			body:       `{"email":"carol@example.com","password":"wrong-password"}`,
			verifier:   &mocks.MockPasswordVerifier{ShouldSucceed: false},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "missing password",
			body:       `{"email":"carol@example.com"}`,
			verifier:   &mocks.MockPasswordVerifier{ShouldSucceed: true},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			userStore := mocks.NewMockUserStore()
			userStore.Put(user)
			handler := NewAuthHandler(userStore, &mocks.MockJWTService{Token: "access-token"}, tt.verifier, discardLogger())

			rec := serve(t, handler.Login, http.MethodPost, "/api/auth/login", "/api/auth/login", tt.body, uuid.Nil)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				var resp AuthResponse
				decodeBody(t, rec, &resp)
				assert.Equal(t, user.ID, resp.UserID)
				assert.Equal(t, "access-token", resp.AccessToken)
				assert.Equal(t, "stored-hash", tt.verifier.CompareCalledWith.HashedPassword)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				// Unknown email and wrong password are indistinguishable.
				assert.Equal(t, "Invalid credentials", errorMessage(t, rec))
			}
		})
	}
}

func TestRefreshToken(t *testing.T) {
	t.Parallel()

	user, err := domain.NewUser("dave", "dave@example.com", "password123")
	require.NoError(t, err)

	tests := []struct {
		name       string
		body       string
		validate   func(ctx context.Context, token string) (*auth.Claims, error)
		genErr     error
		wantStatus int
	}{
		{
			name: "valid refresh token",
			body: `{"refresh_token":"good"}`,
			validate: func(ctx context.Context, token string) (*auth.Claims, error) {
				return &auth.Claims{UserID: user.ID, TokenType: auth.TokenTypeRefresh}, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing refresh token",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "expired refresh token",
			body: `{"refresh_token":"old"}`,
			validate: func(ctx context.Context, token string) (*auth.Claims, error) {
				return nil, auth.ErrExpiredRefreshToken
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "access token presented",
			body: `{"refresh_token":"access"}`,
			validate: func(ctx context.Context, token string) (*auth.Claims, error) {
				return nil, auth.ErrWrongTokenType
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "deleted account",
			body: `{"refresh_token":"orphan"}`,
			validate: func(ctx context.Context, token string) (*auth.Claims, error) {
				return &auth.Claims{UserID: uuid.New(), TokenType: auth.TokenTypeRefresh}, nil
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "token generation failure",
			body: `{"refresh_token":"good"}`,
			validate: func(ctx context.Context, token string) (*auth.Claims, error) {
				return &auth.Claims{UserID: user.ID, TokenType: auth.TokenTypeRefresh}, nil
			},
			genErr:     errors.New("signing failed"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			userStore := mocks.NewMockUserStore()
			userStore.Put(user)
			jwtService := &mocks.MockJWTService{
				ValidateRefreshTokenFn: tt.validate,
				Token:                  "new-access",
				RefreshToken:           "new-refresh",
				Err:                    tt.genErr,
			}
			handler := NewAuthHandler(userStore, jwtService, &mocks.MockPasswordVerifier{}, discardLogger())

			rec := serve(t, handler.RefreshToken, http.MethodPost, "/api/auth/refresh", "/api/auth/refresh", tt.body, uuid.Nil)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				var resp RefreshTokenResponse
				decodeBody(t, rec, &resp)
				assert.Equal(t, "new-access", resp.AccessToken)
				assert.Equal(t, "new-refresh", resp.RefreshToken)
				assert.NotEmpty(t, resp.ExpiresAt)
			}
			if tt.wantStatus == http.StatusInternalServerError {
				assert.Equal(t, "Failed to generate authentication token", errorMessage(t, rec))
			}
		})
	}
}
