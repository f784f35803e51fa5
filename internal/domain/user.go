package domain

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field limits for user records.
const (
	MinUsernameLength    = 3
	MaxUsernameLength    = 30
	MinPasswordLength    = 8
	MaxPasswordLength    = 72 // bcrypt input limit
	MaxDescriptionLength = 500
	MaxReferenceLength   = 2048
)

// User validation errors.
var (
	ErrEmptyUserID      = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrEmptyEmail       = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrInvalidEmail     = fmt.Errorf("%w: invalid email format", ErrValidation)
	ErrInvalidUsername  = fmt.Errorf("%w: username must be 3-30 characters", ErrValidation)
	ErrPasswordTooShort = fmt.Errorf("%w: password must be at least 8 characters long", ErrValidation)
	ErrPasswordTooLong  = fmt.Errorf("%w: password must be at most 72 characters long", ErrValidation)
	ErrEmptyPassword    = fmt.Errorf("%w: password cannot be empty", ErrValidation)
	ErrSelfInFriends    = fmt.Errorf("%w: user cannot be their own friend", ErrValidation)
)

// User is a registered account. Friends holds the IDs of accepted friends in
// the order they were added; it never contains the user's own ID.
type User struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // plaintext, only set during registration
	HashedPassword string    `json:"-"`
	Description    string    `json:"description"`
	ProfilePicture string    `json:"profile_picture"`
	Friends        IDSet     `json:"friends"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserSummary is the public projection of a user embedded in other
// responses (friends, notification senders, post authors).
type UserSummary struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	ProfilePicture string    `json:"profile_picture"`
}

// NewUser creates a User with a fresh ID and timestamps. The plaintext password
// must be hashed by the store before the user is persisted.
func NewUser(username, email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Username:  strings.TrimSpace(username),
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if err := validateUsername(u.Username); err != nil {
		return err
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if _, err := mail.ParseAddress(u.Email); err != nil || strings.ContainsAny(u.Email, "<> ") {
		return ErrInvalidEmail
	}

	switch {
	case u.Password != "":
		if len(u.Password) < MinPasswordLength {
			return ErrPasswordTooShort
		}
		if len(u.Password) > MaxPasswordLength {
			return ErrPasswordTooLong
		}
	case u.HashedPassword == "":
		return ErrEmptyPassword
	}

	if utf8.RuneCountInString(u.Description) > MaxDescriptionLength {
		return NewValidationError("description", "is too long", nil)
	}
	if len(u.ProfilePicture) > MaxReferenceLength {
		return NewValidationError("profile_picture", "is too long", nil)
	}
	if u.Friends.Contains(u.ID) {
		return ErrSelfInFriends
	}
	return nil
}

// Summary returns the public projection of u.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, ProfilePicture: u.ProfilePicture}
}

func validateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < MinUsernameLength || n > MaxUsernameLength {
		return ErrInvalidUsername
	}
	return nil
}

// ProfileUpdate is a partial update of the editable profile fields. A nil
// field is left unchanged. An empty string is treated the same as nil, so a
// field cannot be cleared through an update.
type ProfileUpdate struct {
	Username       *string
	Description    *string
	ProfilePicture *string
}

// Normalize drops empty fields and trims whitespace from the username.
func (p ProfileUpdate) Normalize() ProfileUpdate {
	keep := func(s *string, trim bool) *string {
		if s == nil {
			return nil
		}
		v := *s
		if trim {
			v = strings.TrimSpace(v)
		}
		if v == "" {
			return nil
		}
		return &v
	}
	return ProfileUpdate{
		Username:       keep(p.Username, true),
		Description:    keep(p.Description, false),
		ProfilePicture: keep(p.ProfilePicture, false),
	}
}

// IsEmpty reports whether the update changes nothing.
func (p ProfileUpdate) IsEmpty() bool {
	return p.Username == nil && p.Description == nil && p.ProfilePicture == nil
}

// Validate checks the fields that are set.
func (p ProfileUpdate) Validate() error {
	if p.Username != nil {
		if err := validateUsername(*p.Username); err != nil {
			return err
		}
	}
	if p.Description != nil && utf8.RuneCountInString(*p.Description) > MaxDescriptionLength {
		return NewValidationError("description", "is too long", nil)
	}
	if p.ProfilePicture != nil && len(*p.ProfilePicture) > MaxReferenceLength {
		return NewValidationError("profile_picture", "is too long", nil)
	}
	return nil
}

// Apply copies the set fields onto u and bumps UpdatedAt.
func (p ProfileUpdate) Apply(u *User, now time.Time) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Description != nil {
		u.Description = *p.Description
	}
	if p.ProfilePicture != nil {
		u.ProfilePicture = *p.ProfilePicture
	}
	u.UpdatedAt = now
}

// IsValidationError reports whether err is any domain validation failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}
