package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProfileUser is the credential-free view of a user returned by profile
// lookups, with friends resolved to display projections.
type ProfileUser struct {
	ID             uuid.UUID     `json:"id"`
	Username       string        `json:"username"`
	Email          string        `json:"email"`
	Description    string        `json:"description"`
	ProfilePicture string        `json:"profile_picture"`
	Friends        []UserSummary `json:"friends"`
	CreatedAt      time.Time     `json:"created_at"`
}

// Profile is a user together with their posts, newest first.
type Profile struct {
	User  ProfileUser `json:"user"`
	Posts []*Post     `json:"posts"`
}

// NewProfileUser builds the credential-free view of u. friends must already
// be resolved; a nil slice is normalized to empty.
func NewProfileUser(u *User, friends []UserSummary) ProfileUser {
	if friends == nil {
		friends = []UserSummary{}
	}
	return ProfileUser{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Description:    u.Description,
		ProfilePicture: u.ProfilePicture,
		Friends:        friends,
		CreatedAt:      u.CreatedAt,
	}
}
