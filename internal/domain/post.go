package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxCaptionLength bounds post captions.
const MaxCaptionLength = 2200

// Post validation errors.
var (
	ErrEmptyImageURL  = fmt.Errorf("%w: image URL cannot be empty", ErrValidation)
	ErrCaptionTooLong = fmt.Errorf("%w: caption is too long", ErrValidation)
)

// Post is an image post. ImageURL is an opaque reference supplied by the
// client. Likes holds the IDs of users who liked the post, each at most once.
type Post struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ImageURL  string    `json:"image_url"`
	Caption   string    `json:"caption"`
	Likes     IDSet     `json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}

// PostSummary is the projection of a post embedded in notifications.
type PostSummary struct {
	ID       uuid.UUID `json:"id"`
	ImageURL string    `json:"image_url"`
}

// NewPost creates a Post owned by userID.
func NewPost(userID uuid.UUID, imageURL, caption string) (*Post, error) {
	post := &Post{
		ID:        uuid.New(),
		UserID:    userID,
		ImageURL:  strings.TrimSpace(imageURL),
		Caption:   caption,
		CreatedAt: time.Now().UTC(),
	}
	if err := post.Validate(); err != nil {
		return nil, err
	}
	return post, nil
}

// Validate checks if the Post has valid data.
func (p *Post) Validate() error {
	if p.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", nil)
	}
	if p.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if p.ImageURL == "" {
		return ErrEmptyImageURL
	}
	if len(p.ImageURL) > MaxReferenceLength {
		return NewValidationError("image_url", "is too long", nil)
	}
	if utf8.RuneCountInString(p.Caption) > MaxCaptionLength {
		return ErrCaptionTooLong
	}
	return nil
}

// Summary returns the notification projection of p.
func (p *Post) Summary() PostSummary {
	return PostSummary{ID: p.ID, ImageURL: p.ImageURL}
}

// FeedPost is a post as rendered in the feed, with its author and comments
// resolved to display projections.
type FeedPost struct {
	*Post
	Author   UserSummary   `json:"author"`
	Comments []CommentView `json:"comments"`
}
