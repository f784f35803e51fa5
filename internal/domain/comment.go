package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxCommentLength bounds comment content.
const MaxCommentLength = 2000

// ErrEmptyContent is returned when a comment has no text.
var ErrEmptyContent = fmt.Errorf("%w: content cannot be empty", ErrValidation)

// Comment is a text reply to a post.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	UserID    uuid.UUID `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentView is a comment with its author resolved.
type CommentView struct {
	ID        uuid.UUID   `json:"id"`
	Content   string      `json:"content"`
	Author    UserSummary `json:"author"`
	CreatedAt time.Time   `json:"created_at"`
}

// NewComment creates a Comment by userID on postID.
func NewComment(postID, userID uuid.UUID, content string) (*Comment, error) {
	c := &Comment{
		ID:        uuid.New(),
		PostID:    postID,
		UserID:    userID,
		Content:   strings.TrimSpace(content),
		CreatedAt: time.Now().UTC(),
	}
	if c.PostID == uuid.Nil || c.UserID == uuid.Nil {
		return nil, ErrInvalidID
	}
	if c.Content == "" {
		return nil, ErrEmptyContent
	}
	if utf8.RuneCountInString(c.Content) > MaxCommentLength {
		return nil, NewValidationError("content", "is too long", nil)
	}
	return c, nil
}
