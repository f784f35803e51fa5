package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies the event that produced a notification.
type NotificationType string

// Notification types.
const (
	NotificationLike    NotificationType = "like"
	NotificationComment NotificationType = "comment"
	NotificationFollow  NotificationType = "follow"
)

// Notification validation errors.
var (
	ErrInvalidNotificationType = fmt.Errorf("%w: invalid notification type", ErrValidation)
	ErrMissingPostReference    = fmt.Errorf("%w: notification requires a post", ErrValidation)
)

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationLike, NotificationComment, NotificationFollow:
		return true
	}
	return false
}

// Notification is an entry in a user's notification sequence. It is owned by
// the recipient and never modified after it is appended.
type Notification struct {
	Type       NotificationType `json:"type"`
	FromUserID uuid.UUID        `json:"from_user_id"`
	PostID     *uuid.UUID       `json:"post_id,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// NewNotification creates a notification from the given sender. postID is
// required for like and comment notifications and ignored when nil for follows.
func NewNotification(t NotificationType, from uuid.UUID, postID *uuid.UUID) (*Notification, error) {
	n := &Notification{
		Type:       t,
		FromUserID: from,
		PostID:     postID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Validate checks if the Notification has valid data.
func (n *Notification) Validate() error {
	if !n.Type.Valid() {
		return ErrInvalidNotificationType
	}
	if n.FromUserID == uuid.Nil {
		return NewValidationError("from_user_id", "cannot be empty", nil)
	}
	if (n.Type == NotificationLike || n.Type == NotificationComment) && n.PostID == nil {
		return ErrMissingPostReference
	}
	return nil
}

// NotificationView is a notification with its sender and post resolved to
// display projections. Post is nil for follows and for posts that no longer exist.
type NotificationView struct {
	Type      NotificationType `json:"type"`
	From      UserSummary      `json:"from"`
	Post      *PostSummary     `json:"post"`
	CreatedAt time.Time        `json:"created_at"`
}
