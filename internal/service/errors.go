package service

import (
	"errors"
	"fmt"
)

// Service errors - sentinel errors used across service implementations.
// Callers check them with errors.Is; the API layer maps ErrConflict and
// everything wrapping it to HTTP 400.
var (
	// ErrConflict indicates the requested change contradicts the current
	// state of the relationship or like set.
	ErrConflict = errors.New("conflict")

	// ErrAlreadyFriends is returned when the friend is already in the
	// caller's friend list.
	ErrAlreadyFriends = fmt.Errorf("%w: already friends", ErrConflict)

	// ErrNotFriends is returned when removing someone who is not in the
	// caller's friend list.
	ErrNotFriends = fmt.Errorf("%w: not friends", ErrConflict)

	// ErrCannotFriendSelf is returned when a user tries to befriend themselves.
	ErrCannotFriendSelf = fmt.Errorf("%w: cannot add yourself as a friend", ErrConflict)

	// ErrAlreadyLiked is returned when the user already likes the post.
	ErrAlreadyLiked = fmt.Errorf("%w: post already liked", ErrConflict)

	// ErrNotLiked is returned when unliking a post the user does not like.
	ErrNotLiked = fmt.Errorf("%w: post not liked", ErrConflict)
)

// IsConflictError reports whether err is any relationship or like conflict.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict)
}

// ServiceError carries the failing operation alongside an unexpected error.
type ServiceError struct {
	Service   string
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
