// Package common holds the error vocabulary, retry helper and logger setup
// shared by every layer of hana.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrNotFound means no record has the requested id.
	ErrNotFound = errors.New("not found")
	// ErrProviderUnavailable means the advisory provider could not be reached.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrMissingConfig means a required setting was not given.
	ErrMissingConfig = errors.New("missing configuration")
	// ErrInvalidConfig means a setting was given with an unusable value.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError carries a message meant for the terminal next to the cause
// meant for logs.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err == nil {
		return e.UserMessage
	}
	return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError pairs a terminal message with its cause.
func NewUserError(userMessage string, err error) error {
	return &UserError{UserMessage: userMessage, Err: err}
}

// Friendly returns the message to print for err: the outermost UserError
// message when there is one, the full error text otherwise.
func Friendly(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.UserMessage
	}
	return err.Error()
}

// IsRetryable reports whether err is worth another attempt. Explicit
// Retryable/Permanent marks win over the sentinel checks.
func IsRetryable(err error) bool {
	var marked *RetryableError
	if errors.As(err, &marked) {
		return marked.Retryable
	}

	switch {
	case errors.Is(err, ErrRateLimit),
		errors.Is(err, ErrProviderUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return true
	default:
		return false
	}
}
