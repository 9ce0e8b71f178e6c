package domain

import (
	"errors"
	"strings"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("email is already in use")
	ErrInvalidCredentials = errors.New("password or username is incorrect")
	ErrMissingCredentials = errors.New("missing credentials")
	ErrIncorrectPasscode  = errors.New("incorrect passcode")
	ErrMessageNotFound    = errors.New("message not found")
	ErrForbidden          = errors.New("unauthorized action")
	ErrSessionNotFound    = errors.New("session not found")
)

// ValidationError carries every user-facing input problem, in field order.
type ValidationError struct {
	Messages []string
}

func NewValidationError(msgs ...string) *ValidationError {
	return &ValidationError{Messages: msgs}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}
