package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrPastDate           = errors.New("check-in date is in the past")
	ErrInvalidRange       = errors.New("check-out must be after check-in")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("room is not available for the selected dates")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTransientStorage   = errors.New("storage temporarily unavailable")
)

// storageErr marks err as a retryable storage failure while keeping the
// driver error in the chain for logging.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrTransientStorage, err)
}

// invalid wraps ErrInvalidRequest with a field-level message.
func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, msg)
}
