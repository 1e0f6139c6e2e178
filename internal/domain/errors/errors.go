package errors

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrInvalidState       = errors.New("already finalized")
	ErrWindowExpired      = errors.New("cancellation window expired")
	ErrPersistence        = errors.New("persistence failure")
	ErrMenuItemInUse      = errors.New("menu item in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var domainErrors = []error{
	ErrValidation,
	ErrNotFound,
	ErrInvalidState,
	ErrWindowExpired,
	ErrPersistence,
	ErrMenuItemInUse,
	ErrInvalidCredentials,
}

// Validation wraps a human readable reason into ErrValidation.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Persistence marks err as a store failure. Domain errors pass through unchanged
// so that rollbacks triggered by business rules keep their meaning.
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	if IsDomain(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

// IsDomain reports whether err matches one of the sentinel errors above.
func IsDomain(err error) bool {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
