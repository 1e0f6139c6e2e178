package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrMalformedHash is returned when a stored staff credential is not a bcrypt hash.
var ErrMalformedHash = errors.New("malformed password hash")

// PasswordHasher hashes and verifies the staff admin credential.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash string, password string) error
	Validate(hash string) error
}

// BcryptHasher stores staff credentials as bcrypt hashes.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher falls back to bcrypt.DefaultCost when cost is zero.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash encodes a plain admin password configured at startup.
func (h *BcryptHasher) Hash(password string) (string, error) {
	encoded, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(encoded), nil
}

// Compare returns ErrInvalidCredentials-compatible mismatch errors from bcrypt.
func (h *BcryptHasher) Compare(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// Validate checks that hash is a parseable bcrypt hash with a usable cost,
// so a broken ADMIN_PASSWORD_HASH is caught before any login attempt.
func (h *BcryptHasher) Validate(hash string) error {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return fmt.Errorf("%w: cost %d out of range", ErrMalformedHash, cost)
	}
	return nil
}
