package usecase

import (
	"context"
	"crypto/subtle"
	"strings"

	domainErrors "github.com/polkiloo/canteen/internal/domain/errors"
	pkgAuth "github.com/polkiloo/canteen/internal/pkg/auth"
)

// AdminCredentials is the single staff account.
type AdminCredentials struct {
	Username     string
	PasswordHash string
}

// AuthUseCase checks staff credentials and manages admin tokens.
type AuthUseCase struct {
	creds  AdminCredentials
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(creds AdminCredentials, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{creds: creds, hasher: hasher, tokens: strategy}
}

// Authenticate validates credentials and returns an admin token.
func (u *AuthUseCase) Authenticate(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" || u.creds.PasswordHash == "" {
		return "", domainErrors.ErrInvalidCredentials
	}

	userMatch := subtle.ConstantTimeCompare([]byte(username), []byte(u.creds.Username)) == 1
	passErr := u.hasher.Compare(u.creds.PasswordHash, password)
	if !userMatch || passErr != nil {
		return "", domainErrors.ErrInvalidCredentials
	}

	return u.tokens.IssueToken(username)
}

// ParseToken resolves the principal carried by token.
func (u *AuthUseCase) ParseToken(token string) (pkgAuth.Principal, error) {
	if token == "" {
		return pkgAuth.Principal{}, pkgAuth.ErrInvalidToken
	}
	subject, err := u.tokens.ParseToken(token)
	if err != nil {
		return pkgAuth.Principal{}, err
	}
	if subject != u.creds.Username {
		return pkgAuth.Principal{}, pkgAuth.ErrInvalidToken
	}
	return pkgAuth.Principal{Subject: subject, Role: pkgAuth.RoleAdmin}, nil
}
