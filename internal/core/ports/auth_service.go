package ports

import (
	"context"

	"github.com/serverapp/account-api/internal/core/domain"
)

// RegisterInput carries the fields required to create a new account.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	PhoneNumber string
}

// AuthResult is returned on successful login or token refresh.
type AuthResult struct {
	FirstName string
	LastName  string
	Token     string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) error
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	RefreshToken(ctx context.Context, claims *domain.TokenClaims) (*AuthResult, error)
}

// PasswordHasher is the one-way credential hash used to store and verify
// passwords. Verify reports false for a mismatch or a malformed hash; an
// empty stored hash is a data-integrity violation and returns an error.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) (bool, error)
}

// TokenIssuer mints and parses signed bearer tokens. Parse reports a single
// domain.ErrInvalidToken for every verification failure so callers cannot
// distinguish a bad signature from a wrong issuer or an expired token.
type TokenIssuer interface {
	Issue(account *domain.Account) (string, error)
	Parse(token string) (*domain.TokenClaims, error)
}
