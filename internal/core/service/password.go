package service

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/serverapp/account-api/internal/core/domain"
)

// BcryptHasher implements ports.PasswordHasher on top of bcrypt. Every Hash
// call draws a fresh salt, so equal plaintexts yield distinct hashes that all
// verify.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost. Costs outside the
// bcrypt range fall back to the library default.
func NewBcryptHasher(cost int) BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return BcryptHasher{cost: cost}
}

func (h BcryptHasher) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches hash. A malformed hash verifies
// false rather than erroring; an empty hash means the stored record is broken
// and fails fast with domain.ErrDataIntegrity.
func (h BcryptHasher) Verify(plaintext, hash string) (bool, error) {
	if hash == "" {
		return false, fmt.Errorf("verify password: empty hash: %w", domain.ErrDataIntegrity)
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		// Undecodable hash: treat as a mismatch, never as a crash.
		return false, nil
	}
}
