package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/serverapp/account-api/internal/core/domain"
)

const defaultExpiresInDays = 1

// JWTSettings is the process-wide token configuration, loaded once at startup.
type JWTSettings struct {
	Key           string
	Issuer        string
	Audience      string
	ExpiresInDays int
}

// tokenClaims is the wire shape of an issued token.
type tokenClaims struct {
	Email       string `json:"email"`
	GivenName   string `json:"given_name"`
	FamilyName  string `json:"family_name"`
	DisplayName string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	jwt.RegisteredClaims
}

// JWTIssuer implements ports.TokenIssuer with HMAC-SHA-512 signed JWTs.
// The signing key is read-only after construction, so the issuer is safe for
// concurrent use without locking.
type JWTIssuer struct {
	settings JWTSettings
	key      []byte
	now      func() time.Time
}

func NewTokenIssuer(settings JWTSettings) *JWTIssuer {
	if settings.ExpiresInDays <= 0 {
		settings.ExpiresInDays = defaultExpiresInDays
	}
	return &JWTIssuer{
		settings: settings,
		key:      []byte(settings.Key),
		now:      time.Now,
	}
}

// Issue builds and signs a token from the account's current state. A missing
// email or phone number is a data-integrity violation, not a business error.
func (i *JWTIssuer) Issue(account *domain.Account) (string, error) {
	if account.Email == "" {
		return "", fmt.Errorf("issue token: email is required: %w", domain.ErrDataIntegrity)
	}
	if account.PhoneNumber == "" {
		return "", fmt.Errorf("issue token: phone number is required: %w", domain.ErrDataIntegrity)
	}

	now := i.now().UTC()
	claims := tokenClaims{
		Email:       account.Email,
		GivenName:   account.FirstName,
		FamilyName:  account.LastName,
		DisplayName: account.FirstName + " " + account.LastName,
		PhoneNumber: account.PhoneNumber,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			Issuer:    i.settings.Issuer,
			Audience:  jwt.ClaimStrings{i.settings.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.AddDate(0, 0, i.settings.ExpiresInDays)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

// Parse verifies the signature, issuer, audience and expiry of a presented
// token and recovers its claims. All verification failures collapse into
// domain.ErrInvalidToken so the caller gets no oracle about which check
// failed.
func (i *JWTIssuer) Parse(token string) (*domain.TokenClaims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (interface{}, error) {
			if t.Method.Alg() != jwt.SigningMethodHS512.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return i.key, nil
		},
		jwt.WithIssuer(i.settings.Issuer),
		jwt.WithAudience(i.settings.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return i.now() }),
	)
	if err != nil || !parsed.Valid {
		return nil, domain.ErrInvalidToken
	}

	out := &domain.TokenClaims{
		SubjectID:   claims.Subject,
		Email:       claims.Email,
		GivenName:   claims.GivenName,
		FamilyName:  claims.FamilyName,
		DisplayName: claims.DisplayName,
		PhoneNumber: claims.PhoneNumber,
		Issuer:      claims.Issuer,
		ExpiresAt:   claims.ExpiresAt.Time,
	}
	if len(claims.Audience) > 0 {
		out.Audience = claims.Audience[0]
	}
	return out, nil
}
