package domain

import (
	"errors"
	"time"
)

var ErrEmailTaken = errors.New("email address already in use")
var ErrPhoneTaken = errors.New("phone number already in use")
var ErrUsernameTaken = errors.New("username already in use")
var ErrAccountNotFound = errors.New("account not found")
var ErrInvalidCredentials = errors.New("invalid username or password")
var ErrInvalidToken = errors.New("invalid token")
var ErrMalformedToken = errors.New("token is missing required claims")
var ErrPasswordPolicy = errors.New("password does not meet the minimum length")
var ErrStoreUnavailable = errors.New("account store unavailable")
var ErrDataIntegrity = errors.New("account record is missing required fields")

// Account models a registered identity. Email, phone number and username are
// each globally unique; email and username are stored lowercased.
type Account struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	PhoneNumber      string     `json:"phone_number"`
	Username         string     `json:"username"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	PasswordHash     string     `json:"-"`
	EmailConfirmed   bool       `json:"email_confirmed"`
	FailedLoginCount int        `json:"-"`
	LockedUntil      *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Locked reports whether the account is inside an active lockout window.
// A lockout expires on its own once LockedUntil has passed.
func (a *Account) Locked(now time.Time) bool {
	return a.LockedUntil != nil && now.Before(*a.LockedUntil)
}

// TokenClaims is the identity payload carried by an issued token. Claims are
// a snapshot of the account at issuance time; they carry no mutable state.
type TokenClaims struct {
	SubjectID   string
	Email       string
	GivenName   string
	FamilyName  string
	DisplayName string
	PhoneNumber string
	Issuer      string
	Audience    string
	ExpiresAt   time.Time
}
