package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/serverapp/account-api/internal/core/domain"
	"github.com/serverapp/account-api/internal/core/ports"
)

// AuditSink receives audit events from the auth flow. Implementations must
// not block: recording an attempt never delays or fails the attempt itself.
type AuditSink interface {
	Record(event domain.AuthEvent)
}

const defaultMinPasswordLength = 8

// AuthService implements registration, login and token refresh. It holds no
// mutable state of its own; all per-account state lives in the repository.
type AuthService struct {
	accounts       ports.AccountRepository
	hasher         ports.PasswordHasher
	tokens         ports.TokenIssuer
	lockout        LockoutPolicy
	audit          AuditSink
	minPasswordLen int
	log            zerolog.Logger
	now            func() time.Time
}

func NewAuthService(
	accounts ports.AccountRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	lockout LockoutPolicy,
	audit AuditSink,
	minPasswordLen int,
	log zerolog.Logger,
) *AuthService {
	if minPasswordLen <= 0 {
		minPasswordLen = defaultMinPasswordLength
	}
	return &AuthService{
		accounts:       accounts,
		hasher:         hasher,
		tokens:         tokens,
		lockout:        lockout,
		audit:          audit,
		minPasswordLen: minPasswordLen,
		log:            log,
		now:            time.Now,
	}
}

// Register creates a new account after the email and phone uniqueness
// pre-checks pass. It does not log the caller in; the response is a plain
// acknowledgment. The email is marked confirmed at creation and login never
// gates on confirmation (no confirmation mail is sent).
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) error {
	if len(in.Password) < s.minPasswordLen {
		return fmt.Errorf("register: %w", domain.ErrPasswordPolicy)
	}

	email := strings.ToLower(in.Email)

	// 1. Uniqueness pre-checks. Registration discloses existence on purpose;
	// login never does.
	taken, err := s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if taken {
		return domain.ErrEmailTaken
	}

	taken, err = s.accounts.ExistsByPhone(ctx, in.PhoneNumber)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if taken {
		return domain.ErrPhoneTaken
	}

	// 2. Normalize and hash. The username is the lowercased email.
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	account := &domain.Account{
		Email:          email,
		PhoneNumber:    in.PhoneNumber,
		Username:       email,
		FirstName:      strings.ToLower(in.FirstName),
		LastName:       strings.ToLower(in.LastName),
		PasswordHash:   hash,
		EmailConfirmed: true,
		CreatedAt:      s.now().UTC(),
	}

	// 3. Create re-checks uniqueness at the storage layer, so a concurrent
	// registration that won the race still surfaces as a taken field.
	created, err := s.accounts.Create(ctx, account)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	s.record(domain.AuthEvent{Kind: domain.AuthEventRegistered, Username: created.Username, Email: created.Email})
	s.log.Info().Str("username", created.Username).Msg("account registered")
	return nil
}

// Login verifies credentials and issues a token. Every refusal — unknown
// username, wrong password, active lockout — maps to the same
// domain.ErrInvalidCredentials so the response carries no enumeration signal.
func (s *AuthService) Login(ctx context.Context, username, password string) (*ports.AuthResult, error) {
	account, err := s.accounts.FindByUsername(ctx, strings.ToLower(username))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.record(domain.AuthEvent{Kind: domain.AuthEventLoginFailure, Username: username, Reason: "unknown_username"})
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	now := s.now().UTC()

	// Locked accounts are refused before the hash is touched, so an attacker
	// cannot use response timing as a password oracle while locked.
	if decision := s.lockout.Evaluate(account, now); !decision.Allowed {
		s.record(domain.AuthEvent{Kind: domain.AuthEventLoginFailure, Username: account.Username, Email: account.Email, Reason: "locked"})
		s.log.Warn().
			Str("username", account.Username).
			Dur("retry_after", decision.RetryAfter).
			Msg("login refused, account locked")
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		return nil, s.failAttempt(ctx, account, now)
	}

	count, until := s.lockout.OnSuccess()
	if err := s.accounts.UpdateLoginState(ctx, account.ID, count, until); err != nil {
		return nil, fmt.Errorf("login: reset login state: %w", err)
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.record(domain.AuthEvent{Kind: domain.AuthEventLoginSuccess, Username: account.Username, Email: account.Email})
	s.log.Info().Str("username", account.Username).Msg("login succeeded")
	return &ports.AuthResult{FirstName: account.FirstName, LastName: account.LastName, Token: token}, nil
}

// failAttempt applies the lockout transition for a wrong password and
// persists it. A persistence failure is surfaced instead of swallowed, so
// attempts cannot be burned for free while the store is down.
func (s *AuthService) failAttempt(ctx context.Context, account *domain.Account, now time.Time) error {
	count, until := s.lockout.OnFailure(account, now)
	if err := s.accounts.UpdateLoginState(ctx, account.ID, count, until); err != nil {
		return fmt.Errorf("login: record failed attempt: %w", err)
	}

	if until != nil {
		s.record(domain.AuthEvent{Kind: domain.AuthEventLockout, Username: account.Username, Email: account.Email})
		s.log.Warn().Str("username", account.Username).Time("locked_until", *until).Msg("account locked")
	} else {
		s.record(domain.AuthEvent{Kind: domain.AuthEventLoginFailure, Username: account.Username, Email: account.Email, Reason: "wrong_password"})
	}
	return domain.ErrInvalidCredentials
}

// RefreshToken re-issues a token for a caller whose presented token was
// already verified by the transport layer. The new token is built from the
// account's current state, so profile changes propagate on refresh.
func (s *AuthService) RefreshToken(ctx context.Context, claims *domain.TokenClaims) (*ports.AuthResult, error) {
	if claims == nil || claims.Email == "" {
		return nil, domain.ErrMalformedToken
	}

	account, err := s.accounts.FindByEmail(ctx, strings.ToLower(claims.Email))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("refresh token: %w", err)
	}

	token, err := s.tokens.Issue(account)
	if err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}

	s.record(domain.AuthEvent{Kind: domain.AuthEventTokenRefresh, Username: account.Username, Email: account.Email})
	return &ports.AuthResult{FirstName: account.FirstName, LastName: account.LastName, Token: token}, nil
}

func (s *AuthService) record(event domain.AuthEvent) {
	if s.audit == nil {
		return
	}
	if event.At.IsZero() {
		event.At = s.now().UTC()
	}
	s.audit.Record(event)
}
