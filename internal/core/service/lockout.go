package service

import (
	"time"

	"github.com/serverapp/account-api/internal/core/domain"
)

const (
	defaultMaxFailedAttempts = 3
	defaultLockoutDuration   = 5 * time.Minute
)

// LockoutDecision is the outcome of evaluating an account before a login
// attempt. RetryAfter is only set when the attempt is denied.
type LockoutDecision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// LockoutPolicy decides admission for login attempts based on an account's
// failed-attempt counter and lockout deadline. An account is Open when its
// lockout deadline is absent or past, Locked otherwise; locks expire on their
// own, there is no explicit unlock.
type LockoutPolicy struct {
	MaxFailedAttempts int
	LockoutDuration   time.Duration
}

// NewLockoutPolicy returns a policy with the given threshold and lockout
// window, falling back to the defaults for non-positive values.
func NewLockoutPolicy(maxFailedAttempts int, lockoutDuration time.Duration) LockoutPolicy {
	if maxFailedAttempts <= 0 {
		maxFailedAttempts = defaultMaxFailedAttempts
	}
	if lockoutDuration <= 0 {
		lockoutDuration = defaultLockoutDuration
	}
	return LockoutPolicy{MaxFailedAttempts: maxFailedAttempts, LockoutDuration: lockoutDuration}
}

// Evaluate is consulted before credential verification so that a locked
// account is refused without touching the password hash.
func (p LockoutPolicy) Evaluate(account *domain.Account, now time.Time) LockoutDecision {
	if account.Locked(now) {
		return LockoutDecision{Allowed: false, RetryAfter: account.LockedUntil.Sub(now)}
	}
	return LockoutDecision{Allowed: true}
}

// OnFailure returns the login state to persist after a failed attempt.
// Reaching the threshold locks the account and resets the counter, so the
// next window starts clean once the lock expires.
func (p LockoutPolicy) OnFailure(account *domain.Account, now time.Time) (failedLoginCount int, lockedUntil *time.Time) {
	next := account.FailedLoginCount + 1
	if next >= p.MaxFailedAttempts {
		until := now.Add(p.LockoutDuration)
		return 0, &until
	}
	return next, nil
}

// OnSuccess returns the login state to persist after a successful attempt:
// counter cleared, no lock.
func (p LockoutPolicy) OnSuccess() (failedLoginCount int, lockedUntil *time.Time) {
	return 0, nil
}
