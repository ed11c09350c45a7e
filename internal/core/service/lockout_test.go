package service

import (
	"testing"
	"time"

	"github.com/serverapp/account-api/internal/core/domain"
)

func TestLockoutPolicy_Defaults(t *testing.T) {
	p := NewLockoutPolicy(0, 0)
	if p.MaxFailedAttempts != defaultMaxFailedAttempts {
		t.Fatalf("expected default threshold, got %d", p.MaxFailedAttempts)
	}
	if p.LockoutDuration != defaultLockoutDuration {
		t.Fatalf("expected default duration, got %s", p.LockoutDuration)
	}
}

func TestLockoutPolicy_FailureBelowThreshold(t *testing.T) {
	p := NewLockoutPolicy(3, 5*time.Minute)
	now := time.Now().UTC()
	acc := &domain.Account{FailedLoginCount: 1}

	count, until := p.OnFailure(acc, now)
	if count != 2 {
		t.Fatalf("expected count 2, got %d", count)
	}
	if until != nil {
		t.Fatalf("account should not be locked below threshold")
	}
}

func TestLockoutPolicy_FailureAtThresholdLocks(t *testing.T) {
	p := NewLockoutPolicy(3, 5*time.Minute)
	now := time.Now().UTC()
	acc := &domain.Account{FailedLoginCount: 2}

	count, until := p.OnFailure(acc, now)
	if until == nil {
		t.Fatalf("expected lockout at threshold")
	}
	if !until.Equal(now.Add(5 * time.Minute)) {
		t.Fatalf("expected lock until %s, got %s", now.Add(5*time.Minute), until)
	}
	if count != 0 {
		t.Fatalf("counter should reset when the lock is set, got %d", count)
	}
}

func TestLockoutPolicy_EvaluateLocked(t *testing.T) {
	p := NewLockoutPolicy(3, 5*time.Minute)
	now := time.Now().UTC()
	until := now.Add(3 * time.Minute)
	acc := &domain.Account{LockedUntil: &until}

	decision := p.Evaluate(acc, now)
	if decision.Allowed {
		t.Fatalf("locked account should be denied")
	}
	if decision.RetryAfter != 3*time.Minute {
		t.Fatalf("expected retry after 3m, got %s", decision.RetryAfter)
	}
}

func TestLockoutPolicy_LockExpiresAutomatically(t *testing.T) {
	p := NewLockoutPolicy(3, 5*time.Minute)
	now := time.Now().UTC()
	until := now.Add(-time.Second)
	acc := &domain.Account{LockedUntil: &until}

	if decision := p.Evaluate(acc, now); !decision.Allowed {
		t.Fatalf("expired lock should admit the attempt")
	}
}

func TestLockoutPolicy_OnSuccessResets(t *testing.T) {
	p := NewLockoutPolicy(3, 5*time.Minute)
	count, until := p.OnSuccess()
	if count != 0 || until != nil {
		t.Fatalf("expected clean state, got count=%d until=%v", count, until)
	}
}
