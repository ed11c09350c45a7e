package domain

import "time"

// AuthEventKind classifies an entry in the authentication audit trail.
type AuthEventKind string

const (
	AuthEventRegistered   AuthEventKind = "registered"
	AuthEventLoginSuccess AuthEventKind = "login_success"
	AuthEventLoginFailure AuthEventKind = "login_failure"
	AuthEventLockout      AuthEventKind = "lockout"
	AuthEventTokenRefresh AuthEventKind = "token_refresh"
)

// AuthEvent records a single registration or login attempt for auditing.
type AuthEvent struct {
	Kind     AuthEventKind `json:"kind"`
	Username string        `json:"username"`
	Email    string        `json:"email,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	At       time.Time     `json:"at"`
}
