// Copyright (c) 2026 Warden. All rights reserved.

package sec

import "errors"

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// The enumeration is closed: only the two values below are valid, and the
// store enforces them with a CHECK constraint.
type UserRole string

const (
	// Unrestricted collection-wide reads
	RoleAdmin UserRole = "ADMIN"

	// Default role for standard registered users
	RoleUser UserRole = "USER"
)

// IsAdmin reports whether the role grants administrative access.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

// # Authenticated Principal

// Principal is the resolved identity attached to the request context after
// the session gate succeeds.
//
// It is a snapshot: downstream gates and handlers read it for authorization
// decisions within the same request only, never across requests.
type Principal struct {
	UserID   string
	Username string
	Email    string
	Role     UserRole
}

// # Session Validation Failures

// Sentinel errors distinguishing why session validation failed.
//
// All three surface to clients as the same access-denied outcome; the
// distinction exists for logging and tests only.
var (
	// ErrNoSuchSession means no account holds the presented token.
	ErrNoSuchSession = errors.New("sec: no such session")

	// ErrNoExpirySet means the account has a token but no recorded expiry.
	// Issuance writes both together; validation still refuses the half state.
	ErrNoExpirySet = errors.New("sec: session has no expiry")

	// ErrSessionExpired means the wall clock has passed the session expiry.
	ErrSessionExpired = errors.New("sec: session expired")
)

// IsAuthFailure reports whether err is one of the session validation sentinels.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrNoSuchSession) ||
		errors.Is(err, ErrNoExpirySet) ||
		errors.Is(err, ErrSessionExpired)
}
