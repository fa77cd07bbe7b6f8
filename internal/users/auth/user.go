// Copyright (c) 2026 Warden. All rights reserved.

/*
Package auth implements the user identity and session management core.

It handles registration with salted credential digests, password login, and
the cookie-session lifecycle (issuance, validation, absolute expiry).

Architecture:

  - Service: Orchestrates business logic (Register, Login, session checks).
  - Repository: Abstracted interface for the persistent user store (Postgres).
  - Security: Deterministic keyed digests and high-entropy tokens from
    the platform sec package.

Sessions are deliberately minimal: one mutable token+expiry pair per account,
overwritten on every login. There is no revocation list and no logout
primitive. A stolen current token stays valid for its full lifetime.
*/
package auth

import (
	"time"

	"github.com/buivan/warden/internal/platform/sec"
)

// # Domain Entities

// User represents a registered account.
type User struct {
	ID       string       `json:"id"`
	Username string       `json:"username"`
	Email    string       `json:"email"`
	Role     sec.UserRole `json:"role"`

	// Credential is write-once at registration and never leaves the server.
	Credential Credential `json:"-"`

	// Session is absent until the first login; replaced wholesale on each one.
	Session Session `json:"session,omitzero"`

	// Metadata is captured once at registration. Informational only: it is
	// never consulted for an authentication or authorization decision.
	Metadata Metadata `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Credential holds the verifier for a password without storing the password.
type Credential struct {
	// PasswordDigest is Digest(Salt, plaintext), recomputed at login for comparison.
	PasswordDigest string `json:"-"`

	// Salt is generated once per account and never reused across accounts.
	Salt string `json:"-"`
}

// Session is the single live session of an account.
type Session struct {
	// Token is the opaque bearer value delivered as a cookie. Never serialized.
	Token string `json:"-"`

	// ExpiresAt is absolute: it is not extended by activity.
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// Metadata captures request context at registration time.
type Metadata struct {
	IP       string `json:"-"`
	Geo      string `json:"-"`
	Browser  string `json:"-"`
	Language string `json:"-"`
}

// # Field Identifiers

// Field names for validation and JSON mapping in the authentication domain.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldUsername = "username"
)
