// Copyright (c) 2026 Warden. All rights reserved.

package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/buivan/warden/internal/platform/apperr"
	"github.com/buivan/warden/internal/platform/dberr"
	"github.com/buivan/warden/internal/platform/sec"
	"github.com/buivan/warden/pkg/uuid"
)

// # Service

// Service implements the authentication use cases: registration, login, and
// the session lifecycle.
//
// # Review Process
//
// This service is the security core. Any change to digest construction,
// session issuance, or validation ordering needs a security review.
type Service struct {
	users  UserRepository
	geo    GeoResolver
	hasher *sec.Hasher

	// clock is swapped in tests to exercise expiry boundaries without sleeping.
	clock func() time.Time
}

// Option customizes a [Service].
type Option func(*Service)

// WithClock overrides the wall-clock source. Test use only.
func WithClock(clock func() time.Time) Option {
	return func(service *Service) { service.clock = clock }
}

// NewService constructs the auth [Service] with its dependencies.
func NewService(users UserRepository, geo GeoResolver, hasher *sec.Hasher, options ...Option) *Service {
	service := &Service{
		users:  users,
		geo:    geo,
		hasher: hasher,
		clock:  time.Now,
	}
	for _, option := range options {
		option(service)
	}
	return service
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new account, including
// the request context captured for metadata enrichment.
type RegisterInput struct {
	Email    string
	Password string
	Username string

	// Request-derived metadata, informational only.
	IP             string
	UserAgent      string
	AcceptLanguage string
}

/*
Register validates uniqueness, derives the salted credential digest, and
persists a brand new account.

Description: The plaintext password exists only within this call frame. A
fresh high-entropy salt is drawn per account; the stored digest is
Digest(salt, password). The new account always starts with role USER; role
elevation is a separate administrative action.

Parameters:
  - ctx: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity (no secret fields populated for the caller beyond
    what was just written)
  - error: Duplicate email (client-safe 400, existence deliberately leaked to
    match observed behavior) or storage errors
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {

	// Uniqueness probe. The duplicate response is distinguishable from other
	// 400s, a known enumeration leak preserved as-is.
	_, err := service.users.FindByEmail(ctx, input.Email)
	if err == nil {
		return nil, apperr.BadRequest("Email is already registered")
	}
	if !dberr.IsNotFound(err) {
		return nil, fmt.Errorf("auth_service_register_lookup_failed: %w", err)
	}

	salt, err := sec.NextToken()
	if err != nil {
		return nil, fmt.Errorf("auth_service_salt_failed: %w", err)
	}

	// Geo resolution is best-effort; registration never fails on it.
	geo, err := service.geo.Lookup(ctx, input.IP)
	if err != nil {
		geo = ""
	}

	user := &User{
		ID:       uuid.New(),
		Username: input.Username,
		Email:    input.Email,
		Role:     sec.RoleUser,
		Credential: Credential{
			PasswordDigest: service.hasher.Digest(salt, input.Password),
			Salt:           salt,
		},
		Metadata: Metadata{
			IP:       input.IP,
			Geo:      geo,
			Browser:  input.UserAgent,
			Language: canonicalLanguage(input.AcceptLanguage),
		},
	}

	if err := service.users.Create(ctx, user); err != nil {
		// Two registrations can race past the uniqueness probe; the store's
		// unique constraint catches the loser. Same outcome as the probe.
		if dberr.IsConflict(err) {
			return nil, apperr.BadRequest("Email is already registered")
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login verifies credentials and issues a fresh session.

Description: Recomputes the digest from the stored salt and the presented
password, compares in constant time, and on success replaces the account's
session wholesale. The previous token stops resolving the moment the new one
is written.

Parameters:
  - ctx: context.Context
  - input: LoginInput

Returns:
  - *User: The authenticated account with Session populated
  - error: Generic 400 for unknown email (not distinguished from other bad
    requests), 403 for a digest mismatch
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*User, error) {
	user, err := service.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, apperr.BadRequest("Invalid login request")
		}
		return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
	}

	expected := service.hasher.Digest(user.Credential.Salt, input.Password)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(user.Credential.PasswordDigest)) != 1 {
		return nil, apperr.Forbidden("Invalid login credentials")
	}

	if _, err := service.IssueSession(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// # Session Lifecycle

/*
IssueSession mints a session token for an already-authenticated account and
persists it, overwriting any prior session unconditionally.

Description: The token is Digest(freshSalt, userID), unguessable because the
salt carries 128 bytes of entropy. Expiry is a fixed offset from now, so it
strictly increases across consecutive logins. At most one session is live per
account; there is no revocation path for the current token.

Parameters:
  - ctx: context.Context
  - user: *User (mutated: Session is set on success)

Returns:
  - Session: The newly issued token and expiry
  - error: Entropy or storage failures
*/
func (service *Service) IssueSession(ctx context.Context, user *User) (Session, error) {
	salt, err := sec.NextToken()
	if err != nil {
		return Session{}, fmt.Errorf("auth_service_session_salt_failed: %w", err)
	}

	session := Session{
		Token:     service.hasher.Digest(salt, user.ID),
		ExpiresAt: service.clock().Add(SessionTTL),
	}

	if err := service.users.SaveSession(ctx, user.ID, session); err != nil {
		return Session{}, fmt.Errorf("auth_service_session_save_failed: %w", err)
	}

	user.Session = session
	return session, nil
}

/*
ValidateSession resolves a presented token to the owning principal.

Description: Reads the session state fresh from the store on every call and
compares expiry against the wall clock. The check is strict greater-than: a
request arriving at the expiry instant itself is still valid, one millisecond
later is not. No grace window, no clock-skew tolerance, no sliding extension.

Parameters:
  - ctx: context.Context
  - token: string (opaque cookie value)

Returns:
  - *sec.Principal: Identity snapshot for the request context
  - error: A wrapped [sec] auth-failure sentinel, or an internal fault
*/
func (service *Service) ValidateSession(ctx context.Context, token string) (*sec.Principal, error) {
	user, err := service.users.FindBySessionToken(ctx, token)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, fmt.Errorf("auth_service_validate: %w", sec.ErrNoSuchSession)
		}
		return nil, fmt.Errorf("auth_service_validate_lookup_failed: %w", err)
	}

	// Issuance always writes token and expiry together. An account carrying a
	// token without an expiry is treated as never authenticated, not eternal.
	if user.Session.ExpiresAt.IsZero() {
		return nil, fmt.Errorf("auth_service_validate: %w", sec.ErrNoExpirySet)
	}

	if service.clock().After(user.Session.ExpiresAt) {
		return nil, fmt.Errorf("auth_service_validate: %w", sec.ErrSessionExpired)
	}

	return &sec.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}, nil
}
