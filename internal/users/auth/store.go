// Copyright (c) 2026 Warden. All rights reserved.

package auth

import "context"

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// # Selective Exposure
//
// By default a read does NOT hydrate credential or session fields; only the
// two lookups that need them (FindByEmail for login, FindBySessionToken for
// validation) include their respective secret columns. This keeps secret
// material off every other read path by construction.
type UserRepository interface {

	/*
		Create persists a brand-new user account.

		Parameters:
		  - ctx: context.Context
		  - user: *User (including credential and metadata)

		Returns:
		  - error: Unique-constraint violations or connectivity errors
	*/
	Create(ctx context.Context, user *User) error

	/*
		FindByEmail returns the account with the given email, INCLUDING its
		credential fields. This is the login path.

		Returns:
		  - *User: Hydrated entity with Credential populated
		  - error: apperr.NotFound or database errors
	*/
	FindByEmail(ctx context.Context, email string) (*User, error)

	/*
		FindByID returns the account with the given ID on the default read
		path: no credential, no session.

		Returns:
		  - *User: Hydrated entity without secret fields
		  - error: apperr.NotFound or database errors
	*/
	FindByID(ctx context.Context, id string) (*User, error)

	/*
		FindBySessionToken returns the account holding the given session
		token, INCLUDING the session expiry. This is the validation path.

		Returns:
		  - *User: Hydrated entity with Session populated
		  - error: apperr.NotFound or database errors
	*/
	FindBySessionToken(ctx context.Context, token string) (*User, error)

	/*
		List returns every account without secret fields.

		Returns:
		  - []User: All accounts, oldest first
		  - error: Database errors
	*/
	List(ctx context.Context) ([]User, error)

	/*
		SaveSession overwrites the account's session unconditionally.

		Concurrent logins race here; last write wins and there is no
		optimistic concurrency control. Known limitation.
	*/
	SaveSession(ctx context.Context, userID string, session Session) error

	/*
		UpdateUsername replaces the account's username and returns the
		updated record.

		Returns:
		  - *User: Updated entity without secret fields
		  - error: apperr.NotFound or database errors
	*/
	UpdateUsername(ctx context.Context, id, username string) (*User, error)

	/*
		DeleteByID removes the account permanently and returns the deleted
		record. After this the account resolves by neither id nor email.

		Returns:
		  - *User: The removed entity without secret fields
		  - error: apperr.NotFound or database errors
	*/
	DeleteByID(ctx context.Context, id string) (*User, error)
}
