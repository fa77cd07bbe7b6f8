// Copyright (c) 2026 Warden. All rights reserved.

// PostgreSQL implementation of the user repository.
//
// # Error Mapping
//
// Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types via dberr to avoid leaking storage details.
package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/buivan/warden/internal/platform/dberr"
)

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// publicColumns is the default read path: no credential, no session.
const publicColumns = "id, username, email, role, createdat, updatedat"

/*
Create persists a new user record into the users.account table.

Parameters:
  - ctx: context.Context
  - user: *User (entity to persist, credential and metadata included)

Returns:
  - error: apperr.Conflict on duplicate email, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, username, email, role,
			passworddigest, salt,
			metaip, metageo, metabrowser, metalanguage,
			createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.Role,
		user.Credential.PasswordDigest,
		user.Credential.Salt,
		user.Metadata.IP,
		user.Metadata.Geo,
		user.Metadata.Browser,
		user.Metadata.Language,
		user.CreatedAt,
		user.UpdatedAt,
	)

	return dberr.Wrap(err, "User")
}

/*
FindByEmail retrieves a user by email, hydrating the credential fields.

This is the only read that selects passworddigest and salt; it serves the
login path exclusively.
*/
func (repository *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	const query = `
		SELECT id, username, email, role, passworddigest, salt, createdat, updatedat
		FROM users.account
		WHERE email = $1`

	user := &User{}
	err := repository.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Role,
		&user.Credential.PasswordDigest,
		&user.Credential.Salt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return user, nil
}

/*
FindByID retrieves a user by primary key on the default (secret-free) path.
*/
func (repository *PostgresUserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	const query = `
		SELECT ` + publicColumns + `
		FROM users.account
		WHERE id = $1`

	user := &User{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return user, nil
}

/*
FindBySessionToken retrieves the account holding a session token, hydrating
the session expiry. This serves the validation path exclusively.

A NULL sessionexpiry scans to the zero time, which the service layer treats
as "never authenticated".
*/
func (repository *PostgresUserRepository) FindBySessionToken(ctx context.Context, token string) (*User, error) {
	const query = `
		SELECT id, username, email, role, COALESCE(sessionexpiry, 'epoch'::timestamptz), createdat, updatedat
		FROM users.account
		WHERE sessiontoken = $1`

	user := &User{}
	var expiry time.Time
	err := repository.pool.QueryRow(ctx, query, token).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Role,
		&expiry,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	user.Session.Token = token
	if expiry.Unix() != 0 {
		user.Session.ExpiresAt = expiry
	}

	return user, nil
}

/*
List returns all accounts on the default (secret-free) path, oldest first.
*/
func (repository *PostgresUserRepository) List(ctx context.Context) ([]User, error) {
	const query = `
		SELECT ` + publicColumns + `
		FROM users.account
		ORDER BY createdat`

	rows, err := repository.pool.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		var user User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.Role,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "User")
		}
		users = append(users, user)
	}

	return users, dberr.Wrap(rows.Err(), "User")
}

/*
SaveSession unconditionally overwrites the account's token and expiry.
Concurrent logins race here; the last write wins.
*/
func (repository *PostgresUserRepository) SaveSession(ctx context.Context, userID string, session Session) error {
	const query = `
		UPDATE users.account
		SET sessiontoken = $2, sessionexpiry = $3, updatedat = $4
		WHERE id = $1`

	tag, err := repository.pool.Exec(ctx, query, userID, session.Token, session.ExpiresAt, time.Now())
	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

/*
UpdateUsername replaces the username and returns the updated record.
*/
func (repository *PostgresUserRepository) UpdateUsername(ctx context.Context, id, username string) (*User, error) {
	const query = `
		UPDATE users.account
		SET username = $2, updatedat = $3
		WHERE id = $1
		RETURNING ` + publicColumns

	user := &User{}
	err := repository.pool.QueryRow(ctx, query, id, username, time.Now()).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return user, nil
}

/*
DeleteByID removes the row permanently and returns the deleted record.
*/
func (repository *PostgresUserRepository) DeleteByID(ctx context.Context, id string) (*User, error) {
	const query = `
		DELETE FROM users.account
		WHERE id = $1
		RETURNING ` + publicColumns

	user := &User{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return user, nil
}
