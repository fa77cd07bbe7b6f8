// Copyright (c) 2026 Warden. All rights reserved.

package account

import (
	"context"
	"fmt"

	"github.com/buivan/warden/internal/users/auth"
)

// # Service Layer

// Service orchestrates business logic for account administration: the
// operations available once a session gate has admitted the caller.
//
// Authorization itself lives in the middleware gates; this layer assumes the
// caller was already cleared for the operation.
type Service struct {
	users auth.UserRepository
}

// NewService constructs a new [Service] over the shared user repository.
func NewService(users auth.UserRepository) *Service {
	return &Service{users: users}
}

/*
List returns every registered account, secret-free.

Parameters:
  - ctx: context.Context

Returns:
  - []auth.User: All accounts, oldest first
  - error: Storage failures
*/
func (service *Service) List(ctx context.Context) ([]auth.User, error) {
	users, err := service.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, nil
}

/*
Rename replaces the account's username, the one mutable profile field.

Parameters:
  - ctx: context.Context
  - id: string (account id, already owner-checked by the gate)
  - username: string

Returns:
  - *auth.User: The updated account without secret fields
  - error: Not found or storage failures
*/
func (service *Service) Rename(ctx context.Context, id, username string) (*auth.User, error) {
	user, err := service.users.UpdateUsername(ctx, id, username)
	if err != nil {
		return nil, fmt.Errorf("account_service_rename_failed: %w", err)
	}
	return user, nil
}

/*
Delete removes the account permanently.

Description: The deletion is final and immediate. Afterwards the account
resolves by neither id nor email, and any outstanding session token for it
stops validating on the next request.

Parameters:
  - ctx: context.Context
  - id: string (account id, already owner-checked by the gate)

Returns:
  - *auth.User: The removed account without secret fields
  - error: Not found or storage failures
*/
func (service *Service) Delete(ctx context.Context, id string) (*auth.User, error) {
	user, err := service.users.DeleteByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("account_service_delete_failed: %w", err)
	}
	return user, nil
}
