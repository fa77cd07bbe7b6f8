// Copyright (c) 2026 Warden. All rights reserved.

/*
Package account provides the HTTP delivery layer for account administration.

It implements the session-gated user collection: listing (admin only) and
the owner-scoped mutations (rename, delete).

# Security

Every endpoint sits behind the RequireSession gate; individual routes stack
RequireOwner or RequireAdmin on top. The gate chain short-circuits on the
first failure with a uniform refusal.
*/
package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/buivan/warden/internal/platform/middleware"
	requestutil "github.com/buivan/warden/internal/platform/request"
	"github.com/buivan/warden/internal/platform/respond"
	"github.com/buivan/warden/internal/platform/validate"
	"github.com/buivan/warden/internal/users/auth"
)

// Handler implements the HTTP layer for account administration.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] with the gated user collection endpoints.
//
// # Endpoints
//   - GET    /     : Full account list (admin only).
//   - PATCH  /{id} : Rename an account (owner only).
//   - DELETE /{id} : Remove an account (owner only).
func (handler *Handler) Routes(validator middleware.SessionValidator) chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireSession(validator))

	router.With(middleware.RequireAdmin).Get("/", handler.list)
	router.With(middleware.RequireOwner("id")).Patch("/{id}", handler.rename)
	router.With(middleware.RequireOwner("id")).Delete("/{id}", handler.remove)

	return router
}

// # Collection Endpoints

/*
List returns every registered account.

GET /api/v1/users

Description: Admin-only snapshot of the user collection, secret-free.

Response:
  - 200: []User: All accounts
  - 403: ErrForbidden: No session or non-admin caller
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	users, err := handler.accountService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, users)
}

// # Owner-Scoped Endpoints

// renameRequest defines the expected JSON payload for a username change.
type renameRequest struct {
	Username string `json:"username"`
}

/*
Rename replaces the account's username.

PATCH /api/v1/users/{id}

Description: The username is the one profile field an owner may change.
Email, role, and credential are immutable through this surface.

Request:
  - Body: renameRequest (Username)

Response:
  - 200: User: The updated account
  - 400: ErrInvalidJSON: Missing username
  - 403: ErrForbidden: No session or caller is not the target account
*/
func (handler *Handler) rename(writer http.ResponseWriter, request *http.Request) {
	var input renameRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldUsername, input.Username)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Rename(request.Context(),
		requestutil.Param(request, "id"), input.Username)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Remove deletes the account permanently.

DELETE /api/v1/users/{id}

Description: Returns the removed record as confirmation. The id and email
stop resolving immediately; the account's session token dies with it.

Response:
  - 200: User: The removed account
  - 403: ErrForbidden: No session or caller is not the target account
  - 404: ErrNotFound: Account already gone
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.Delete(request.Context(),
		requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
