// Copyright (c) 2026 Warden. All rights reserved.

// Authorization gates for protected routes.
//
// # Architecture
//
// Each gate is an independent predicate over the request context. Routes
// declare their gate sequence; gates run in order and short-circuit on the
// first failure. There is no retry and no fallthrough: a failed gate
// terminates the request with a specific status.
//
// # Statuses
//
//   - Any authentication or authorization failure → 403 with a uniform body.
//   - Any unexpected internal fault inside a gate  → generic 400.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/buivan/warden/internal/platform/apperr"
	"github.com/buivan/warden/internal/platform/constants"
	"github.com/buivan/warden/internal/platform/ctxutil"
	"github.com/buivan/warden/internal/platform/respond"
	"github.com/buivan/warden/internal/platform/sec"
)

// SessionValidator resolves a presented session token to a principal.
//
// # Why an interface?
//
// Defining SessionValidator here decouples the gates from the auth service
// implementation, allowing mocks to be injected during unit testing.
type SessionValidator interface {
	// ValidateSession returns the principal owning the token, or one of the
	// [sec] auth-failure sentinels (wrapped) when the token does not grant
	// access. Any other error is an internal fault.
	ValidateSession(ctx context.Context, token string) (*sec.Principal, error)
}

// errAccessDenied is the uniform client-facing refusal.
//
// NoSuchSession, NoExpirySet, SessionExpired, and a missing cookie are all
// indistinguishable on the wire; the cause appears only in server logs.
var errAccessDenied = apperr.Forbidden("Access denied")

// RequireSession is the first gate on every protected route.
//
// # Flow
//
//  1. Read the session cookie. Missing cookie → 403.
//  2. Validate the token via [SessionValidator]. Auth failure → 403.
//  3. Attach the resolved [*sec.Principal] to the request context and proceed.
//
// Expiry is checked inside the validator against the wall clock on every
// request. Sessions are absolute, never sliding.
func RequireSession(validator SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			cookie, err := request.Cookie(constants.SessionCookieName)
			if err != nil || cookie.Value == "" {
				respond.Error(writer, request, errAccessDenied)
				return
			}

			principal, err := validator.ValidateSession(request.Context(), cookie.Value)
			if err != nil {
				if sec.IsAuthFailure(err) {
					// Distinguishable internally, uniform externally.
					ctxutil.GetLogger(request.Context()).WarnContext(request.Context(),
						"session_gate_denied", slog.String("reason", err.Error()))
					respond.Error(writer, request, errAccessDenied)
					return
				}

				// Store unreachable or similar: generic client error, no detail.
				ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(),
					"session_gate_fault", slog.Any("error", err))
				respond.Error(writer, request, apperr.BadRequest("Unable to process request"))
				return
			}

			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireOwner gates identity-scoped mutating routes.
//
// It compares the route's target id (URL parameter) against the authenticated
// principal's id. There is deliberately no exception for admins: an admin
// cannot delete or update another user's record through these routes.
//
// # Usage
//
// Must be registered AFTER [RequireSession].
func RequireOwner(idParam string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())
			if principal == nil || principal.UserID == "" {
				respond.Error(writer, request, errAccessDenied)
				return
			}

			if principal.UserID != chi.URLParam(request, idParam) {
				respond.Error(writer, request, errAccessDenied)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireAdmin gates collection-wide read routes.
//
// # Usage
//
// Must be registered AFTER [RequireSession].
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal := ctxutil.GetPrincipal(request.Context())
		if principal == nil {
			respond.Error(writer, request, errAccessDenied)
			return
		}

		if !principal.Role.IsAdmin() {
			respond.Error(writer, request, errAccessDenied)
			return
		}

		next.ServeHTTP(writer, request)
	})
}
