// Copyright (c) 2026 Warden. All rights reserved.

package middleware_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/buivan/warden/internal/platform/constants"
	"github.com/buivan/warden/internal/platform/middleware"
	"github.com/buivan/warden/internal/platform/sec"
)

// stubValidator resolves a single known token.
type stubValidator struct {
	token     string
	principal *sec.Principal
	err       error
}

func (s *stubValidator) ValidateSession(_ context.Context, token string) (*sec.Principal, error) {
	if s.err != nil {
		return nil, s.err
	}
	if token != s.token {
		return nil, fmt.Errorf("lookup: %w", sec.ErrNoSuchSession)
	}
	return s.principal, nil
}

// gateRouter mounts a probe handler behind the given gate chain and records
// whether the request reached it.
func gateRouter(reached *bool, validator middleware.SessionValidator, extra ...func(http.Handler) http.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession(validator))
		for _, gate := range extra {
			r.Use(gate)
		}
		r.Handle("/users/{id}", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			*reached = true
			w.WriteHeader(http.StatusOK)
		}))
	})
	return router
}

func withSessionCookie(request *http.Request, token string) *http.Request {
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: token})
	return request
}

/*
TestRequireSession_MissingCookie verifies that an unauthenticated request is
rejected before any downstream gate or handler runs.
*/
func TestRequireSession_MissingCookie(t *testing.T) {
	reached := false
	router := gateRouter(&reached, &stubValidator{}, middleware.RequireAdmin)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/users/u1", nil))

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.False(t, reached)
}

/*
TestRequireSession_Failures verifies that every validation failure maps to
the same 403, while internal faults map to a generic 400.
*/
func TestRequireSession_Failures(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"no_such_session", sec.ErrNoSuchSession, http.StatusForbidden},
		{"no_expiry_set", sec.ErrNoExpirySet, http.StatusForbidden},
		{"session_expired", sec.ErrSessionExpired, http.StatusForbidden},
		{"wrapped_sentinel", fmt.Errorf("store: %w", sec.ErrSessionExpired), http.StatusForbidden},
		{"store_unreachable", errors.New("connection refused"), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			router := gateRouter(&reached, &stubValidator{err: tt.err})

			recorder := httptest.NewRecorder()
			request := withSessionCookie(httptest.NewRequest(http.MethodGet, "/users/u1", nil), "any")
			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.False(t, reached)
		})
	}
}

/*
TestRequireOwner verifies stage-1 semantics: a valid session is not enough,
the route id must match the principal, and admins get no exception.
*/
func TestRequireOwner(t *testing.T) {
	tests := []struct {
		name      string
		principal *sec.Principal
		path      string
		wantPass  bool
	}{
		{"owner_allowed", &sec.Principal{UserID: "u1", Role: sec.RoleUser}, "/users/u1", true},
		{"non_owner_rejected", &sec.Principal{UserID: "u2", Role: sec.RoleUser}, "/users/u1", false},
		{"admin_not_exempt", &sec.Principal{UserID: "u2", Role: sec.RoleAdmin}, "/users/u1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			validator := &stubValidator{token: "tok", principal: tt.principal}
			router := gateRouter(&reached, validator, middleware.RequireOwner("id"))

			recorder := httptest.NewRecorder()
			request := withSessionCookie(httptest.NewRequest(http.MethodDelete, tt.path, nil), "tok")
			router.ServeHTTP(recorder, request)

			if tt.wantPass {
				assert.Equal(t, http.StatusOK, recorder.Code)
				assert.True(t, reached)
			} else {
				assert.Equal(t, http.StatusForbidden, recorder.Code)
				assert.False(t, reached)
			}
		})
	}
}

/*
TestRequireAdmin verifies stage-2 semantics: valid session plus ADMIN role.
*/
func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name     string
		role     sec.UserRole
		wantPass bool
	}{
		{"admin_allowed", sec.RoleAdmin, true},
		{"user_rejected", sec.RoleUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			validator := &stubValidator{token: "tok", principal: &sec.Principal{UserID: "u1", Role: tt.role}}
			router := gateRouter(&reached, validator, middleware.RequireAdmin)

			recorder := httptest.NewRecorder()
			request := withSessionCookie(httptest.NewRequest(http.MethodGet, "/users/u1", nil), "tok")
			router.ServeHTTP(recorder, request)

			if tt.wantPass {
				assert.Equal(t, http.StatusOK, recorder.Code)
				assert.True(t, reached)
			} else {
				assert.Equal(t, http.StatusForbidden, recorder.Code)
				assert.False(t, reached)
			}
		})
	}
}
