// Copyright (c) 2026 Warden. All rights reserved.

package account_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buivan/warden/internal/platform/apperr"
	"github.com/buivan/warden/internal/platform/constants"
	"github.com/buivan/warden/internal/platform/sec"
	"github.com/buivan/warden/internal/users/account"
	"github.com/buivan/warden/internal/users/auth"
)

// memoryRepository is a minimal in-memory auth.UserRepository backing the
// end-to-end gate tests.
type memoryRepository struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{users: make(map[string]*auth.User)}
}

func (repo *memoryRepository) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	clone := *user
	repo.users[user.ID] = &clone
	return nil
}

func (repo *memoryRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, user := range repo.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (repo *memoryRepository) FindBySessionToken(_ context.Context, token string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, user := range repo.users {
		if user.Session.Token != "" && user.Session.Token == token {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Session")
}

func (repo *memoryRepository) List(_ context.Context) ([]auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	users := make([]auth.User, 0, len(repo.users))
	for _, user := range repo.users {
		users = append(users, *user)
	}
	return users, nil
}

func (repo *memoryRepository) SaveSession(_ context.Context, userID string, session auth.Session) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	user, ok := repo.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.Session = session
	return nil
}

func (repo *memoryRepository) UpdateUsername(_ context.Context, id, username string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	user.Username = username
	user.UpdatedAt = time.Now()
	clone := *user
	return &clone, nil
}

// setRole persists a role elevation directly into the store; test-side
// substitute for the administrative action the service does not expose.
func (repo *memoryRepository) setRole(id string, role sec.UserRole) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if user, ok := repo.users[id]; ok {
		user.Role = role
	}
}

func (repo *memoryRepository) DeleteByID(_ context.Context, id string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	delete(repo.users, id)
	clone := *user
	return &clone, nil
}

// testStack wires the real auth service, gates, and account handler over the
// in-memory repository, mirroring the production composition.
type testStack struct {
	router chi.Router
	auth   *auth.Service
	repo   *memoryRepository
}

func newTestStack() *testStack {
	repo := newMemoryRepository()
	authService := auth.NewService(repo, auth.NewStaticResolver(), sec.NewHasher("account-test-secret"))
	handler := account.NewHandler(account.NewService(repo))

	router := chi.NewRouter()
	router.Mount("/users", handler.Routes(authService))

	return &testStack{router: router, auth: authService, repo: repo}
}

// enroll registers an account, forces the given role, and logs in. Returns
// the account and its session cookie.
func (stack *testStack) enroll(t *testing.T, email string, role sec.UserRole) (*auth.User, *http.Cookie) {
	t.Helper()

	user, err := stack.auth.Register(context.Background(), auth.RegisterInput{
		Email:    email,
		Password: "hunter22",
		Username: strings.SplitN(email, "@", 2)[0],
	})
	require.NoError(t, err)
	user.Role = role
	stack.repo.setRole(user.ID, role)

	session, err := stack.auth.IssueSession(context.Background(), user)
	require.NoError(t, err)

	return user, &http.Cookie{Name: constants.SessionCookieName, Value: session.Token}
}

func (stack *testStack) do(t *testing.T, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if cookie != nil {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	stack.router.ServeHTTP(recorder, request)
	return recorder
}

/*
TestAccountRoutes_List verifies the admin gate on the collection read.
*/
func TestAccountRoutes_List(t *testing.T) {
	stack := newTestStack()
	_, adminCookie := stack.enroll(t, "admin@example.com", sec.RoleAdmin)
	_, userCookie := stack.enroll(t, "user@example.com", sec.RoleUser)

	t.Run("anonymous_denied", func(t *testing.T) {
		recorder := stack.do(t, http.MethodGet, "/users", "", nil)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("non_admin_denied", func(t *testing.T) {
		recorder := stack.do(t, http.MethodGet, "/users", "", userCookie)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("admin_allowed", func(t *testing.T) {
		recorder := stack.do(t, http.MethodGet, "/users", "", adminCookie)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "admin@example.com")
		assert.Contains(t, recorder.Body.String(), "user@example.com")
	})

	t.Run("stale_cookie_denied", func(t *testing.T) {
		stale := &http.Cookie{Name: constants.SessionCookieName, Value: "never-issued"}
		recorder := stack.do(t, http.MethodGet, "/users", "", stale)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})
}

/*
TestAccountRoutes_Rename verifies the owner gate and validation on the
username mutation.
*/
func TestAccountRoutes_Rename(t *testing.T) {
	stack := newTestStack()
	owner, ownerCookie := stack.enroll(t, "owner@example.com", sec.RoleUser)
	_, otherCookie := stack.enroll(t, "other@example.com", sec.RoleUser)
	_, adminCookie := stack.enroll(t, "admin@example.com", sec.RoleAdmin)

	t.Run("owner_renames", func(t *testing.T) {
		recorder := stack.do(t, http.MethodPatch, "/users/"+owner.ID,
			`{"username":"renamed"}`, ownerCookie)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "renamed")
	})

	t.Run("non_owner_denied", func(t *testing.T) {
		recorder := stack.do(t, http.MethodPatch, "/users/"+owner.ID,
			`{"username":"hijacked"}`, otherCookie)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("admin_is_not_exempt", func(t *testing.T) {
		recorder := stack.do(t, http.MethodPatch, "/users/"+owner.ID,
			`{"username":"admin-override"}`, adminCookie)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("missing_username_rejected", func(t *testing.T) {
		recorder := stack.do(t, http.MethodPatch, "/users/"+owner.ID, `{}`, ownerCookie)
		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

/*
TestAccountRoutes_Delete verifies the owner gate on deletion and that a
deleted account is fully unresolvable afterward.
*/
func TestAccountRoutes_Delete(t *testing.T) {
	stack := newTestStack()
	owner, ownerCookie := stack.enroll(t, "owner@example.com", sec.RoleUser)
	_, otherCookie := stack.enroll(t, "other@example.com", sec.RoleUser)

	t.Run("non_owner_denied", func(t *testing.T) {
		recorder := stack.do(t, http.MethodDelete, "/users/"+owner.ID, "", otherCookie)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("owner_deletes", func(t *testing.T) {
		recorder := stack.do(t, http.MethodDelete, "/users/"+owner.ID, "", ownerCookie)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), owner.ID)
	})

	t.Run("gone_for_good", func(t *testing.T) {
		// Session died with the account.
		recorder := stack.do(t, http.MethodDelete, "/users/"+owner.ID, "", ownerCookie)
		assert.Equal(t, http.StatusForbidden, recorder.Code)

		// Email no longer resolves: a fresh registration succeeds.
		_, err := stack.auth.Register(context.Background(), auth.RegisterInput{
			Email:    "owner@example.com",
			Password: "new-password",
			Username: "owner-reborn",
		})
		assert.NoError(t, err)
	})
}
