// Copyright (c) 2026 Warden. All rights reserved.

package auth_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/buivan/warden/internal/platform/apperr"
	"github.com/buivan/warden/internal/users/auth"
)

// fakeUserRepository is an in-memory auth.UserRepository that mirrors the
// selective-exposure behavior of the Postgres implementation: reads only
// hydrate the secret fields their path is entitled to.
type fakeUserRepository struct {
	mu    sync.Mutex
	users map[string]*auth.User

	// failNext, when set, makes the next call return this error. Used to
	// simulate storage faults.
	failNext error
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*auth.User)}
}

func (repo *fakeUserRepository) takeFault() error {
	err := repo.failNext
	repo.failNext = nil
	return err
}

func (repo *fakeUserRepository) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if err := repo.takeFault(); err != nil {
		return err
	}

	for _, existing := range repo.users {
		if existing.Email == user.Email {
			return apperr.Conflict("User already exists")
		}
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	clone := *user
	repo.users[user.ID] = &clone
	return nil
}

func (repo *fakeUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if err := repo.takeFault(); err != nil {
		return nil, err
	}

	for _, user := range repo.users {
		if user.Email == email {
			clone := *user
			clone.Session = auth.Session{}
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *fakeUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if err := repo.takeFault(); err != nil {
		return nil, err
	}

	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	clone.Credential = auth.Credential{}
	clone.Session = auth.Session{}
	return &clone, nil
}

func (repo *fakeUserRepository) FindBySessionToken(_ context.Context, token string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if err := repo.takeFault(); err != nil {
		return nil, err
	}

	for _, user := range repo.users {
		if user.Session.Token != "" && user.Session.Token == token {
			clone := *user
			clone.Credential = auth.Credential{}
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Session")
}

func (repo *fakeUserRepository) List(_ context.Context) ([]auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if err := repo.takeFault(); err != nil {
		return nil, err
	}

	users := make([]auth.User, 0, len(repo.users))
	for _, user := range repo.users {
		clone := *user
		clone.Credential = auth.Credential{}
		clone.Session = auth.Session{}
		users = append(users, clone)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (repo *fakeUserRepository) SaveSession(_ context.Context, userID string, session auth.Session) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if err := repo.takeFault(); err != nil {
		return err
	}

	user, ok := repo.users[userID]
	if !ok {
		return apperr.NotFound("User")
	}
	user.Session = session
	user.UpdatedAt = time.Now()
	return nil
}

func (repo *fakeUserRepository) UpdateUsername(_ context.Context, id, username string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if err := repo.takeFault(); err != nil {
		return nil, err
	}

	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	user.Username = username
	user.UpdatedAt = time.Now()

	clone := *user
	clone.Credential = auth.Credential{}
	clone.Session = auth.Session{}
	return &clone, nil
}

func (repo *fakeUserRepository) DeleteByID(_ context.Context, id string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if err := repo.takeFault(); err != nil {
		return nil, err
	}

	user, ok := repo.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	delete(repo.users, id)

	clone := *user
	clone.Credential = auth.Credential{}
	clone.Session = auth.Session{}
	return &clone, nil
}

// blindEmailRepository simulates the losing side of a concurrent
// registration: the uniqueness probe finds nothing, but the store's unique
// constraint still rejects the insert.
type blindEmailRepository struct {
	*fakeUserRepository
}

func (repo *blindEmailRepository) FindByEmail(context.Context, string) (*auth.User, error) {
	return nil, apperr.NotFound("User")
}

// stored returns the raw record including secrets, for assertions.
func (repo *fakeUserRepository) stored(id string) *auth.User {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	user, ok := repo.users[id]
	if !ok {
		return nil
	}
	clone := *user
	return &clone
}
