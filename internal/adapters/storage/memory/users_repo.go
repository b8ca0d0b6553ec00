package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"smartmilk/internal/domain/users"
)

var ErrEmailExists = errors.New("email already exists")

type userRepo struct {
	mu   sync.RWMutex
	byID map[string]users.User
}

func NewUserRepo() users.Repository {
	return &userRepo{
		byID: make(map[string]users.User),
	}
}

func (r *userRepo) Create(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id required")
	}
	if _, exists := r.byID[u.ID]; exists {
		return errors.New("user already exists")
	}
	// mismo contrato que el UNIQUE(email) de postgres
	for _, other := range r.byID {
		if other.Email == u.Email {
			return ErrEmailExists
		}
	}
	r.byID[u.ID] = u
	return nil
}

func (r *userRepo) Update(ctx context.Context, u users.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[u.ID]; !exists {
		return users.ErrNotFound
	}
	r.byID[u.ID] = u
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return users.User{}, users.ErrNotFound
	}
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return users.User{}, users.ErrNotFound
}

func (r *userRepo) GetByGoogleID(ctx context.Context, googleID string) (users.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if strings.TrimSpace(googleID) == "" {
		return users.User{}, users.ErrNotFound
	}
	for _, u := range r.byID {
		if u.GoogleID == googleID {
			return u, nil
		}
	}
	return users.User{}, users.ErrNotFound
}
