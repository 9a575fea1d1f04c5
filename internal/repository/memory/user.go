package memory

import (
	"context"
	"strings"

	"legal-docs-service/internal/domain/user"
	apperrors "legal-docs-service/pkg/errors"

	"github.com/google/uuid"
)

type UserRepository struct {
	store *Store
	users []*user.User
}

func (r *UserRepository) Create(ctx context.Context, input user.CreateUserInput) (*user.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	email := strings.ToLower(input.Email)
	for _, u := range r.users {
		if u.Email == email && u.DeletedAt == nil {
			return nil, apperrors.Conflict("email already registered")
		}
	}

	role := input.Role
	if role == "" {
		role = user.RoleUser
	}

	ts := now()
	u := &user.User{
		ID:           uuid.New(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        email,
		PasswordHash: input.PasswordHash,
		Role:         role,
		Status:       user.StatusActive,
		Metadata:     map[string]any{},
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	r.users = append(r.users, u)

	out := *u
	return &out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id && u.DeletedAt == nil {
			out := *u
			return &out, nil
		}
	}
	return nil, apperrors.NotFound(errUserNotFound)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range r.users {
		if u.Email == email && u.DeletedAt == nil {
			out := *u
			return &out, nil
		}
	}
	return nil, apperrors.NotFound(errUserNotFound)
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, u := range r.users {
		if u.ID == id && u.DeletedAt == nil {
			ts := now()
			u.LastLogin = &ts
			u.UpdatedAt = ts
			return nil
		}
	}
	return apperrors.NotFound(errUserNotFound)
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*user.User
	for _, u := range r.users {
		if u.DeletedAt == nil {
			c := *u
			out = append(out, &c)
		}
	}
	if offset > 0 {
		if offset >= len(out) {
			return nil, nil
		}
		out = out[offset:]
	}
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}
