package testutil

import (
	"context"

	"github.com/google/uuid"

	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/user"
)

// MockUserRepository is a mock implementation of user.Repository for testing.
type MockUserRepository struct {
	FindByEmailFunc     func(ctx context.Context, email string) (*user.User, error)
	FindByIDFunc        func(ctx context.Context, id string) (*user.User, error)
	ListFunc            func(ctx context.Context) ([]user.User, error)
	CreateFunc          func(ctx context.Context, u *user.User) (string, error)
	UpdateFunc          func(ctx context.Context, id string, upd user.AccountUpdate) error
	SetPasswordHashFunc func(ctx context.Context, id, hash string, mustChange bool) error
	TouchLastAccessFunc func(ctx context.Context, id string) error
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, user.ErrNotFound
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, user.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context) ([]user.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []user.User{}, nil
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) (string, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, u)
	}
	return uuid.NewString(), nil
}

func (m *MockUserRepository) Update(ctx context.Context, id string, upd user.AccountUpdate) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, upd)
	}
	return nil
}

func (m *MockUserRepository) SetPasswordHash(ctx context.Context, id, hash string, mustChange bool) error {
	if m.SetPasswordHashFunc != nil {
		return m.SetPasswordHashFunc(ctx, id, hash, mustChange)
	}
	return nil
}

func (m *MockUserRepository) TouchLastAccess(ctx context.Context, id string) error {
	if m.TouchLastAccessFunc != nil {
		return m.TouchLastAccessFunc(ctx, id)
	}
	return nil
}

// Ensure MockUserRepository implements user.Repository interface.
var _ user.Repository = (*MockUserRepository)(nil)
