package user

import "context"

// Repository is the persistence port for staff accounts.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context) ([]User, error)
	Create(ctx context.Context, u *User) (string, error)
	Update(ctx context.Context, id string, upd AccountUpdate) error
	SetPasswordHash(ctx context.Context, id, hash string, mustChange bool) error
	TouchLastAccess(ctx context.Context, id string) error
}
