package identity

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a referenced user does not exist.
var ErrNotFound = errors.New("identity: user not found")

// ErrInvalidCredentials is returned on any failed login attempt.
var ErrInvalidCredentials = errors.New("identity: invalid credentials")

// ProfileUpdate carries the fields a student may change on their own account.
// Nil fields are left untouched.
type ProfileUpdate struct {
	FullName     *string
	Bio          *string
	ProfileImage *string
}

// Store persists user accounts.
type Store interface {
	Create(ctx context.Context, u User) (User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	ByID(ctx context.Context, id string) (*User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*User, error)
}
