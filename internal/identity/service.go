package identity

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Service coordinates account lookups and credential checks.
type Service struct {
	store Store
}

// NewService creates a service backed by a store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register creates an account. Email and a valid role are required.
func (s *Service) Register(ctx context.Context, email, password string, role Role) (User, error) {
	if email == "" {
		return User{}, errors.New("identity: email required")
	}
	if !role.Valid() {
		return User{}, errors.New("identity: role required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	return s.store.Create(ctx, User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	})
}

// Authenticate checks credentials against an active account.
// Any failure maps to ErrInvalidCredentials so the login form leaks nothing.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.store.ByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.Active {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Students returns every account with the student role.
func (s *Service) Students(ctx context.Context) ([]User, error) {
	return s.store.ListByRole(ctx, RoleStudent)
}

// ActiveStudentEmails returns addresses for announcement fan-out.
func (s *Service) ActiveStudentEmails(ctx context.Context) ([]string, error) {
	students, err := s.store.ListByRole(ctx, RoleStudent)
	if err != nil {
		return nil, err
	}
	emails := make([]string, 0, len(students))
	for _, st := range students {
		if st.Active {
			emails = append(emails, st.Email)
		}
	}
	return emails, nil
}

// Student returns the account with the given id if it is a student.
func (s *Service) Student(ctx context.Context, id string) (*User, error) {
	u, err := s.store.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil || u.Role != RoleStudent {
		return nil, ErrNotFound
	}
	return u, nil
}

// ByID returns any account by id.
func (s *Service) ByID(ctx context.Context, id string) (*User, error) {
	u, err := s.store.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// UpdateProfile applies a student's own profile edits.
func (s *Service) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*User, error) {
	u, err := s.store.UpdateProfile(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}
