package identity

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is a map-backed store for dev/testing.
type Memory struct {
	mu    sync.RWMutex
	users map[string]User
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{users: make(map[string]User)}
}

var _ Store = (*Memory)(nil)

// Create inserts a new account.
func (m *Memory) Create(_ context.Context, u User) (User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return User{}, errors.New("identity: email already registered")
		}
	}
	m.users[u.ID] = u
	return u, nil
}

// ByEmail returns the account with the given email, or nil when absent.
func (m *Memory) ByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

// ByID returns the account with the given id, or nil when absent.
func (m *Memory) ByID(_ context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// ListByRole returns all accounts carrying the role, ordered by email.
func (m *Memory) ListByRole(_ context.Context, role Role) ([]User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var users []User
	for _, u := range m.users {
		if u.Role == role {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

// UpdateProfile overwrites the profile fields present in upd.
func (m *Memory) UpdateProfile(_ context.Context, id string, upd ProfileUpdate) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	if upd.FullName != nil {
		u.FullName = upd.FullName
	}
	if upd.Bio != nil {
		u.Bio = upd.Bio
	}
	if upd.ProfileImage != nil {
		u.ProfileImage = upd.ProfileImage
	}
	m.users[id] = u
	return &u, nil
}
