package identity

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository persists users in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

var _ Store = (*Repository)(nil)

const userColumns = `id, email, password_hash, role, active, full_name, bio, profile_image, created_at`

// Create inserts a new account.
func (r *Repository) Create(ctx context.Context, u User) (User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, role, active, full_name, bio, profile_image, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, u.ID, u.Email, u.PasswordHash, u.Role, u.Active, u.FullName, u.Bio, u.ProfileImage, u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// ByEmail returns the account with the given email, or nil when absent.
func (r *Repository) ByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

// ByID returns the account with the given id, or nil when absent.
func (r *Repository) ByID(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// ListByRole returns all accounts carrying the role, ordered by email.
func (r *Repository) ListByRole(ctx context.Context, role Role) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY email`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Active, &u.FullName, &u.Bio, &u.ProfileImage, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateProfile overwrites the profile fields present in upd.
func (r *Repository) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*User, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE users
		SET full_name     = COALESCE($2, full_name),
		    bio           = COALESCE($3, bio),
		    profile_image = COALESCE($4, profile_image)
		WHERE id = $1
		RETURNING `+userColumns+`
	`, id, upd.FullName, upd.Bio, upd.ProfileImage)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.Active, &u.FullName, &u.Bio, &u.ProfileImage, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
