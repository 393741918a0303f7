package users

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/caremesh/healthcare/store"
)

type Repository interface {
	Create(ctx context.Context, user User) (*User, error)
	Get(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateName(ctx context.Context, id string, name string) (*User, error)
}

func NewRepository(db *sql.DB) (Repository, error) {
	return &repository{db: db}, nil
}

type repository struct {
	db *sql.DB
}

const userColumns = "id, email, username, name, password_hash, is_active, created_at, updated_at"

func (r *repository) Create(ctx context.Context, user User) (*User, error) {
	query := `
		INSERT INTO users (email, username, name, password_hash, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + userColumns

	created, err := scanUser(r.db.QueryRowContext(ctx, query,
		user.Email, user.Username, user.Name, user.PasswordHash, user.IsActive))
	if err != nil {
		if store.IsDuplicateKeyError(err) {
			switch store.ConstraintName(err) {
			case "users_email_key":
				return nil, ErrDuplicateEmail
			case "users_username_key":
				return nil, ErrDuplicateUsername
			}
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return created, nil
}

func (r *repository) Get(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	return user, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error fetching user by email: %w", err)
	}

	return user, nil
}

func (r *repository) UpdateName(ctx context.Context, id string, name string) (*User, error) {
	query := `
		UPDATE users SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id, name))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}

	return user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.Id, &user.Email, &user.Username, &user.Name,
		&user.PasswordHash, &user.IsActive, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}
