package users

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrDuplicateEmail     = errors.New("a user with this email already exists")
	ErrDuplicateUsername  = errors.New("a user with this username already exists")
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
	ErrAccountDisabled    = errors.New("user account is disabled")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
)

const minPasswordLength = 8

type Service interface {
	Register(ctx context.Context, registration Registration) (*User, error)
	Authenticate(ctx context.Context, email string, password string) (*User, error)
	Get(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*User, error)
}

type User struct {
	Id           string
	Email        string
	Username     string
	Name         string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Registration struct {
	Name     string
	Email    string
	Username string
	Password string
}

type ProfileUpdate struct {
	Name string
}
