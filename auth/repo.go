package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrTokenNotFound = errors.New("refresh token not found")

type RefreshToken struct {
	Token     string
	UserId    string
	ExpiresAt time.Time
}

func (t *RefreshToken) IsExpired() bool {
	return time.Now().After(t.ExpiresAt)
}

type RefreshTokenRepository interface {
	Create(ctx context.Context, userId string, token string, expiresAt time.Time) error
	Find(ctx context.Context, token string) (*RefreshToken, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

func NewRefreshTokenRepository(db *sql.DB) (RefreshTokenRepository, error) {
	return &refreshTokenRepository{db: db}, nil
}

type refreshTokenRepository struct {
	db *sql.DB
}

func (r *refreshTokenRepository) Create(ctx context.Context, userId string, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.ExecContext(ctx, query, token, userId, expiresAt); err != nil {
		return fmt.Errorf("error creating refresh token: %w", err)
	}
	return nil
}

func (r *refreshTokenRepository) Find(ctx context.Context, token string) (*RefreshToken, error) {
	query := `
		SELECT token, user_id, expires_at
		FROM refresh_tokens
		WHERE token = $1
	`
	refreshToken := &RefreshToken{}
	err := r.db.QueryRowContext(ctx, query, token).
		Scan(&refreshToken.Token, &refreshToken.UserId, &refreshToken.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, ErrTokenNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error fetching refresh token: %w", err)
	}
	return refreshToken, nil
}

func (r *refreshTokenRepository) Delete(ctx context.Context, token string) error {
	query := `DELETE FROM refresh_tokens WHERE token = $1`
	res, err := r.db.ExecContext(ctx, query, token)
	if err != nil {
		return fmt.Errorf("error deleting refresh token: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (r *refreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM refresh_tokens WHERE expires_at < now()`
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("error purging expired refresh tokens: %w", err)
	}
	return res.RowsAffected()
}
