package auth

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/caremesh/healthcare/users"
)

var ErrInvalidRefreshToken = errors.New("refresh token is invalid or expired")

type TokenPair struct {
	Access  string
	Refresh string
}

// Service implements the authentication flows: registration and login issue a
// token pair, refresh exchanges a live refresh token for a new access token,
// and logout revokes the refresh token.
type Service interface {
	Register(ctx context.Context, registration users.Registration) (*users.User, *TokenPair, error)
	Login(ctx context.Context, email string, password string) (*users.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Logout(ctx context.Context, refreshToken string) error
}

type service struct {
	users  users.Service
	issuer *TokenIssuer
	tokens RefreshTokenRepository
	logger *zap.SugaredLogger
}

var _ Service = &service{}

func NewService(usersService users.Service, issuer *TokenIssuer, tokens RefreshTokenRepository, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		users:  usersService,
		issuer: issuer,
		tokens: tokens,
		logger: logger,
	}, nil
}

func (s *service) Register(ctx context.Context, registration users.Registration) (*users.User, *TokenPair, error) {
	user, err := s.users.Register(ctx, registration)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokenPair(ctx, user.Id)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *service) Login(ctx context.Context, email string, password string) (*users.User, *TokenPair, error) {
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokenPair(ctx, user.Id)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	token, err := s.tokens.Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return "", ErrInvalidRefreshToken
		}
		return "", err
	}

	if token.IsExpired() {
		if err := s.tokens.Delete(ctx, token.Token); err != nil && !errors.Is(err, ErrTokenNotFound) {
			s.logger.Warnw("unable to delete expired refresh token", "error", err)
		}
		return "", ErrInvalidRefreshToken
	}

	user, err := s.users.Get(ctx, token.UserId)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}
	if !user.IsActive {
		return "", users.ErrAccountDisabled
	}

	return s.issuer.IssueAccessToken(user.Id)
}

func (s *service) Logout(ctx context.Context, refreshToken string) error {
	if err := s.tokens.Delete(ctx, refreshToken); err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return ErrInvalidRefreshToken
		}
		return err
	}
	return nil
}

func (s *service) issueTokenPair(ctx context.Context, userId string) (*TokenPair, error) {
	access, err := s.issuer.IssueAccessToken(userId)
	if err != nil {
		return nil, err
	}

	refresh, expiresAt := s.issuer.IssueRefreshToken()
	if err := s.tokens.Create(ctx, userId, refresh, expiresAt); err != nil {
		return nil, err
	}

	return &TokenPair{Access: access, Refresh: refresh}, nil
}
