package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
)

var ErrInvalidAccessToken = errors.New("access token is invalid")

type Config struct {
	SecretKey       string        `envconfig:"HEALTHCARE_SECRET_KEY" required:"true"`
	AccessTokenTTL  time.Duration `envconfig:"HEALTHCARE_ACCESS_TOKEN_TTL" default:"15m"`
	RefreshTokenTTL time.Duration `envconfig:"HEALTHCARE_REFRESH_TOKEN_TTL" default:"720h"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

type Claims struct {
	jwt.RegisteredClaims
}

// TokenIssuer mints and parses the credentials used by the API: short-lived
// HS256 access tokens and opaque refresh tokens persisted by the repository.
type TokenIssuer struct {
	secret          []byte
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
}

func NewTokenIssuer(cfg *Config) (*TokenIssuer, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key is required")
	}
	return &TokenIssuer{
		secret:          []byte(cfg.SecretKey),
		accessTokenTTL:  cfg.AccessTokenTTL,
		refreshTokenTTL: cfg.RefreshTokenTTL,
	}, nil
}

func (t *TokenIssuer) IssueAccessToken(userId string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userId,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.accessTokenTTL)),
		},
	})
	return token.SignedString(t.secret)
}

// ParseAccessToken returns the subject of a valid access token.
func (t *TokenIssuer) ParseAccessToken(tokenString string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAccessToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidAccessToken
	}
	return claims.Subject, nil
}

// IssueRefreshToken generates an opaque refresh token. Revocation is handled
// by the refresh token repository, not by the token itself.
func (t *TokenIssuer) IssueRefreshToken() (token string, expiresAt time.Time) {
	return uuid.NewString(), time.Now().Add(t.refreshTokenTTL)
}
