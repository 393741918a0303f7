package auth_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/caremesh/healthcare/auth"
	"github.com/caremesh/healthcare/users"
	usersTest "github.com/caremesh/healthcare/users/test"
)

type fakeTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]auth.RefreshToken
}

var _ auth.RefreshTokenRepository = &fakeTokenRepository{}

func newFakeTokenRepository() *fakeTokenRepository {
	return &fakeTokenRepository{tokens: map[string]auth.RefreshToken{}}
}

func (f *fakeTokenRepository) Create(ctx context.Context, userId string, token string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = auth.RefreshToken{Token: token, UserId: userId, ExpiresAt: expiresAt}
	return nil
}

func (f *fakeTokenRepository) Find(ctx context.Context, token string) (*auth.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if found, ok := f.tokens[token]; ok {
		return &found, nil
	}
	return nil, auth.ErrTokenNotFound
}

func (f *fakeTokenRepository) Delete(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tokens[token]; !ok {
		return auth.ErrTokenNotFound
	}
	delete(f.tokens, token)
	return nil
}

func (f *fakeTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for token, refreshToken := range f.tokens {
		if refreshToken.IsExpired() {
			delete(f.tokens, token)
			count++
		}
	}
	return count, nil
}

func (f *fakeTokenRepository) Expire(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if found, ok := f.tokens[token]; ok {
		found.ExpiresAt = time.Now().Add(-time.Minute)
		f.tokens[token] = found
	}
}

var _ = Describe("Auth Service", func() {
	var service auth.Service
	var usersService users.Service
	var usersRepo *usersTest.FakeRepository
	var tokens *fakeTokenRepository

	BeforeEach(func() {
		usersRepo = usersTest.NewFakeRepository()
		tokens = newFakeTokenRepository()

		var err error
		usersService, err = users.NewService(usersRepo, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())

		issuer, err := auth.NewTokenIssuer(&auth.Config{
			SecretKey:       "test-secret",
			AccessTokenTTL:  time.Minute,
			RefreshTokenTTL: time.Hour,
		})
		Expect(err).ToNot(HaveOccurred())

		service, err = auth.NewService(usersService, issuer, tokens, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())
	})

	Describe("Register", func() {
		It("issues a token pair", func() {
			user, pair, err := service.Register(context.Background(), usersTest.RandomRegistration())
			Expect(err).ToNot(HaveOccurred())
			Expect(user.Id).ToNot(BeEmpty())
			Expect(pair.Access).ToNot(BeEmpty())
			Expect(pair.Refresh).ToNot(BeEmpty())
		})

		It("persists the refresh token", func() {
			user, pair, err := service.Register(context.Background(), usersTest.RandomRegistration())
			Expect(err).ToNot(HaveOccurred())

			stored, err := tokens.Find(context.Background(), pair.Refresh)
			Expect(err).ToNot(HaveOccurred())
			Expect(stored.UserId).To(Equal(user.Id))
		})
	})

	Describe("Login", func() {
		var registration users.Registration

		BeforeEach(func() {
			registration = usersTest.RandomRegistration()
			_, _, err := service.Register(context.Background(), registration)
			Expect(err).ToNot(HaveOccurred())
		})

		It("issues a token pair for valid credentials", func() {
			_, pair, err := service.Login(context.Background(), registration.Email, registration.Password)
			Expect(err).ToNot(HaveOccurred())
			Expect(pair.Access).ToNot(BeEmpty())
			Expect(pair.Refresh).ToNot(BeEmpty())
		})

		It("rejects invalid credentials", func() {
			_, _, err := service.Login(context.Background(), registration.Email, "wrong-password")
			Expect(err).To(MatchError(users.ErrInvalidCredentials))
		})
	})

	Describe("Refresh", func() {
		var user *users.User
		var pair *auth.TokenPair

		BeforeEach(func() {
			var err error
			user, pair, err = service.Register(context.Background(), usersTest.RandomRegistration())
			Expect(err).ToNot(HaveOccurred())
		})

		It("issues a new access token", func() {
			access, err := service.Refresh(context.Background(), pair.Refresh)
			Expect(err).ToNot(HaveOccurred())
			Expect(access).ToNot(BeEmpty())
		})

		It("rejects an unknown refresh token", func() {
			_, err := service.Refresh(context.Background(), "unknown")
			Expect(err).To(MatchError(auth.ErrInvalidRefreshToken))
		})

		It("rejects and deletes an expired refresh token", func() {
			tokens.Expire(pair.Refresh)

			_, err := service.Refresh(context.Background(), pair.Refresh)
			Expect(err).To(MatchError(auth.ErrInvalidRefreshToken))

			_, err = tokens.Find(context.Background(), pair.Refresh)
			Expect(err).To(MatchError(auth.ErrTokenNotFound))
		})

		It("rejects a disabled account", func() {
			usersRepo.Disable(user.Id)

			_, err := service.Refresh(context.Background(), pair.Refresh)
			Expect(err).To(MatchError(users.ErrAccountDisabled))
		})
	})

	Describe("Logout", func() {
		It("revokes the refresh token", func() {
			_, pair, err := service.Register(context.Background(), usersTest.RandomRegistration())
			Expect(err).ToNot(HaveOccurred())

			Expect(service.Logout(context.Background(), pair.Refresh)).To(Succeed())

			_, err = service.Refresh(context.Background(), pair.Refresh)
			Expect(err).To(MatchError(auth.ErrInvalidRefreshToken))
		})

		It("returns an error for an unknown token", func() {
			err := service.Logout(context.Background(), "unknown")
			Expect(err).To(MatchError(auth.ErrInvalidRefreshToken))
		})
	})
})
