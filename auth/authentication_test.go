package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/labstack/echo/v4"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/caremesh/healthcare/auth"
	"github.com/caremesh/healthcare/users"
	usersTest "github.com/caremesh/healthcare/users/test"
)

type countingAuthenticator struct {
	delegate auth.Authenticator
	calls    int
}

func (c *countingAuthenticator) ValidateAndSetAuthData(token string, ec echo.Context) (bool, error) {
	c.calls++
	return c.delegate.ValidateAndSetAuthData(token, ec)
}

func newEchoContext(header string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

var _ = Describe("Authentication", func() {
	var issuer *auth.TokenIssuer
	var usersRepo *usersTest.FakeRepository
	var usersService users.Service
	var user *users.User
	var token string

	BeforeEach(func() {
		var err error
		issuer, err = auth.NewTokenIssuer(&auth.Config{
			SecretKey:       "test-secret",
			AccessTokenTTL:  time.Minute,
			RefreshTokenTTL: time.Hour,
		})
		Expect(err).ToNot(HaveOccurred())

		usersRepo = usersTest.NewFakeRepository()
		usersService, err = users.NewService(usersRepo, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())

		registered, err := usersService.Register(context.Background(), usersTest.RandomRegistration())
		Expect(err).ToNot(HaveOccurred())
		user = registered

		token, err = issuer.IssueAccessToken(user.Id)
		Expect(err).ToNot(HaveOccurred())
	})

	Describe("TokenFromRequest", func() {
		It("extracts the bearer token", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer abc")
			Expect(auth.TokenFromRequest(req)).To(Equal("abc"))
		})

		It("returns an empty string for other schemes", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Basic abc")
			Expect(auth.TokenFromRequest(req)).To(BeEmpty())
		})

		It("returns an empty string when the header is missing", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			Expect(auth.TokenFromRequest(req)).To(BeEmpty())
		})
	})

	Describe("TokenAuthenticator", func() {
		var authenticator auth.Authenticator

		BeforeEach(func() {
			authenticator = auth.NewTokenAuthenticator(issuer, usersService)
		})

		It("sets the auth data for a valid token", func() {
			ec := newEchoContext("Bearer " + token)
			valid, err := authenticator.ValidateAndSetAuthData(token, ec)
			Expect(err).ToNot(HaveOccurred())
			Expect(valid).To(BeTrue())

			authData := auth.GetAuthData(ec.Request().Context())
			Expect(authData).ToNot(BeNil())
			Expect(authData.SubjectId).To(Equal(user.Id))
		})

		It("rejects an invalid token", func() {
			ec := newEchoContext("")
			valid, err := authenticator.ValidateAndSetAuthData("garbage", ec)
			Expect(err).To(HaveOccurred())
			Expect(valid).To(BeFalse())
		})

		It("rejects a token of a disabled user", func() {
			usersRepo.Disable(user.Id)

			ec := newEchoContext("")
			valid, err := authenticator.ValidateAndSetAuthData(token, ec)
			Expect(err).To(HaveOccurred())
			Expect(valid).To(BeFalse())
		})
	})

	Describe("CachingAuthenticator", func() {
		var counting *countingAuthenticator
		var authenticator auth.Authenticator

		BeforeEach(func() {
			counting = &countingAuthenticator{delegate: auth.NewTokenAuthenticator(issuer, usersService)}

			var err error
			authenticator, err = auth.NewCachingAuthenticator(10, time.Minute, counting,
				func(a *auth.Auth) bool { return a != nil && a.SubjectId != "" })
			Expect(err).ToNot(HaveOccurred())
		})

		It("delegates the first validation and caches the result", func() {
			for i := 0; i < 3; i++ {
				ec := newEchoContext("Bearer " + token)
				valid, err := authenticator.ValidateAndSetAuthData(token, ec)
				Expect(err).ToNot(HaveOccurred())
				Expect(valid).To(BeTrue())
				Expect(auth.GetAuthData(ec.Request().Context()).SubjectId).To(Equal(user.Id))
			}

			Expect(counting.calls).To(Equal(1))
		})

		It("does not cache failed validations", func() {
			for i := 0; i < 2; i++ {
				ec := newEchoContext("")
				valid, _ := authenticator.ValidateAndSetAuthData("garbage", ec)
				Expect(valid).To(BeFalse())
			}

			Expect(counting.calls).To(Equal(2))
		})
	})

	Describe("Middleware", func() {
		var handler echo.HandlerFunc

		next := func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		}

		BeforeEach(func() {
			authenticator := auth.NewTokenAuthenticator(issuer, usersService)
			handler = auth.NewAuthMiddleware(authenticator, auth.AuthMiddlewareOpts{})(next)
		})

		It("returns unauthorized when the token is missing", func() {
			err := handler(newEchoContext(""))

			httpError := &echo.HTTPError{}
			Expect(err).To(BeAssignableToTypeOf(httpError))
			Expect(err.(*echo.HTTPError).Code).To(Equal(http.StatusUnauthorized))
		})

		It("returns unauthorized when the token is invalid", func() {
			err := handler(newEchoContext("Bearer garbage"))

			httpError := &echo.HTTPError{}
			Expect(err).To(BeAssignableToTypeOf(httpError))
			Expect(err.(*echo.HTTPError).Code).To(Equal(http.StatusUnauthorized))
		})

		It("calls the next handler for a valid token", func() {
			ec := newEchoContext("Bearer " + token)
			Expect(handler(ec)).To(Succeed())
		})

		It("skips authentication for skipped routes", func() {
			skipper := func(c echo.Context) bool { return true }
			skipping := auth.NewAuthMiddleware(auth.NewTokenAuthenticator(issuer, usersService), auth.AuthMiddlewareOpts{
				Skipper: skipper,
			})(next)

			Expect(skipping(newEchoContext(""))).To(Succeed())
		})
	})
})
