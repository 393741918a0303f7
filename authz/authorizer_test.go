package authz_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/caremesh/healthcare/authz"
)

var anonymous = map[string]interface{}{
	"subjectId": "",
}

var authenticated = map[string]interface{}{
	"subjectId": "1234567890",
}

var _ = Describe("Request Authorizer", func() {
	var authorizer authz.RequestAuthorizer

	BeforeEach(func() {
		var err error
		authorizer, err = authz.NewRequestAuthorizer(zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())
	})

	Describe("Evaluate policy", func() {
		It("allows anonymous access to the readiness probe", func() {
			input := map[string]interface{}{
				"path":   []string{"ready"},
				"method": "GET",
			}
			Expect(authorizer.EvaluatePolicy(context.Background(), input)).To(Succeed())
		})

		It("allows anonymous access to the health probe", func() {
			input := map[string]interface{}{
				"path":   []string{"health"},
				"method": "GET",
			}
			Expect(authorizer.EvaluatePolicy(context.Background(), input)).To(Succeed())
		})

		It("allows anonymous registration", func() {
			input := map[string]interface{}{
				"path":   []string{"api", "auth", "register"},
				"method": "POST",
				"auth":   anonymous,
			}
			Expect(authorizer.EvaluatePolicy(context.Background(), input)).To(Succeed())
		})

		It("allows anonymous login", func() {
			input := map[string]interface{}{
				"path":   []string{"api", "auth", "login"},
				"method": "POST",
			}
			Expect(authorizer.EvaluatePolicy(context.Background(), input)).To(Succeed())
		})

		It("allows anonymous token refresh", func() {
			input := map[string]interface{}{
				"path":   []string{"api", "auth", "refresh"},
				"method": "POST",
			}
			Expect(authorizer.EvaluatePolicy(context.Background(), input)).To(Succeed())
		})

		It("prevents anonymous access to patients", func() {
			input := map[string]interface{}{
				"path":   []string{"api", "patients"},
				"method": "GET",
				"auth":   anonymous,
			}
			err := authorizer.EvaluatePolicy(context.Background(), input)
			Expect(err).To(Equal(authz.ErrUnauthorized))
		})

		It("prevents anonymous logout", func() {
			input := map[string]interface{}{
				"path":   []string{"api", "auth", "logout"},
				"method": "POST",
				"auth":   anonymous,
			}
			err := authorizer.EvaluatePolicy(context.Background(), input)
			Expect(err).To(Equal(authz.ErrUnauthorized))
		})

		It("allows authenticated subjects to access patients", func() {
			input := map[string]interface{}{
				"path":   []string{"api", "patients"},
				"method": "GET",
				"auth":   authenticated,
			}
			Expect(authorizer.EvaluatePolicy(context.Background(), input)).To(Succeed())
		})

		It("allows authenticated subjects to access mappings", func() {
			input := map[string]interface{}{
				"path":   []string{"api", "mappings", "bulk-assign"},
				"method": "POST",
				"auth":   authenticated,
			}
			Expect(authorizer.EvaluatePolicy(context.Background(), input)).To(Succeed())
		})

		It("prevents requests without auth data", func() {
			input := map[string]interface{}{
				"path":   []string{"api", "doctors"},
				"method": "GET",
			}
			err := authorizer.EvaluatePolicy(context.Background(), input)
			Expect(err).To(Equal(authz.ErrUnauthorized))
		})
	})
})
