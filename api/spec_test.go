package api_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/caremesh/healthcare/api"
)

var _ = Describe("GetSwagger", func() {
	It("loads a valid document", func() {
		swagger, err := api.GetSwagger()
		Expect(err).ToNot(HaveOccurred())
		Expect(swagger).ToNot(BeNil())
	})

	It("declares the documented routes", func() {
		swagger, err := api.GetSwagger()
		Expect(err).ToNot(HaveOccurred())

		for _, path := range []string{
			"/api/auth/register",
			"/api/auth/login",
			"/api/auth/refresh",
			"/api/auth/logout",
			"/api/auth/profile",
			"/api/patients",
			"/api/patients/{id}",
			"/api/patients/search",
			"/api/patients/stats",
			"/api/doctors",
			"/api/doctors/{id}",
			"/api/doctors/search",
			"/api/doctors/specialization/{specialization}",
			"/api/doctors/stats",
			"/api/mappings",
			"/api/mappings/{id}",
			"/api/mappings/unassigned-patients",
			"/api/mappings/bulk-assign",
			"/api/mappings/set-primary/{id}",
			"/api/mappings/stats",
		} {
			Expect(swagger.Paths.Find(path)).ToNot(BeNil(), path)
		}
	})
})
