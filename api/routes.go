package api

import (
	"github.com/labstack/echo/v4"
)

// RegisterHandlers wires the API routes. Static segments are registered
// alongside parameterized ones; echo gives them precedence.
func RegisterHandlers(e *echo.Echo, h *Handler) {
	g := e.Group("/api")

	g.POST("/auth/register", h.Register)
	g.POST("/auth/login", h.Login)
	g.POST("/auth/refresh", h.RefreshToken)
	g.POST("/auth/logout", h.Logout)
	g.GET("/auth/profile", h.GetProfile)
	g.PUT("/auth/profile", h.UpdateProfile)

	g.GET("/patients", h.ListPatients)
	g.POST("/patients", h.CreatePatient)
	g.GET("/patients/search", h.SearchPatients)
	g.GET("/patients/stats", h.GetPatientStats)
	g.GET("/patients/:id", h.GetPatient)
	g.PUT("/patients/:id", h.UpdatePatient)
	g.DELETE("/patients/:id", h.DeletePatient)

	g.GET("/doctors", h.ListDoctors)
	g.POST("/doctors", h.CreateDoctor)
	g.GET("/doctors/search", h.SearchDoctors)
	g.GET("/doctors/stats", h.GetDoctorStats)
	g.GET("/doctors/specialization/:specialization", h.ListDoctorsBySpecialization)
	g.GET("/doctors/:id", h.GetDoctor)
	g.PUT("/doctors/:id", h.UpdateDoctor)
	g.DELETE("/doctors/:id", h.DeleteDoctor)

	g.GET("/mappings", h.ListMappings)
	g.POST("/mappings", h.CreateMapping)
	g.GET("/mappings/unassigned-patients", h.ListUnassignedPatients)
	g.POST("/mappings/bulk-assign", h.BulkAssign)
	g.POST("/mappings/set-primary/:id", h.SetPrimaryDoctor)
	g.GET("/mappings/stats", h.GetMappingStats)
	g.GET("/mappings/:id", h.ListPatientDoctors)
	g.PUT("/mappings/:id", h.UpdateMapping)
	g.DELETE("/mappings/:id", h.DeleteMapping)
}
