package api

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/caremesh/healthcare/store"
)

type HealthCheck struct {
	ready bool
	db    *sql.DB
}

func NewHealthCheck(db *sql.DB) *HealthCheck {
	return &HealthCheck{db: db}
}

func (h *HealthCheck) SetReady(ready bool) {
	h.ready = ready
}

// Readiness probe
func (h *HealthCheck) Ready(c echo.Context) error {
	if !h.ready {
		return c.NoContent(http.StatusBadRequest)
	}

	return c.NoContent(http.StatusOK)
}

// Health reports liveness of the service and its database connection.
func (h *HealthCheck) Health(c echo.Context) error {
	ctx, cancel := store.NewDbContext()
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, HealthStatus{
			Status: "error",
			Error:  err.Error(),
		})
	}

	return c.JSON(http.StatusOK, HealthStatus{Status: "ok"})
}
