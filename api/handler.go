package api

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"github.com/caremesh/healthcare/auth"
	"github.com/caremesh/healthcare/doctors"
	"github.com/caremesh/healthcare/mappings"
	"github.com/caremesh/healthcare/patients"
	"github.com/caremesh/healthcare/store"
	"github.com/caremesh/healthcare/users"
)

type Handler struct {
	auth     auth.Service
	users    users.Service
	patients patients.Service
	doctors  doctors.Service
	mappings mappings.Service
}

type Params struct {
	fx.In

	Auth     auth.Service
	Users    users.Service
	Patients patients.Service
	Doctors  doctors.Service
	Mappings mappings.Service
}

func NewHandler(p Params) *Handler {
	return &Handler{
		auth:     p.Auth,
		users:    p.Users,
		patients: p.Patients,
		doctors:  p.Doctors,
		mappings: p.Mappings,
	}
}

func pagination(c echo.Context) store.Pagination {
	page := store.DefaultPagination()
	if offset, err := strconv.Atoi(c.QueryParam("offset")); err == nil && offset >= 0 {
		page = page.WithOffset(offset)
	}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil && limit > 0 {
		page = page.WithLimit(limit)
	}
	return page
}

func sorting(c echo.Context) *store.Sort {
	attribute := c.QueryParam("sort_by")
	if attribute == "" {
		return nil
	}
	return &store.Sort{
		Attribute: attribute,
		Ascending: c.QueryParam("order") != "desc",
	}
}

func queryString(c echo.Context, name string) *string {
	if value := c.QueryParam(name); value != "" {
		return &value
	}
	return nil
}

func queryBool(c echo.Context, name string) *bool {
	if value, err := strconv.ParseBool(c.QueryParam(name)); err == nil {
		return &value
	}
	return nil
}

func queryInt(c echo.Context, name string) *int {
	if value, err := strconv.Atoi(c.QueryParam(name)); err == nil {
		return &value
	}
	return nil
}

func queryFloat(c echo.Context, name string) *float64 {
	if value, err := strconv.ParseFloat(c.QueryParam(name), 64); err == nil {
		return &value
	}
	return nil
}

// currentUserId returns the authenticated subject set by the auth middleware.
func currentUserId(c echo.Context) string {
	if authData := auth.GetAuthData(c.Request().Context()); authData != nil {
		return authData.SubjectId
	}
	return ""
}
