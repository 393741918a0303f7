package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/caremesh/healthcare/doctors"
	errs "github.com/caremesh/healthcare/errors"
)

// ListDoctors
// (GET /api/doctors)
func (h *Handler) ListDoctors(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &doctors.Filter{
		Specialization: queryString(c, "specialization"),
		IsActive:       queryBool(c, "is_active"),
		Search:         queryString(c, "search"),
	}

	list, err := h.doctors.List(ctx, filter, pagination(c), sorting(c))
	if err != nil {
		return doctorError(err)
	}

	return c.JSON(http.StatusOK, NewDoctorListDto(list))
}

// CreateDoctor
// (POST /api/doctors)
func (h *Handler) CreateDoctor(c echo.Context) error {
	ctx := c.Request().Context()

	dto := DoctorRequest{}
	if err := c.Bind(&dto); err != nil {
		return errs.BadRequest
	}

	doctor := NewDoctor(dto)
	doctor.CreatedBy = currentUserId(c)

	created, err := h.doctors.Create(ctx, doctor)
	if err != nil {
		return doctorError(err)
	}

	return c.JSON(http.StatusCreated, DoctorResponse{
		Message: "Doctor created successfully",
		Doctor:  NewDoctorDto(created),
	})
}

// GetDoctor
// (GET /api/doctors/{id})
func (h *Handler) GetDoctor(c echo.Context) error {
	ctx := c.Request().Context()

	doctor, err := h.doctors.Get(ctx, c.Param("id"))
	if err != nil {
		return doctorError(err)
	}

	return c.JSON(http.StatusOK, NewDoctorDto(doctor))
}

// UpdateDoctor
// (PUT /api/doctors/{id})
func (h *Handler) UpdateDoctor(c echo.Context) error {
	ctx := c.Request().Context()

	dto := DoctorRequest{}
	if err := c.Bind(&dto); err != nil {
		return errs.BadRequest
	}

	updated, err := h.doctors.Update(ctx, currentUserId(c), c.Param("id"), NewDoctor(dto))
	if err != nil {
		return doctorError(err)
	}

	return c.JSON(http.StatusOK, DoctorResponse{
		Message: "Doctor updated successfully",
		Doctor:  NewDoctorDto(updated),
	})
}

// DeleteDoctor
// (DELETE /api/doctors/{id})
func (h *Handler) DeleteDoctor(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.doctors.Delete(ctx, currentUserId(c), c.Param("id")); err != nil {
		return doctorError(err)
	}

	return c.JSON(http.StatusOK, Message{Message: "Doctor deleted successfully"})
}

// SearchDoctors
// (GET /api/doctors/search)
func (h *Handler) SearchDoctors(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &doctors.SearchFilter{
		Query:          queryString(c, "q"),
		Specialization: queryString(c, "specialization"),
		MinExperience:  queryInt(c, "min_experience"),
		MaxExperience:  queryInt(c, "max_experience"),
		MinFee:         queryFloat(c, "min_fee"),
		MaxFee:         queryFloat(c, "max_fee"),
		AvailableDay:   queryString(c, "available_day"),
	}

	list, err := h.doctors.Search(ctx, filter, pagination(c))
	if err != nil {
		return doctorError(err)
	}

	return c.JSON(http.StatusOK, NewDoctorListDto(list))
}

// ListDoctorsBySpecialization
// (GET /api/doctors/specialization/{specialization})
func (h *Handler) ListDoctorsBySpecialization(c echo.Context) error {
	ctx := c.Request().Context()

	specialization := strings.ToUpper(c.Param("specialization"))
	list, err := h.doctors.ListBySpecialization(ctx, specialization, pagination(c))
	if err != nil {
		return doctorError(err)
	}

	return c.JSON(http.StatusOK, NewDoctorListDto(list))
}

// GetDoctorStats
// (GET /api/doctors/stats)
func (h *Handler) GetDoctorStats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.doctors.Stats(ctx)
	if err != nil {
		return doctorError(err)
	}

	return c.JSON(http.StatusOK, NewDoctorStatsDto(stats))
}

func doctorError(err error) error {
	hasActivePatients := doctors.HasActivePatientsError{}
	switch {
	case errors.Is(err, doctors.ErrNotFound):
		return errs.HttpError{Code: http.StatusNotFound, Err: err}
	case errors.Is(err, doctors.ErrDuplicateEmail), errors.Is(err, doctors.ErrDuplicateLicense):
		return errs.HttpError{Code: http.StatusConflict, Err: err}
	case errors.Is(err, doctors.ErrInvalidSpecialization):
		return errs.HttpError{
			Code: http.StatusBadRequest,
			Err:  fmt.Errorf("%w: must be one of %s", err, strings.Join(validSpecializations(), ", ")),
		}
	case errors.Is(err, doctors.ErrNotOwner):
		return errs.HttpError{Code: http.StatusForbidden, Err: err}
	case errors.As(err, &hasActivePatients):
		return errs.HttpError{Code: http.StatusBadRequest, Err: err}
	}
	return err
}

func validSpecializations() []string {
	valid := make([]string, 0, len(doctors.SpecializationLabels))
	for specialization := range doctors.SpecializationLabels {
		valid = append(valid, specialization)
	}
	sort.Strings(valid)
	return valid
}
