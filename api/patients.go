package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	errs "github.com/caremesh/healthcare/errors"
	"github.com/caremesh/healthcare/patients"
)

// ListPatients
// (GET /api/patients)
func (h *Handler) ListPatients(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &patients.Filter{
		CreatedBy: currentUserId(c),
		Gender:    queryString(c, "gender"),
		IsActive:  queryBool(c, "is_active"),
		Search:    queryString(c, "search"),
	}

	list, err := h.patients.List(ctx, filter, pagination(c), sorting(c))
	if err != nil {
		return patientError(err)
	}

	return c.JSON(http.StatusOK, NewPatientListDto(list))
}

// CreatePatient
// (POST /api/patients)
func (h *Handler) CreatePatient(c echo.Context) error {
	ctx := c.Request().Context()

	dto := PatientRequest{}
	if err := c.Bind(&dto); err != nil {
		return errs.BadRequest
	}

	patient := NewPatient(dto)
	patient.CreatedBy = currentUserId(c)

	created, err := h.patients.Create(ctx, patient)
	if err != nil {
		return patientError(err)
	}

	return c.JSON(http.StatusCreated, PatientResponse{
		Message: "Patient created successfully",
		Patient: NewPatientDto(created),
	})
}

// GetPatient
// (GET /api/patients/{id})
func (h *Handler) GetPatient(c echo.Context) error {
	ctx := c.Request().Context()

	patient, err := h.patients.Get(ctx, currentUserId(c), c.Param("id"))
	if err != nil {
		return patientError(err)
	}

	assigned, err := h.mappings.ListDoctorsForPatient(ctx, currentUserId(c), patient.Id)
	if err != nil {
		return patientError(err)
	}

	dto := NewPatientDto(patient)
	count := len(assigned)
	dto.ActiveDoctorCount = &count
	return c.JSON(http.StatusOK, dto)
}

// UpdatePatient
// (PUT /api/patients/{id})
func (h *Handler) UpdatePatient(c echo.Context) error {
	ctx := c.Request().Context()

	dto := PatientRequest{}
	if err := c.Bind(&dto); err != nil {
		return errs.BadRequest
	}

	updated, err := h.patients.Update(ctx, currentUserId(c), c.Param("id"), NewPatient(dto))
	if err != nil {
		return patientError(err)
	}

	return c.JSON(http.StatusOK, PatientResponse{
		Message: "Patient updated successfully",
		Patient: NewPatientDto(updated),
	})
}

// DeletePatient
// (DELETE /api/patients/{id})
func (h *Handler) DeletePatient(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.patients.Delete(ctx, currentUserId(c), c.Param("id")); err != nil {
		return patientError(err)
	}

	return c.JSON(http.StatusOK, Message{Message: "Patient deleted successfully"})
}

// SearchPatients
// (GET /api/patients/search)
func (h *Handler) SearchPatients(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &patients.SearchFilter{
		CreatedBy:    currentUserId(c),
		Query:        queryString(c, "q"),
		Gender:       queryString(c, "gender"),
		AgeMin:       queryInt(c, "age_min"),
		AgeMax:       queryInt(c, "age_max"),
		HasAllergies: queryBool(c, "has_allergies"),
	}

	list, err := h.patients.Search(ctx, filter, pagination(c))
	if err != nil {
		return patientError(err)
	}

	return c.JSON(http.StatusOK, NewPatientListDto(list))
}

// GetPatientStats
// (GET /api/patients/stats)
func (h *Handler) GetPatientStats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.patients.Stats(ctx, currentUserId(c))
	if err != nil {
		return patientError(err)
	}

	return c.JSON(http.StatusOK, NewPatientStatsDto(stats))
}

func patientError(err error) error {
	hasActiveDoctors := patients.HasActiveDoctorsError{}
	switch {
	case errors.Is(err, patients.ErrNotFound):
		return errs.HttpError{Code: http.StatusNotFound, Err: err}
	case errors.Is(err, patients.ErrDuplicateEmail):
		return errs.HttpError{Code: http.StatusConflict, Err: err}
	case errors.Is(err, patients.ErrInvalidGender),
		errors.Is(err, patients.ErrFutureBirthDate),
		errors.Is(err, patients.ErrInvalidPhone):
		return errs.HttpError{Code: http.StatusBadRequest, Err: err}
	case errors.As(err, &hasActiveDoctors):
		return errs.HttpError{Code: http.StatusBadRequest, Err: err}
	}
	return err
}
