package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	errs "github.com/caremesh/healthcare/errors"
	"github.com/caremesh/healthcare/mappings"
)

// ListMappings
// (GET /api/mappings)
func (h *Handler) ListMappings(c echo.Context) error {
	ctx := c.Request().Context()

	filter := &mappings.Filter{
		IsPrimary:      queryBool(c, "is_primary"),
		IsActive:       queryBool(c, "is_active"),
		Specialization: queryString(c, "specialization"),
	}

	list, err := h.mappings.List(ctx, currentUserId(c), filter, pagination(c))
	if err != nil {
		return mappingError(err)
	}

	return c.JSON(http.StatusOK, NewMappingListDto(list))
}

// CreateMapping
// (POST /api/mappings)
func (h *Handler) CreateMapping(c echo.Context) error {
	ctx := c.Request().Context()

	dto := CreateMappingRequest{}
	if err := c.Bind(&dto); err != nil {
		return errs.BadRequest
	}
	if dto.PatientId == "" || dto.DoctorId == "" {
		return errs.HttpError{Code: http.StatusBadRequest, Err: errors.New("patient_id and doctor_id are required")}
	}

	mapping := mappings.Mapping{
		PatientId: dto.PatientId,
		DoctorId:  dto.DoctorId,
		Notes:     dto.Notes,
	}
	if dto.IsPrimary != nil {
		mapping.IsPrimary = *dto.IsPrimary
	}

	created, err := h.mappings.Create(ctx, currentUserId(c), mapping)
	if err != nil {
		return mappingError(err)
	}

	return c.JSON(http.StatusCreated, MappingResponse{
		Message: "Doctor assigned to patient successfully",
		Mapping: NewMappingDto(created),
	})
}

// ListPatientDoctors returns the active doctors assigned to a patient.
// (GET /api/mappings/{id})
func (h *Handler) ListPatientDoctors(c echo.Context) error {
	ctx := c.Request().Context()

	list, err := h.mappings.ListDoctorsForPatient(ctx, currentUserId(c), c.Param("id"))
	if err != nil {
		return mappingError(err)
	}

	return c.JSON(http.StatusOK, NewDoctorListDto(list))
}

// UpdateMapping
// (PUT /api/mappings/{id})
func (h *Handler) UpdateMapping(c echo.Context) error {
	ctx := c.Request().Context()

	dto := UpdateMappingRequest{}
	if err := c.Bind(&dto); err != nil {
		return errs.BadRequest
	}

	update := mappings.Update{Notes: dto.Notes}
	if dto.IsPrimary != nil {
		update.IsPrimary = *dto.IsPrimary
	}

	updated, err := h.mappings.Update(ctx, currentUserId(c), c.Param("id"), update)
	if err != nil {
		return mappingError(err)
	}

	return c.JSON(http.StatusOK, MappingResponse{
		Message: "Mapping updated successfully",
		Mapping: NewMappingDto(updated),
	})
}

// DeleteMapping
// (DELETE /api/mappings/{id})
func (h *Handler) DeleteMapping(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.mappings.Delete(ctx, currentUserId(c), c.Param("id")); err != nil {
		return mappingError(err)
	}

	return c.JSON(http.StatusOK, Message{Message: "Doctor unassigned from patient successfully"})
}

// ListUnassignedPatients
// (GET /api/mappings/unassigned-patients)
func (h *Handler) ListUnassignedPatients(c echo.Context) error {
	ctx := c.Request().Context()

	list, err := h.mappings.ListUnassignedPatients(ctx, currentUserId(c), pagination(c))
	if err != nil {
		return mappingError(err)
	}

	return c.JSON(http.StatusOK, NewPatientListDto(list))
}

// BulkAssign
// (POST /api/mappings/bulk-assign)
func (h *Handler) BulkAssign(c echo.Context) error {
	ctx := c.Request().Context()

	dto := BulkAssignRequest{}
	if err := c.Bind(&dto); err != nil {
		return errs.BadRequest
	}
	if dto.DoctorId == "" {
		return errs.HttpError{Code: http.StatusBadRequest, Err: errors.New("doctor_id is required")}
	}

	assignment := mappings.BulkAssignment{
		DoctorId:   dto.DoctorId,
		PatientIds: dto.PatientIds,
		Notes:      dto.Notes,
	}
	if dto.IsPrimary != nil {
		assignment.IsPrimary = *dto.IsPrimary
	}

	result, err := h.mappings.BulkAssign(ctx, currentUserId(c), assignment)
	if err != nil {
		return mappingError(err)
	}

	return c.JSON(http.StatusCreated, NewBulkAssignResponseDto(result))
}

// SetPrimaryDoctor
// (POST /api/mappings/set-primary/{id})
func (h *Handler) SetPrimaryDoctor(c echo.Context) error {
	ctx := c.Request().Context()

	updated, err := h.mappings.SetPrimary(ctx, currentUserId(c), c.Param("id"))
	if err != nil {
		return mappingError(err)
	}

	return c.JSON(http.StatusOK, MappingResponse{
		Message: "Primary doctor updated successfully",
		Mapping: NewMappingDto(updated),
	})
}

// GetMappingStats
// (GET /api/mappings/stats)
func (h *Handler) GetMappingStats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.mappings.Stats(ctx, currentUserId(c))
	if err != nil {
		return mappingError(err)
	}

	return c.JSON(http.StatusOK, NewMappingStatsDto(stats))
}

func mappingError(err error) error {
	switch {
	case errors.Is(err, mappings.ErrNotFound):
		return errs.HttpError{Code: http.StatusNotFound, Err: err}
	case errors.Is(err, mappings.ErrDuplicate):
		return errs.HttpError{Code: http.StatusConflict, Err: err}
	case errors.Is(err, mappings.ErrPatientNotFound),
		errors.Is(err, mappings.ErrDoctorNotFound),
		errors.Is(err, mappings.ErrPatientInactive),
		errors.Is(err, mappings.ErrDoctorInactive),
		errors.Is(err, mappings.ErrNoPatients):
		return errs.HttpError{Code: http.StatusBadRequest, Err: err}
	}
	return err
}
