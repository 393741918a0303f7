package mappings

import (
	"context"

	"github.com/caremesh/healthcare/doctors"
	"github.com/caremesh/healthcare/patients"
)

// NewDoctorCounter lets the patients package count active assignments without
// importing this one.
func NewDoctorCounter(repo Repository) (patients.DoctorCounter, error) {
	return &doctorCounter{repo: repo}, nil
}

type doctorCounter struct {
	repo Repository
}

func (c *doctorCounter) CountActiveForPatient(ctx context.Context, patientId string) (int, error) {
	return c.repo.CountActiveForPatient(ctx, patientId)
}

// NewPatientCounter is the doctors side counterpart of NewDoctorCounter.
func NewPatientCounter(repo Repository) (doctors.PatientCounter, error) {
	return &patientCounter{repo: repo}, nil
}

type patientCounter struct {
	repo Repository
}

func (c *patientCounter) CountActiveForDoctor(ctx context.Context, doctorId string) (int, error) {
	return c.repo.CountActiveForDoctor(ctx, doctorId)
}
