package mappings

import (
	"context"
	"errors"
	"time"

	"github.com/caremesh/healthcare/doctors"
	"github.com/caremesh/healthcare/patients"
	"github.com/caremesh/healthcare/store"
)

var (
	ErrNotFound        = errors.New("mapping not found")
	ErrDuplicate       = errors.New("patient is already assigned to this doctor")
	ErrPatientNotFound = errors.New("patient not found")
	ErrDoctorNotFound  = errors.New("doctor not found")
	ErrPatientInactive = errors.New("patient is not active")
	ErrDoctorInactive  = errors.New("doctor is not active")
	ErrNoPatients      = errors.New("no patient ids provided")
)

type Service interface {
	Create(ctx context.Context, userId string, create Mapping) (*Mapping, error)
	Get(ctx context.Context, userId string, id string) (*Mapping, error)
	List(ctx context.Context, userId string, filter *Filter, pagination store.Pagination) ([]*Mapping, error)
	ListDoctorsForPatient(ctx context.Context, userId string, patientId string) ([]*doctors.Doctor, error)
	Update(ctx context.Context, userId string, id string, update Update) (*Mapping, error)
	Delete(ctx context.Context, userId string, id string) error
	ListUnassignedPatients(ctx context.Context, userId string, pagination store.Pagination) ([]*patients.Patient, error)
	BulkAssign(ctx context.Context, userId string, assignment BulkAssignment) (*BulkResult, error)
	SetPrimary(ctx context.Context, userId string, id string) (*Mapping, error)
	Stats(ctx context.Context, userId string) (*Stats, error)
}

type Mapping struct {
	Id         string
	PatientId  string
	DoctorId   string
	AssignedBy string
	AssignedAt time.Time
	Notes      *string
	IsPrimary  bool
	IsActive   bool

	// Populated from joined rows, never written.
	PatientName          string
	DoctorName           string
	DoctorSpecialization string
}

type Filter struct {
	IsPrimary      *bool
	IsActive       *bool
	Specialization *string
}

type Update struct {
	Notes     *string
	IsPrimary bool
}

type BulkAssignment struct {
	DoctorId   string
	PatientIds []string
	Notes      *string
	IsPrimary  bool
}

type SkippedPatient struct {
	PatientId string
	Reason    string
}

type BulkResult struct {
	Assigned []*Mapping
	Skipped  []SkippedPatient
}

type Stats struct {
	TotalMappings              int
	ActiveMappings             int
	PrimaryMappings            int
	PatientsWithDoctors        int
	PatientsWithoutDoctors     int
	AverageDoctorsPerPatient   float64
	SpecializationDistribution map[string]int
}
