package doctors

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caremesh/healthcare/store"
)

var (
	ErrNotFound              = errors.New("doctor not found")
	ErrDuplicateEmail        = errors.New("a doctor with this email already exists")
	ErrDuplicateLicense      = errors.New("a doctor with this license number already exists")
	ErrInvalidSpecialization = errors.New("invalid specialization")
	ErrNotOwner              = errors.New("only the creator can modify this doctor")
)

// HasActivePatientsError prevents deleting a doctor that still has patients
// assigned to it.
type HasActivePatientsError struct {
	Count int
}

func (e HasActivePatientsError) Error() string {
	return fmt.Sprintf("cannot delete doctor: doctor has %d active patient assignment(s)", e.Count)
}

var SpecializationLabels = map[string]string{
	"CARDIOLOGY":       "Cardiology",
	"DERMATOLOGY":      "Dermatology",
	"ENDOCRINOLOGY":    "Endocrinology",
	"GASTROENTEROLOGY": "Gastroenterology",
	"GENERAL_MEDICINE": "General Medicine",
	"NEUROLOGY":        "Neurology",
	"ONCOLOGY":         "Oncology",
	"ORTHOPEDICS":      "Orthopedics",
	"PEDIATRICS":       "Pediatrics",
	"PSYCHIATRY":       "Psychiatry",
	"RADIOLOGY":        "Radiology",
	"SURGERY":          "Surgery",
	"OTHER":            "Other",
}

func IsValidSpecialization(specialization string) bool {
	_, ok := SpecializationLabels[specialization]
	return ok
}

type Service interface {
	Create(ctx context.Context, doctor Doctor) (*Doctor, error)
	Get(ctx context.Context, id string) (*Doctor, error)
	List(ctx context.Context, filter *Filter, pagination store.Pagination, sort *store.Sort) ([]*Doctor, error)
	Update(ctx context.Context, userId string, id string, doctor Doctor) (*Doctor, error)
	Delete(ctx context.Context, userId string, id string) error
	Search(ctx context.Context, filter *SearchFilter, pagination store.Pagination) ([]*Doctor, error)
	ListBySpecialization(ctx context.Context, specialization string, pagination store.Pagination) ([]*Doctor, error)
	Stats(ctx context.Context) (*Stats, error)
}

// PatientCounter reports how many active patients are assigned to a doctor.
// It is implemented by the mappings package.
type PatientCounter interface {
	CountActiveForDoctor(ctx context.Context, doctorId string) (int, error)
}

type Doctor struct {
	Id                string
	Name              string
	Email             string
	PhoneNumber       string
	LicenseNumber     string
	Specialization    string
	YearsOfExperience int
	Qualification     string
	ClinicAddress     string
	ConsultationFee   float64
	AvailableDays     string
	AvailableTime     string
	CreatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	IsActive          bool
}

func (d *Doctor) SpecializationLabel() string {
	if label, ok := SpecializationLabels[d.Specialization]; ok {
		return label
	}
	return d.Specialization
}

type Filter struct {
	Specialization *string
	IsActive       *bool
	Search         *string
}

type SearchFilter struct {
	Query          *string
	Specialization *string
	MinExperience  *int
	MaxExperience  *int
	MinFee         *float64
	MaxFee         *float64
	AvailableDay   *string
}

type FeeStatistics struct {
	Average float64
	Minimum float64
	Maximum float64
}

type SpecializationPatientCount struct {
	Specialization string
	PatientCount   int
}

type Stats struct {
	TotalDoctors               int
	SpecializationDistribution map[string]int
	ExperienceDistribution     map[string]int
	FeeStatistics              FeeStatistics
	TopSpecializations         []SpecializationPatientCount
}
