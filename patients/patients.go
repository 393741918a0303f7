package patients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/caremesh/healthcare/store"
)

var (
	ErrNotFound        = errors.New("patient not found")
	ErrDuplicateEmail  = errors.New("a patient with this email already exists")
	ErrInvalidGender   = errors.New("gender must be one of M, F or O")
	ErrFutureBirthDate = errors.New("date of birth cannot be in the future")
	ErrInvalidPhone    = errors.New("please enter a valid phone number")
)

// HasActiveDoctorsError prevents deleting a patient that still has doctors
// assigned to it.
type HasActiveDoctorsError struct {
	Count int
}

func (e HasActiveDoctorsError) Error() string {
	return fmt.Sprintf("cannot delete patient: patient has %d active doctor assignment(s)", e.Count)
}

const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "O"
)

var GenderLabels = map[string]string{
	GenderMale:   "Male",
	GenderFemale: "Female",
	GenderOther:  "Other",
}

type Service interface {
	Create(ctx context.Context, patient Patient) (*Patient, error)
	Get(ctx context.Context, userId string, id string) (*Patient, error)
	List(ctx context.Context, filter *Filter, pagination store.Pagination, sort *store.Sort) ([]*Patient, error)
	Update(ctx context.Context, userId string, id string, patient Patient) (*Patient, error)
	Delete(ctx context.Context, userId string, id string) error
	Search(ctx context.Context, filter *SearchFilter, pagination store.Pagination) ([]*Patient, error)
	Stats(ctx context.Context, userId string) (*Stats, error)
}

// DoctorCounter reports how many active doctors are assigned to a patient.
// It is implemented by the mappings package.
type DoctorCounter interface {
	CountActiveForPatient(ctx context.Context, patientId string) (int, error)
}

type Patient struct {
	Id                    string
	Name                  string
	Email                 string
	PhoneNumber           string
	DateOfBirth           time.Time
	Gender                string
	Address               string
	MedicalHistory        *string
	Allergies             *string
	EmergencyContactName  string
	EmergencyContactPhone string
	CreatedBy             string
	CreatedAt             time.Time
	UpdatedAt             time.Time
	IsActive              bool
}

// Age returns the patient's age in full years.
func (p *Patient) Age() int {
	return AgeAt(p.DateOfBirth, time.Now())
}

func AgeAt(birthDate time.Time, now time.Time) int {
	age := now.Year() - birthDate.Year()
	if now.Month() < birthDate.Month() ||
		(now.Month() == birthDate.Month() && now.Day() < birthDate.Day()) {
		age--
	}
	return age
}

type Filter struct {
	CreatedBy string
	Gender    *string
	IsActive  *bool
	Search    *string
}

type SearchFilter struct {
	CreatedBy    string
	Query        *string
	Gender       *string
	AgeMin       *int
	AgeMax       *int
	HasAllergies *bool
}

type Stats struct {
	TotalPatients      int
	ActivePatients     int
	InactivePatients   int
	GenderDistribution map[string]int
	AgeDistribution    map[string]int
}

var AgeBuckets = []string{"Under 18", "18-30", "31-50", "51-70", "Over 70"}

func AgeBucket(age int) string {
	switch {
	case age < 18:
		return AgeBuckets[0]
	case age <= 30:
		return AgeBuckets[1]
	case age <= 50:
		return AgeBuckets[2]
	case age <= 70:
		return AgeBuckets[3]
	default:
		return AgeBuckets[4]
	}
}
