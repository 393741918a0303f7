package patients

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/caremesh/healthcare/store"
)

var phoneRegex = regexp.MustCompile(`^\+?\d{9,15}$`)

type service struct {
	repo    Repository
	doctors DoctorCounter
	logger  *zap.SugaredLogger
}

var _ Service = &service{}

func NewService(repo Repository, doctors DoctorCounter, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		repo:    repo,
		doctors: doctors,
		logger:  logger,
	}, nil
}

func (s *service) Create(ctx context.Context, patient Patient) (*Patient, error) {
	if err := validatePatient(&patient); err != nil {
		return nil, err
	}
	patient.IsActive = true
	return s.repo.Create(ctx, patient)
}

func (s *service) Get(ctx context.Context, userId string, id string) (*Patient, error) {
	return s.repo.Get(ctx, userId, id)
}

func (s *service) List(ctx context.Context, filter *Filter, pagination store.Pagination, sort *store.Sort) ([]*Patient, error) {
	return s.repo.List(ctx, filter, pagination, sort)
}

func (s *service) Update(ctx context.Context, userId string, id string, patient Patient) (*Patient, error) {
	if err := validatePatient(&patient); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, userId, id, patient)
}

func (s *service) Delete(ctx context.Context, userId string, id string) error {
	patient, err := s.repo.Get(ctx, userId, id)
	if err != nil {
		return err
	}

	count, err := s.doctors.CountActiveForPatient(ctx, patient.Id)
	if err != nil {
		return err
	}
	if count > 0 {
		return HasActiveDoctorsError{Count: count}
	}

	return s.repo.Deactivate(ctx, userId, id)
}

func (s *service) Search(ctx context.Context, filter *SearchFilter, pagination store.Pagination) ([]*Patient, error) {
	return s.repo.Search(ctx, filter, pagination)
}

func (s *service) Stats(ctx context.Context, userId string) (*Stats, error) {
	return s.repo.Stats(ctx, userId)
}

func validatePatient(patient *Patient) error {
	patient.Email = strings.ToLower(strings.TrimSpace(patient.Email))

	if _, ok := GenderLabels[patient.Gender]; !ok {
		return ErrInvalidGender
	}
	if patient.DateOfBirth.After(time.Now()) {
		return ErrFutureBirthDate
	}
	if patient.PhoneNumber != "" && !IsValidPhoneNumber(patient.PhoneNumber) {
		return ErrInvalidPhone
	}
	if !IsValidPhoneNumber(patient.EmergencyContactPhone) {
		return ErrInvalidPhone
	}
	return nil
}

// IsValidPhoneNumber accepts international numbers with optional separators,
// e.g. "+1 555-012-3456".
func IsValidPhoneNumber(number string) bool {
	stripped := strings.NewReplacer("-", "", " ", "").Replace(number)
	return phoneRegex.MatchString(stripped)
}
