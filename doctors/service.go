package doctors

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/caremesh/healthcare/store"
)

type service struct {
	repo     Repository
	patients PatientCounter
	logger   *zap.SugaredLogger
}

var _ Service = &service{}

func NewService(repo Repository, patients PatientCounter, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		repo:     repo,
		patients: patients,
		logger:   logger,
	}, nil
}

func (s *service) Create(ctx context.Context, doctor Doctor) (*Doctor, error) {
	doctor.Email = strings.ToLower(strings.TrimSpace(doctor.Email))
	if !IsValidSpecialization(doctor.Specialization) {
		return nil, ErrInvalidSpecialization
	}
	doctor.IsActive = true
	return s.repo.Create(ctx, doctor)
}

func (s *service) Get(ctx context.Context, id string) (*Doctor, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) List(ctx context.Context, filter *Filter, pagination store.Pagination, sort *store.Sort) ([]*Doctor, error) {
	return s.repo.List(ctx, filter, pagination, sort)
}

func (s *service) Update(ctx context.Context, userId string, id string, doctor Doctor) (*Doctor, error) {
	doctor.Email = strings.ToLower(strings.TrimSpace(doctor.Email))
	if !IsValidSpecialization(doctor.Specialization) {
		return nil, ErrInvalidSpecialization
	}

	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.CreatedBy != userId {
		return nil, ErrNotOwner
	}

	return s.repo.Update(ctx, id, doctor)
}

func (s *service) Delete(ctx context.Context, userId string, id string) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if existing.CreatedBy != userId {
		return ErrNotOwner
	}

	count, err := s.patients.CountActiveForDoctor(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return HasActivePatientsError{Count: count}
	}

	return s.repo.Deactivate(ctx, id)
}

func (s *service) Search(ctx context.Context, filter *SearchFilter, pagination store.Pagination) ([]*Doctor, error) {
	return s.repo.Search(ctx, filter, pagination)
}

func (s *service) ListBySpecialization(ctx context.Context, specialization string, pagination store.Pagination) ([]*Doctor, error) {
	if !IsValidSpecialization(specialization) {
		return nil, ErrInvalidSpecialization
	}
	return s.repo.ListBySpecialization(ctx, specialization, pagination)
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}
