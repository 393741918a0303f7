package mappings

import (
	"context"
	"errors"

	mapset "github.com/deckarep/golang-set/v2"
	"go.uber.org/zap"

	"github.com/caremesh/healthcare/doctors"
	"github.com/caremesh/healthcare/patients"
	"github.com/caremesh/healthcare/store"
)

type service struct {
	repo     Repository
	patients patients.Service
	doctors  doctors.Service
	logger   *zap.SugaredLogger
}

var _ Service = &service{}

func NewService(repo Repository, patients patients.Service, doctors doctors.Service, logger *zap.SugaredLogger) (Service, error) {
	return &service{
		repo:     repo,
		patients: patients,
		doctors:  doctors,
		logger:   logger,
	}, nil
}

func (s *service) Create(ctx context.Context, userId string, create Mapping) (*Mapping, error) {
	if err := s.checkPatient(ctx, userId, create.PatientId); err != nil {
		return nil, err
	}
	if err := s.checkDoctor(ctx, create.DoctorId); err != nil {
		return nil, err
	}

	create.AssignedBy = userId
	create.IsActive = true
	return s.repo.Create(ctx, userId, create)
}

func (s *service) Get(ctx context.Context, userId string, id string) (*Mapping, error) {
	return s.repo.Get(ctx, userId, id)
}

func (s *service) List(ctx context.Context, userId string, filter *Filter, pagination store.Pagination) ([]*Mapping, error) {
	return s.repo.List(ctx, userId, filter, pagination)
}

func (s *service) ListDoctorsForPatient(ctx context.Context, userId string, patientId string) ([]*doctors.Doctor, error) {
	if _, err := s.patients.Get(ctx, userId, patientId); err != nil {
		if errors.Is(err, patients.ErrNotFound) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return s.repo.ListDoctorsForPatient(ctx, patientId)
}

func (s *service) Update(ctx context.Context, userId string, id string, update Update) (*Mapping, error) {
	return s.repo.Update(ctx, userId, id, update)
}

func (s *service) Delete(ctx context.Context, userId string, id string) error {
	return s.repo.Deactivate(ctx, userId, id)
}

func (s *service) ListUnassignedPatients(ctx context.Context, userId string, pagination store.Pagination) ([]*patients.Patient, error) {
	return s.repo.ListUnassignedPatients(ctx, userId, pagination)
}

func (s *service) BulkAssign(ctx context.Context, userId string, assignment BulkAssignment) (*BulkResult, error) {
	patientIds := mapset.NewSet[string]()
	ordered := make([]string, 0, len(assignment.PatientIds))
	for _, id := range assignment.PatientIds {
		if patientIds.Add(id) {
			ordered = append(ordered, id)
		}
	}
	if len(ordered) == 0 {
		return nil, ErrNoPatients
	}

	if err := s.checkDoctor(ctx, assignment.DoctorId); err != nil {
		return nil, err
	}

	result := &BulkResult{
		Assigned: make([]*Mapping, 0, len(ordered)),
		Skipped:  make([]SkippedPatient, 0),
	}
	for _, patientId := range ordered {
		if err := s.checkPatient(ctx, userId, patientId); err != nil {
			result.Skipped = append(result.Skipped, SkippedPatient{PatientId: patientId, Reason: err.Error()})
			continue
		}

		mapping, err := s.repo.Create(ctx, userId, Mapping{
			PatientId:  patientId,
			DoctorId:   assignment.DoctorId,
			AssignedBy: userId,
			Notes:      assignment.Notes,
			IsPrimary:  assignment.IsPrimary,
			IsActive:   true,
		})
		if errors.Is(err, ErrDuplicate) {
			result.Skipped = append(result.Skipped, SkippedPatient{PatientId: patientId, Reason: ErrDuplicate.Error()})
			continue
		} else if err != nil {
			return nil, err
		}

		result.Assigned = append(result.Assigned, mapping)
	}

	s.logger.Infow("bulk assignment finished",
		"doctorId", assignment.DoctorId,
		"assigned", len(result.Assigned),
		"skipped", len(result.Skipped),
	)
	return result, nil
}

func (s *service) SetPrimary(ctx context.Context, userId string, id string) (*Mapping, error) {
	return s.repo.SetPrimary(ctx, userId, id)
}

func (s *service) Stats(ctx context.Context, userId string) (*Stats, error) {
	return s.repo.Stats(ctx, userId)
}

func (s *service) checkPatient(ctx context.Context, userId string, patientId string) error {
	patient, err := s.patients.Get(ctx, userId, patientId)
	if errors.Is(err, patients.ErrNotFound) {
		return ErrPatientNotFound
	} else if err != nil {
		return err
	}
	if !patient.IsActive {
		return ErrPatientInactive
	}
	return nil
}

func (s *service) checkDoctor(ctx context.Context, doctorId string) error {
	doctor, err := s.doctors.Get(ctx, doctorId)
	if errors.Is(err, doctors.ErrNotFound) {
		return ErrDoctorNotFound
	} else if err != nil {
		return err
	}
	if !doctor.IsActive {
		return ErrDoctorInactive
	}
	return nil
}
