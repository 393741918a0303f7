package mappings_test

import (
	"context"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/caremesh/healthcare/doctors"
	doctorsTest "github.com/caremesh/healthcare/doctors/test"
	"github.com/caremesh/healthcare/mappings"
	"github.com/caremesh/healthcare/patients"
	patientsTest "github.com/caremesh/healthcare/patients/test"
	"github.com/caremesh/healthcare/store"
	"github.com/caremesh/healthcare/test"
)

type noopCounter struct{}

func (noopCounter) CountActiveForPatient(ctx context.Context, patientId string) (int, error) {
	return 0, nil
}

func (noopCounter) CountActiveForDoctor(ctx context.Context, doctorId string) (int, error) {
	return 0, nil
}

// fakeRepository is an in-memory mappings.Repository. Creating a mapping for
// an inactive pair reactivates it, matching the unique constraint behavior of
// the real repository.
type fakeRepository struct {
	mu       sync.Mutex
	mappings map[string]mappings.Mapping
}

var _ mappings.Repository = &fakeRepository{}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{mappings: map[string]mappings.Mapping{}}
}

func (f *fakeRepository) Create(ctx context.Context, userId string, mapping mappings.Mapping) (*mappings.Mapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for id, existing := range f.mappings {
		if existing.PatientId == mapping.PatientId && existing.DoctorId == mapping.DoctorId {
			if existing.IsActive {
				return nil, mappings.ErrDuplicate
			}
			existing.IsActive = true
			existing.Notes = mapping.Notes
			existing.IsPrimary = mapping.IsPrimary
			f.mappings[id] = existing
			return &existing, nil
		}
	}

	mapping.Id = test.Faker.UUID().V4()
	mapping.AssignedAt = time.Now()
	f.mappings[mapping.Id] = mapping
	return &mapping, nil
}

func (f *fakeRepository) Get(ctx context.Context, userId string, id string) (*mappings.Mapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if mapping, ok := f.mappings[id]; ok && mapping.AssignedBy == userId {
		return &mapping, nil
	}
	return nil, mappings.ErrNotFound
}

func (f *fakeRepository) List(ctx context.Context, userId string, filter *mappings.Filter, pagination store.Pagination) ([]*mappings.Mapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := make([]*mappings.Mapping, 0)
	for _, mapping := range f.mappings {
		if mapping.AssignedBy != userId {
			continue
		}
		if filter.IsActive != nil && mapping.IsActive != *filter.IsActive {
			continue
		}
		if filter.IsPrimary != nil && mapping.IsPrimary != *filter.IsPrimary {
			continue
		}
		mapping := mapping
		list = append(list, &mapping)
	}
	return list, nil
}

func (f *fakeRepository) ListDoctorsForPatient(ctx context.Context, patientId string) ([]*doctors.Doctor, error) {
	return nil, nil
}

func (f *fakeRepository) Update(ctx context.Context, userId string, id string, update mappings.Update) (*mappings.Mapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.mappings[id]
	if !ok || existing.AssignedBy != userId {
		return nil, mappings.ErrNotFound
	}
	existing.Notes = update.Notes
	existing.IsPrimary = update.IsPrimary
	f.mappings[id] = existing
	return &existing, nil
}

func (f *fakeRepository) Deactivate(ctx context.Context, userId string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.mappings[id]
	if !ok || existing.AssignedBy != userId {
		return mappings.ErrNotFound
	}
	existing.IsActive = false
	existing.IsPrimary = false
	f.mappings[id] = existing
	return nil
}

func (f *fakeRepository) ListUnassignedPatients(ctx context.Context, userId string, pagination store.Pagination) ([]*patients.Patient, error) {
	return nil, nil
}

func (f *fakeRepository) SetPrimary(ctx context.Context, userId string, id string) (*mappings.Mapping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.mappings[id]
	if !ok || existing.AssignedBy != userId || !existing.IsActive {
		return nil, mappings.ErrNotFound
	}
	for otherId, other := range f.mappings {
		if other.PatientId == existing.PatientId && other.IsPrimary {
			other.IsPrimary = false
			f.mappings[otherId] = other
		}
	}
	existing.IsPrimary = true
	f.mappings[id] = existing
	return &existing, nil
}

func (f *fakeRepository) Stats(ctx context.Context, userId string) (*mappings.Stats, error) {
	return &mappings.Stats{SpecializationDistribution: map[string]int{}}, nil
}

func (f *fakeRepository) CountActiveForPatient(ctx context.Context, patientId string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, mapping := range f.mappings {
		if mapping.PatientId == patientId && mapping.IsActive {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepository) CountActiveForDoctor(ctx context.Context, doctorId string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, mapping := range f.mappings {
		if mapping.DoctorId == doctorId && mapping.IsActive {
			count++
		}
	}
	return count, nil
}

var _ = Describe("Mappings Service", func() {
	var service mappings.Service
	var repo *fakeRepository
	var patientsService patients.Service
	var doctorsService doctors.Service
	var userId string
	var patient *patients.Patient
	var doctor *doctors.Doctor

	BeforeEach(func() {
		repo = newFakeRepository()

		var err error
		patientsService, err = patients.NewService(patientsTest.NewFakeRepository(), noopCounter{}, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())
		doctorsService, err = doctors.NewService(doctorsTest.NewFakeRepository(), noopCounter{}, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())
		service, err = mappings.NewService(repo, patientsService, doctorsService, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())

		userId = test.Faker.UUID().V4()

		randomPatient := patientsTest.RandomPatient()
		randomPatient.CreatedBy = userId
		patient, err = patientsService.Create(context.Background(), randomPatient)
		Expect(err).ToNot(HaveOccurred())

		doctor, err = doctorsService.Create(context.Background(), doctorsTest.RandomDoctor())
		Expect(err).ToNot(HaveOccurred())
	})

	Describe("Create", func() {
		It("assigns an active doctor to an owned patient", func() {
			created, err := service.Create(context.Background(), userId, mappings.Mapping{
				PatientId: patient.Id,
				DoctorId:  doctor.Id,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(created.Id).ToNot(BeEmpty())
			Expect(created.AssignedBy).To(Equal(userId))
			Expect(created.IsActive).To(BeTrue())
		})

		It("rejects a patient owned by another user", func() {
			_, err := service.Create(context.Background(), "someone-else", mappings.Mapping{
				PatientId: patient.Id,
				DoctorId:  doctor.Id,
			})
			Expect(err).To(MatchError(mappings.ErrPatientNotFound))
		})

		It("rejects an inactive patient", func() {
			Expect(patientsService.Delete(context.Background(), userId, patient.Id)).To(Succeed())

			_, err := service.Create(context.Background(), userId, mappings.Mapping{
				PatientId: patient.Id,
				DoctorId:  doctor.Id,
			})
			Expect(err).To(MatchError(mappings.ErrPatientInactive))
		})

		It("rejects an unknown doctor", func() {
			_, err := service.Create(context.Background(), userId, mappings.Mapping{
				PatientId: patient.Id,
				DoctorId:  test.Faker.UUID().V4(),
			})
			Expect(err).To(MatchError(mappings.ErrDoctorNotFound))
		})

		It("rejects an inactive doctor", func() {
			Expect(doctorsService.Delete(context.Background(), doctor.CreatedBy, doctor.Id)).To(Succeed())

			_, err := service.Create(context.Background(), userId, mappings.Mapping{
				PatientId: patient.Id,
				DoctorId:  doctor.Id,
			})
			Expect(err).To(MatchError(mappings.ErrDoctorInactive))
		})

		It("rejects a duplicate assignment", func() {
			_, err := service.Create(context.Background(), userId, mappings.Mapping{
				PatientId: patient.Id,
				DoctorId:  doctor.Id,
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Create(context.Background(), userId, mappings.Mapping{
				PatientId: patient.Id,
				DoctorId:  doctor.Id,
			})
			Expect(err).To(MatchError(mappings.ErrDuplicate))
		})

		It("reactivates a previously removed assignment", func() {
			created, err := service.Create(context.Background(), userId, mappings.Mapping{
				PatientId: patient.Id,
				DoctorId:  doctor.Id,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(service.Delete(context.Background(), userId, created.Id)).To(Succeed())

			recreated, err := service.Create(context.Background(), userId, mappings.Mapping{
				PatientId: patient.Id,
				DoctorId:  doctor.Id,
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(recreated.Id).To(Equal(created.Id))
			Expect(recreated.IsActive).To(BeTrue())
		})
	})

	Describe("BulkAssign", func() {
		var secondPatient *patients.Patient

		BeforeEach(func() {
			randomPatient := patientsTest.RandomPatient()
			randomPatient.CreatedBy = userId

			var err error
			secondPatient, err = patientsService.Create(context.Background(), randomPatient)
			Expect(err).ToNot(HaveOccurred())
		})

		It("assigns every patient once", func() {
			result, err := service.BulkAssign(context.Background(), userId, mappings.BulkAssignment{
				DoctorId:   doctor.Id,
				PatientIds: []string{patient.Id, secondPatient.Id, patient.Id},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Assigned).To(HaveLen(2))
			Expect(result.Skipped).To(BeEmpty())
		})

		It("requires at least one patient id", func() {
			_, err := service.BulkAssign(context.Background(), userId, mappings.BulkAssignment{
				DoctorId: doctor.Id,
			})
			Expect(err).To(MatchError(mappings.ErrNoPatients))
		})

		It("skips patients that are already assigned", func() {
			_, err := service.Create(context.Background(), userId, mappings.Mapping{
				PatientId: patient.Id,
				DoctorId:  doctor.Id,
			})
			Expect(err).ToNot(HaveOccurred())

			result, err := service.BulkAssign(context.Background(), userId, mappings.BulkAssignment{
				DoctorId:   doctor.Id,
				PatientIds: []string{patient.Id, secondPatient.Id},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Assigned).To(HaveLen(1))
			Expect(result.Skipped).To(HaveLen(1))
			Expect(result.Skipped[0].PatientId).To(Equal(patient.Id))
			Expect(result.Skipped[0].Reason).To(Equal(mappings.ErrDuplicate.Error()))
		})

		It("skips inactive patients with a reason", func() {
			Expect(patientsService.Delete(context.Background(), userId, secondPatient.Id)).To(Succeed())

			result, err := service.BulkAssign(context.Background(), userId, mappings.BulkAssignment{
				DoctorId:   doctor.Id,
				PatientIds: []string{patient.Id, secondPatient.Id},
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(result.Assigned).To(HaveLen(1))
			Expect(result.Skipped).To(HaveLen(1))
			Expect(result.Skipped[0].Reason).To(Equal(mappings.ErrPatientInactive.Error()))
		})

		It("rejects an inactive doctor up front", func() {
			Expect(doctorsService.Delete(context.Background(), doctor.CreatedBy, doctor.Id)).To(Succeed())

			_, err := service.BulkAssign(context.Background(), userId, mappings.BulkAssignment{
				DoctorId:   doctor.Id,
				PatientIds: []string{patient.Id},
			})
			Expect(err).To(MatchError(mappings.ErrDoctorInactive))
		})
	})

	Describe("SetPrimary", func() {
		It("demotes the previous primary doctor", func() {
			first, err := service.Create(context.Background(), userId, mappings.Mapping{
				PatientId: patient.Id,
				DoctorId:  doctor.Id,
				IsPrimary: true,
			})
			Expect(err).ToNot(HaveOccurred())

			otherDoctor, err := doctorsService.Create(context.Background(), doctorsTest.RandomDoctor())
			Expect(err).ToNot(HaveOccurred())
			second, err := service.Create(context.Background(), userId, mappings.Mapping{
				PatientId: patient.Id,
				DoctorId:  otherDoctor.Id,
			})
			Expect(err).ToNot(HaveOccurred())

			promoted, err := service.SetPrimary(context.Background(), userId, second.Id)
			Expect(err).ToNot(HaveOccurred())
			Expect(promoted.IsPrimary).To(BeTrue())

			demoted, err := service.Get(context.Background(), userId, first.Id)
			Expect(err).ToNot(HaveOccurred())
			Expect(demoted.IsPrimary).To(BeFalse())
		})
	})

	Describe("ListDoctorsForPatient", func() {
		It("rejects a patient owned by another user", func() {
			_, err := service.ListDoctorsForPatient(context.Background(), "someone-else", patient.Id)
			Expect(err).To(MatchError(mappings.ErrPatientNotFound))
		})
	})
})
