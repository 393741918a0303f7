package test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/caremesh/healthcare/patients"
	"github.com/caremesh/healthcare/store"
	"github.com/caremesh/healthcare/test"
)

func strp(s string) *string {
	return &s
}

func RandomGender() string {
	genders := []string{patients.GenderMale, patients.GenderFemale, patients.GenderOther}
	return genders[test.Rand.Intn(len(genders))]
}

func RandomPhoneNumber() string {
	return fmt.Sprintf("+1555%07d", test.Rand.Intn(10000000))
}

func RandomDateOfBirth() time.Time {
	year := 1940 + test.Rand.Intn(70)
	month := time.Month(1 + test.Rand.Intn(12))
	day := 1 + test.Rand.Intn(28)
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func RandomPatient() patients.Patient {
	return patients.Patient{
		Id:                    test.Faker.UUID().V4(),
		Name:                  test.Faker.Person().Name(),
		Email:                 test.Faker.Internet().Email(),
		PhoneNumber:           RandomPhoneNumber(),
		DateOfBirth:           RandomDateOfBirth(),
		Gender:                RandomGender(),
		Address:               test.Faker.Address().Address(),
		MedicalHistory:        strp(test.Faker.Lorem().Sentence(5)),
		Allergies:             strp(test.Faker.Lorem().Word()),
		EmergencyContactName:  test.Faker.Person().Name(),
		EmergencyContactPhone: RandomPhoneNumber(),
		CreatedBy:             test.Faker.UUID().V4(),
		CreatedAt:             time.Now(),
		UpdatedAt:             time.Now(),
		IsActive:              true,
	}
}

// FakeRepository is an in-memory patients.Repository used by service tests.
type FakeRepository struct {
	mu       sync.Mutex
	patients map[string]patients.Patient
}

var _ patients.Repository = &FakeRepository{}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{patients: map[string]patients.Patient{}}
}

func (f *FakeRepository) Create(ctx context.Context, patient patients.Patient) (*patients.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.patients {
		if existing.Email == patient.Email {
			return nil, patients.ErrDuplicateEmail
		}
	}

	if patient.Id == "" {
		patient.Id = test.Faker.UUID().V4()
	}
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = patient.CreatedAt
	f.patients[patient.Id] = patient
	return &patient, nil
}

func (f *FakeRepository) Get(ctx context.Context, userId string, id string) (*patients.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if patient, ok := f.patients[id]; ok && patient.CreatedBy == userId {
		return &patient, nil
	}
	return nil, patients.ErrNotFound
}

func (f *FakeRepository) List(ctx context.Context, filter *patients.Filter, pagination store.Pagination, sort *store.Sort) ([]*patients.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := make([]*patients.Patient, 0)
	for _, patient := range f.patients {
		if patient.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.Gender != nil && patient.Gender != *filter.Gender {
			continue
		}
		if filter.IsActive != nil && patient.IsActive != *filter.IsActive {
			continue
		}
		patient := patient
		list = append(list, &patient)
	}
	return list, nil
}

func (f *FakeRepository) Update(ctx context.Context, userId string, id string, patient patients.Patient) (*patients.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.patients[id]
	if !ok || existing.CreatedBy != userId {
		return nil, patients.ErrNotFound
	}

	patient.Id = existing.Id
	patient.CreatedBy = existing.CreatedBy
	patient.CreatedAt = existing.CreatedAt
	patient.UpdatedAt = time.Now()
	f.patients[id] = patient
	return &patient, nil
}

func (f *FakeRepository) Deactivate(ctx context.Context, userId string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.patients[id]
	if !ok || existing.CreatedBy != userId {
		return patients.ErrNotFound
	}
	existing.IsActive = false
	f.patients[id] = existing
	return nil
}

func (f *FakeRepository) Search(ctx context.Context, filter *patients.SearchFilter, pagination store.Pagination) ([]*patients.Patient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := make([]*patients.Patient, 0)
	for _, patient := range f.patients {
		if patient.CreatedBy != filter.CreatedBy || !patient.IsActive {
			continue
		}
		if filter.Gender != nil && patient.Gender != *filter.Gender {
			continue
		}
		patient := patient
		list = append(list, &patient)
	}
	return list, nil
}

func (f *FakeRepository) Stats(ctx context.Context, userId string) (*patients.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := &patients.Stats{
		GenderDistribution: map[string]int{},
		AgeDistribution:    map[string]int{},
	}
	for _, patient := range f.patients {
		if patient.CreatedBy != userId {
			continue
		}
		stats.TotalPatients++
		if patient.IsActive {
			stats.ActivePatients++
			stats.GenderDistribution[patients.GenderLabels[patient.Gender]]++
			stats.AgeDistribution[patients.AgeBucket(patient.Age())]++
		}
	}
	stats.InactivePatients = stats.TotalPatients - stats.ActivePatients
	return stats, nil
}
