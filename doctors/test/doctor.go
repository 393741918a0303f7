package test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/caremesh/healthcare/doctors"
	"github.com/caremesh/healthcare/store"
	"github.com/caremesh/healthcare/test"
)

func RandomSpecialization() string {
	specializations := make([]string, 0, len(doctors.SpecializationLabels))
	for specialization := range doctors.SpecializationLabels {
		specializations = append(specializations, specialization)
	}
	return specializations[test.Rand.Intn(len(specializations))]
}

func RandomDoctor() doctors.Doctor {
	return doctors.Doctor{
		Id:                test.Faker.UUID().V4(),
		Name:              "Dr. " + test.Faker.Person().Name(),
		Email:             test.Faker.Internet().Email(),
		PhoneNumber:       fmt.Sprintf("+1555%07d", test.Rand.Intn(10000000)),
		LicenseNumber:     fmt.Sprintf("LIC-%06d", test.Rand.Intn(1000000)),
		Specialization:    RandomSpecialization(),
		YearsOfExperience: test.Rand.Intn(40),
		Qualification:     "MD",
		ClinicAddress:     test.Faker.Address().Address(),
		ConsultationFee:   float64(50 + test.Rand.Intn(450)),
		AvailableDays:     "Mon,Wed,Fri",
		AvailableTime:     "09:00-17:00",
		CreatedBy:         test.Faker.UUID().V4(),
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
		IsActive:          true,
	}
}

// FakeRepository is an in-memory doctors.Repository used by service tests.
type FakeRepository struct {
	mu      sync.Mutex
	doctors map[string]doctors.Doctor
}

var _ doctors.Repository = &FakeRepository{}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{doctors: map[string]doctors.Doctor{}}
}

func (f *FakeRepository) Create(ctx context.Context, doctor doctors.Doctor) (*doctors.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.doctors {
		if existing.Email == doctor.Email {
			return nil, doctors.ErrDuplicateEmail
		}
		if existing.LicenseNumber == doctor.LicenseNumber {
			return nil, doctors.ErrDuplicateLicense
		}
	}

	if doctor.Id == "" {
		doctor.Id = test.Faker.UUID().V4()
	}
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = doctor.CreatedAt
	f.doctors[doctor.Id] = doctor
	return &doctor, nil
}

func (f *FakeRepository) Get(ctx context.Context, id string) (*doctors.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if doctor, ok := f.doctors[id]; ok {
		return &doctor, nil
	}
	return nil, doctors.ErrNotFound
}

func (f *FakeRepository) List(ctx context.Context, filter *doctors.Filter, pagination store.Pagination, sort *store.Sort) ([]*doctors.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := make([]*doctors.Doctor, 0)
	for _, doctor := range f.doctors {
		if filter.Specialization != nil && doctor.Specialization != *filter.Specialization {
			continue
		}
		if filter.IsActive != nil && doctor.IsActive != *filter.IsActive {
			continue
		}
		doctor := doctor
		list = append(list, &doctor)
	}
	return list, nil
}

func (f *FakeRepository) Update(ctx context.Context, id string, doctor doctors.Doctor) (*doctors.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.doctors[id]
	if !ok {
		return nil, doctors.ErrNotFound
	}

	doctor.Id = existing.Id
	doctor.CreatedBy = existing.CreatedBy
	doctor.CreatedAt = existing.CreatedAt
	doctor.UpdatedAt = time.Now()
	f.doctors[id] = doctor
	return &doctor, nil
}

func (f *FakeRepository) Deactivate(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.doctors[id]
	if !ok {
		return doctors.ErrNotFound
	}
	existing.IsActive = false
	f.doctors[id] = existing
	return nil
}

func (f *FakeRepository) Search(ctx context.Context, filter *doctors.SearchFilter, pagination store.Pagination) ([]*doctors.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := make([]*doctors.Doctor, 0)
	for _, doctor := range f.doctors {
		if !doctor.IsActive {
			continue
		}
		if filter.Specialization != nil && doctor.Specialization != *filter.Specialization {
			continue
		}
		if filter.MinExperience != nil && doctor.YearsOfExperience < *filter.MinExperience {
			continue
		}
		if filter.MaxExperience != nil && doctor.YearsOfExperience > *filter.MaxExperience {
			continue
		}
		doctor := doctor
		list = append(list, &doctor)
	}
	return list, nil
}

func (f *FakeRepository) ListBySpecialization(ctx context.Context, specialization string, pagination store.Pagination) ([]*doctors.Doctor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	list := make([]*doctors.Doctor, 0)
	for _, doctor := range f.doctors {
		if doctor.IsActive && doctor.Specialization == specialization {
			doctor := doctor
			list = append(list, &doctor)
		}
	}
	return list, nil
}

func (f *FakeRepository) Stats(ctx context.Context) (*doctors.Stats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stats := &doctors.Stats{
		SpecializationDistribution: map[string]int{},
		ExperienceDistribution:     map[string]int{},
	}
	for _, doctor := range f.doctors {
		if doctor.IsActive {
			stats.TotalDoctors++
			stats.SpecializationDistribution[doctor.SpecializationLabel()]++
		}
	}
	return stats, nil
}
