package doctors_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/caremesh/healthcare/doctors"
	doctorsTest "github.com/caremesh/healthcare/doctors/test"
	"github.com/caremesh/healthcare/store"
)

type fakePatientCounter struct {
	counts map[string]int
}

func (f *fakePatientCounter) CountActiveForDoctor(ctx context.Context, doctorId string) (int, error) {
	return f.counts[doctorId], nil
}

var _ = Describe("Doctors Service", func() {
	var service doctors.Service
	var repo *doctorsTest.FakeRepository
	var patientCounter *fakePatientCounter

	BeforeEach(func() {
		repo = doctorsTest.NewFakeRepository()
		patientCounter = &fakePatientCounter{counts: map[string]int{}}

		var err error
		service, err = doctors.NewService(repo, patientCounter, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())
	})

	Describe("Create", func() {
		It("persists a valid doctor as active", func() {
			randomDoctor := doctorsTest.RandomDoctor()
			randomDoctor.IsActive = false

			created, err := service.Create(context.Background(), randomDoctor)
			Expect(err).ToNot(HaveOccurred())
			Expect(created.Id).ToNot(BeEmpty())
			Expect(created.IsActive).To(BeTrue())
		})

		It("rejects an unknown specialization", func() {
			randomDoctor := doctorsTest.RandomDoctor()
			randomDoctor.Specialization = "ASTROLOGY"

			_, err := service.Create(context.Background(), randomDoctor)
			Expect(err).To(MatchError(doctors.ErrInvalidSpecialization))
		})

		It("rejects a duplicate license number", func() {
			randomDoctor := doctorsTest.RandomDoctor()
			_, err := service.Create(context.Background(), randomDoctor)
			Expect(err).ToNot(HaveOccurred())

			duplicate := doctorsTest.RandomDoctor()
			duplicate.LicenseNumber = randomDoctor.LicenseNumber
			_, err = service.Create(context.Background(), duplicate)
			Expect(err).To(MatchError(doctors.ErrDuplicateLicense))
		})

		It("rejects a duplicate email", func() {
			randomDoctor := doctorsTest.RandomDoctor()
			_, err := service.Create(context.Background(), randomDoctor)
			Expect(err).ToNot(HaveOccurred())

			duplicate := doctorsTest.RandomDoctor()
			duplicate.Email = randomDoctor.Email
			_, err = service.Create(context.Background(), duplicate)
			Expect(err).To(MatchError(doctors.ErrDuplicateEmail))
		})
	})

	Describe("Update", func() {
		var created *doctors.Doctor

		BeforeEach(func() {
			var err error
			created, err = service.Create(context.Background(), doctorsTest.RandomDoctor())
			Expect(err).ToNot(HaveOccurred())
		})

		It("allows the creator to update", func() {
			update := *created
			update.Name = "Dr. Updated"

			updated, err := service.Update(context.Background(), created.CreatedBy, created.Id, update)
			Expect(err).ToNot(HaveOccurred())
			Expect(updated.Name).To(Equal("Dr. Updated"))
		})

		It("refuses updates from other users", func() {
			update := *created
			_, err := service.Update(context.Background(), "someone-else", created.Id, update)
			Expect(err).To(MatchError(doctors.ErrNotOwner))
		})
	})

	Describe("Delete", func() {
		var created *doctors.Doctor

		BeforeEach(func() {
			var err error
			created, err = service.Create(context.Background(), doctorsTest.RandomDoctor())
			Expect(err).ToNot(HaveOccurred())
		})

		It("deactivates a doctor without patients", func() {
			Expect(service.Delete(context.Background(), created.CreatedBy, created.Id)).To(Succeed())

			fetched, err := service.Get(context.Background(), created.Id)
			Expect(err).ToNot(HaveOccurred())
			Expect(fetched.IsActive).To(BeFalse())
		})

		It("refuses to delete a doctor with active patients", func() {
			patientCounter.counts[created.Id] = 3

			err := service.Delete(context.Background(), created.CreatedBy, created.Id)
			expected := doctors.HasActivePatientsError{}
			Expect(errors.As(err, &expected)).To(BeTrue())
			Expect(expected.Count).To(Equal(3))
		})

		It("refuses deletes from other users", func() {
			err := service.Delete(context.Background(), "someone-else", created.Id)
			Expect(err).To(MatchError(doctors.ErrNotOwner))
		})
	})

	Describe("ListBySpecialization", func() {
		It("rejects an unknown specialization", func() {
			_, err := service.ListBySpecialization(context.Background(), "ASTROLOGY", store.DefaultPagination())
			Expect(err).To(MatchError(doctors.ErrInvalidSpecialization))
		})
	})
})
