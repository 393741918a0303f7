package patients_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/caremesh/healthcare/patients"
	patientsTest "github.com/caremesh/healthcare/patients/test"
)

type fakeDoctorCounter struct {
	counts map[string]int
}

func (f *fakeDoctorCounter) CountActiveForPatient(ctx context.Context, patientId string) (int, error) {
	return f.counts[patientId], nil
}

var _ = Describe("Patients Service", func() {
	var service patients.Service
	var repo *patientsTest.FakeRepository
	var doctorCounter *fakeDoctorCounter

	BeforeEach(func() {
		repo = patientsTest.NewFakeRepository()
		doctorCounter = &fakeDoctorCounter{counts: map[string]int{}}

		var err error
		service, err = patients.NewService(repo, doctorCounter, zap.NewNop().Sugar())
		Expect(err).ToNot(HaveOccurred())
	})

	Describe("Create", func() {
		It("persists a valid patient as active", func() {
			randomPatient := patientsTest.RandomPatient()
			randomPatient.IsActive = false

			created, err := service.Create(context.Background(), randomPatient)
			Expect(err).ToNot(HaveOccurred())
			Expect(created.Id).ToNot(BeEmpty())
			Expect(created.IsActive).To(BeTrue())
		})

		It("lowercases the email", func() {
			randomPatient := patientsTest.RandomPatient()
			randomPatient.Email = "Patient@Example.COM"

			created, err := service.Create(context.Background(), randomPatient)
			Expect(err).ToNot(HaveOccurred())
			Expect(created.Email).To(Equal("patient@example.com"))
		})

		It("rejects an unknown gender", func() {
			randomPatient := patientsTest.RandomPatient()
			randomPatient.Gender = "X"

			_, err := service.Create(context.Background(), randomPatient)
			Expect(err).To(MatchError(patients.ErrInvalidGender))
		})

		It("rejects a birth date in the future", func() {
			randomPatient := patientsTest.RandomPatient()
			randomPatient.DateOfBirth = time.Now().Add(24 * time.Hour)

			_, err := service.Create(context.Background(), randomPatient)
			Expect(err).To(MatchError(patients.ErrFutureBirthDate))
		})

		It("rejects an invalid emergency contact phone", func() {
			randomPatient := patientsTest.RandomPatient()
			randomPatient.EmergencyContactPhone = "not-a-number"

			_, err := service.Create(context.Background(), randomPatient)
			Expect(err).To(MatchError(patients.ErrInvalidPhone))
		})

		It("accepts phone numbers with separators", func() {
			randomPatient := patientsTest.RandomPatient()
			randomPatient.PhoneNumber = "+1 555-012-3456"

			_, err := service.Create(context.Background(), randomPatient)
			Expect(err).ToNot(HaveOccurred())
		})

		It("rejects a duplicate email", func() {
			randomPatient := patientsTest.RandomPatient()
			_, err := service.Create(context.Background(), randomPatient)
			Expect(err).ToNot(HaveOccurred())

			duplicate := patientsTest.RandomPatient()
			duplicate.Email = randomPatient.Email
			_, err = service.Create(context.Background(), duplicate)
			Expect(err).To(MatchError(patients.ErrDuplicateEmail))
		})
	})

	Describe("Get", func() {
		It("is scoped to the creator", func() {
			created, err := service.Create(context.Background(), patientsTest.RandomPatient())
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Get(context.Background(), created.CreatedBy, created.Id)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.Get(context.Background(), "someone-else", created.Id)
			Expect(err).To(MatchError(patients.ErrNotFound))
		})
	})

	Describe("Delete", func() {
		var created *patients.Patient

		BeforeEach(func() {
			var err error
			created, err = service.Create(context.Background(), patientsTest.RandomPatient())
			Expect(err).ToNot(HaveOccurred())
		})

		It("deactivates a patient without assignments", func() {
			Expect(service.Delete(context.Background(), created.CreatedBy, created.Id)).To(Succeed())

			fetched, err := service.Get(context.Background(), created.CreatedBy, created.Id)
			Expect(err).ToNot(HaveOccurred())
			Expect(fetched.IsActive).To(BeFalse())
		})

		It("refuses to delete a patient with active assignments", func() {
			doctorCounter.counts[created.Id] = 2

			err := service.Delete(context.Background(), created.CreatedBy, created.Id)
			expected := patients.HasActiveDoctorsError{}
			Expect(errors.As(err, &expected)).To(BeTrue())
			Expect(expected.Count).To(Equal(2))
		})

		It("returns not found for another user's patient", func() {
			err := service.Delete(context.Background(), "someone-else", created.Id)
			Expect(err).To(MatchError(patients.ErrNotFound))
		})
	})
})

var _ = Describe("Age", func() {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	It("counts full years", func() {
		Expect(patients.AgeAt(time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC), now)).To(Equal(35))
		Expect(patients.AgeAt(time.Date(1990, 6, 16, 0, 0, 0, 0, time.UTC), now)).To(Equal(34))
		Expect(patients.AgeAt(time.Date(1990, 12, 1, 0, 0, 0, 0, time.UTC), now)).To(Equal(34))
	})

	It("assigns age buckets", func() {
		Expect(patients.AgeBucket(10)).To(Equal("Under 18"))
		Expect(patients.AgeBucket(18)).To(Equal("18-30"))
		Expect(patients.AgeBucket(30)).To(Equal("18-30"))
		Expect(patients.AgeBucket(31)).To(Equal("31-50"))
		Expect(patients.AgeBucket(50)).To(Equal("31-50"))
		Expect(patients.AgeBucket(70)).To(Equal("51-70"))
		Expect(patients.AgeBucket(71)).To(Equal("Over 70"))
	})
})
