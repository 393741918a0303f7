package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/caremesh/healthcare/doctors"
	"github.com/caremesh/healthcare/mappings"
	"github.com/caremesh/healthcare/patients"
	"github.com/caremesh/healthcare/store"
	"github.com/caremesh/healthcare/users"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with sample records",
	RunE:  func(cmd *cobra.Command, args []string) error { return Run(seed) },
}

func seed(usersService users.Service, patientsService patients.Service, doctorsService doctors.Service, mappingsService mappings.Service) error {
	ctx, cancel := store.NewDbContext()
	defer cancel()

	user, err := usersService.Register(ctx, users.Registration{
		Name:     "Demo User",
		Email:    "demo@example.com",
		Username: "demo",
		Password: "demo12345",
	})
	if errors.Is(err, users.ErrDuplicateEmail) || errors.Is(err, users.ErrDuplicateUsername) {
		return errors.New("sample data already exists")
	} else if err != nil {
		return err
	}

	samplePatients := []patients.Patient{
		{
			Name:                  "John Doe",
			Email:                 "john.doe@example.com",
			PhoneNumber:           "+15550100001",
			DateOfBirth:           time.Date(1985, 5, 15, 0, 0, 0, 0, time.UTC),
			Gender:                patients.GenderMale,
			Address:               "123 Main St, Springfield",
			MedicalHistory:        strp("Hypertension"),
			EmergencyContactName:  "Jane Doe",
			EmergencyContactPhone: "+15550100002",
		},
		{
			Name:                  "Mary Smith",
			Email:                 "mary.smith@example.com",
			PhoneNumber:           "+15550100003",
			DateOfBirth:           time.Date(1992, 11, 3, 0, 0, 0, 0, time.UTC),
			Gender:                patients.GenderFemale,
			Address:               "42 Oak Ave, Springfield",
			Allergies:             strp("Penicillin"),
			EmergencyContactName:  "Bob Smith",
			EmergencyContactPhone: "+15550100004",
		},
		{
			Name:                  "Alex Johnson",
			Email:                 "alex.johnson@example.com",
			PhoneNumber:           "+15550100005",
			DateOfBirth:           time.Date(1978, 2, 27, 0, 0, 0, 0, time.UTC),
			Gender:                patients.GenderOther,
			Address:               "9 Pine Rd, Springfield",
			EmergencyContactName:  "Sam Johnson",
			EmergencyContactPhone: "+15550100006",
		},
	}

	createdPatients := make([]*patients.Patient, 0, len(samplePatients))
	for _, patient := range samplePatients {
		patient.CreatedBy = user.Id
		created, err := patientsService.Create(ctx, patient)
		if err != nil {
			return err
		}
		createdPatients = append(createdPatients, created)
	}

	sampleDoctors := []doctors.Doctor{
		{
			Name:              "Dr. Sarah Connor",
			Email:             "sarah.connor@example.com",
			PhoneNumber:       "+15550200001",
			LicenseNumber:     "LIC-1001",
			Specialization:    "CARDIOLOGY",
			YearsOfExperience: 12,
			Qualification:     "MD, FACC",
			ClinicAddress:     "1 Heart Center Blvd, Springfield",
			ConsultationFee:   250,
			AvailableDays:     "Mon,Wed,Fri",
			AvailableTime:     "09:00-17:00",
		},
		{
			Name:              "Dr. Gregory House",
			Email:             "gregory.house@example.com",
			PhoneNumber:       "+15550200002",
			LicenseNumber:     "LIC-1002",
			Specialization:    "GENERAL_MEDICINE",
			YearsOfExperience: 20,
			Qualification:     "MD",
			ClinicAddress:     "221B Diagnostics Ln, Springfield",
			ConsultationFee:   180,
			AvailableDays:     "Tue,Thu",
			AvailableTime:     "10:00-16:00",
		},
	}

	createdDoctors := make([]*doctors.Doctor, 0, len(sampleDoctors))
	for _, doctor := range sampleDoctors {
		doctor.CreatedBy = user.Id
		created, err := doctorsService.Create(ctx, doctor)
		if err != nil {
			return err
		}
		createdDoctors = append(createdDoctors, created)
	}

	if err := assignSampleDoctors(ctx, mappingsService, user.Id, createdPatients, createdDoctors); err != nil {
		return err
	}

	fmt.Printf("Created user %s with %d patients and %d doctors\n", user.Email, len(createdPatients), len(createdDoctors))
	return nil
}

func assignSampleDoctors(ctx context.Context, mappingsService mappings.Service, userId string, createdPatients []*patients.Patient, createdDoctors []*doctors.Doctor) error {
	if len(createdPatients) == 0 || len(createdDoctors) == 0 {
		return nil
	}

	_, err := mappingsService.Create(ctx, userId, mappings.Mapping{
		PatientId: createdPatients[0].Id,
		DoctorId:  createdDoctors[0].Id,
		Notes:     strp("Annual checkup follow-up"),
		IsPrimary: true,
	})
	if err != nil {
		return err
	}

	patientIds := make([]string, 0, len(createdPatients))
	for _, patient := range createdPatients {
		patientIds = append(patientIds, patient.Id)
	}
	_, err = mappingsService.BulkAssign(ctx, userId, mappings.BulkAssignment{
		DoctorId:   createdDoctors[len(createdDoctors)-1].Id,
		PatientIds: patientIds,
	})
	return err
}

func strp(s string) *string {
	return &s
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
