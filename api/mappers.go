package api

import (
	"github.com/caremesh/healthcare/doctors"
	"github.com/caremesh/healthcare/mappings"
	"github.com/caremesh/healthcare/patients"
	"github.com/caremesh/healthcare/users"
)

func NewUserDto(u *users.User) User {
	return User{
		Id:        u.Id,
		Name:      u.Name,
		Email:     u.Email,
		Username:  u.Username,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

func NewPatient(r PatientRequest) patients.Patient {
	patient := patients.Patient{
		Name:                  r.Name,
		Email:                 r.Email,
		PhoneNumber:           r.PhoneNumber,
		DateOfBirth:           r.DateOfBirth.Time,
		Gender:                r.Gender,
		Address:               r.Address,
		MedicalHistory:        r.MedicalHistory,
		Allergies:             r.Allergies,
		EmergencyContactName:  r.EmergencyContactName,
		EmergencyContactPhone: r.EmergencyContactPhone,
		IsActive:              true,
	}
	if r.IsActive != nil {
		patient.IsActive = *r.IsActive
	}
	return patient
}

func NewPatientDto(p *patients.Patient) Patient {
	return Patient{
		Id:                    p.Id,
		Name:                  p.Name,
		Email:                 p.Email,
		PhoneNumber:           p.PhoneNumber,
		DateOfBirth:           Date{p.DateOfBirth},
		Age:                   p.Age(),
		Gender:                p.Gender,
		GenderDisplay:         patients.GenderLabels[p.Gender],
		Address:               p.Address,
		MedicalHistory:        p.MedicalHistory,
		Allergies:             p.Allergies,
		EmergencyContactName:  p.EmergencyContactName,
		EmergencyContactPhone: p.EmergencyContactPhone,
		IsActive:              p.IsActive,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func NewPatientListDto(list []*patients.Patient) PatientList {
	dto := PatientList{
		Count:    len(list),
		Patients: make([]Patient, 0, len(list)),
	}
	for _, patient := range list {
		dto.Patients = append(dto.Patients, NewPatientDto(patient))
	}
	return dto
}

func NewPatientStatsDto(s *patients.Stats) PatientStats {
	return PatientStats{
		TotalPatients:      s.TotalPatients,
		ActivePatients:     s.ActivePatients,
		InactivePatients:   s.InactivePatients,
		GenderDistribution: s.GenderDistribution,
		AgeDistribution:    s.AgeDistribution,
	}
}

func NewDoctor(r DoctorRequest) doctors.Doctor {
	doctor := doctors.Doctor{
		Name:              r.Name,
		Email:             r.Email,
		PhoneNumber:       r.PhoneNumber,
		LicenseNumber:     r.LicenseNumber,
		Specialization:    r.Specialization,
		YearsOfExperience: r.YearsOfExperience,
		Qualification:     r.Qualification,
		ClinicAddress:     r.ClinicAddress,
		ConsultationFee:   r.ConsultationFee,
		AvailableDays:     r.AvailableDays,
		AvailableTime:     r.AvailableTime,
		IsActive:          true,
	}
	if r.IsActive != nil {
		doctor.IsActive = *r.IsActive
	}
	return doctor
}

func NewDoctorDto(d *doctors.Doctor) Doctor {
	return Doctor{
		Id:                    d.Id,
		Name:                  d.Name,
		Email:                 d.Email,
		PhoneNumber:           d.PhoneNumber,
		LicenseNumber:         d.LicenseNumber,
		Specialization:        d.Specialization,
		SpecializationDisplay: d.SpecializationLabel(),
		YearsOfExperience:     d.YearsOfExperience,
		Qualification:         d.Qualification,
		ClinicAddress:         d.ClinicAddress,
		ConsultationFee:       d.ConsultationFee,
		AvailableDays:         d.AvailableDays,
		AvailableTime:         d.AvailableTime,
		IsActive:              d.IsActive,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
}

func NewDoctorListDto(list []*doctors.Doctor) DoctorList {
	dto := DoctorList{
		Count:   len(list),
		Doctors: make([]Doctor, 0, len(list)),
	}
	for _, doctor := range list {
		dto.Doctors = append(dto.Doctors, NewDoctorDto(doctor))
	}
	return dto
}

func NewDoctorStatsDto(s *doctors.Stats) DoctorStats {
	dto := DoctorStats{
		TotalDoctors:               s.TotalDoctors,
		SpecializationDistribution: s.SpecializationDistribution,
		ExperienceDistribution:     s.ExperienceDistribution,
		FeeStatistics: FeeStatistics{
			Average: s.FeeStatistics.Average,
			Minimum: s.FeeStatistics.Minimum,
			Maximum: s.FeeStatistics.Maximum,
		},
		TopSpecializations: make([]SpecializationPatientCount, 0, len(s.TopSpecializations)),
	}
	for _, top := range s.TopSpecializations {
		dto.TopSpecializations = append(dto.TopSpecializations, SpecializationPatientCount{
			Specialization: top.Specialization,
			PatientCount:   top.PatientCount,
		})
	}
	return dto
}

func NewMappingDto(m *mappings.Mapping) Mapping {
	return Mapping{
		Id:                   m.Id,
		PatientId:            m.PatientId,
		PatientName:          m.PatientName,
		DoctorId:             m.DoctorId,
		DoctorName:           m.DoctorName,
		DoctorSpecialization: m.DoctorSpecialization,
		Notes:                m.Notes,
		IsPrimary:            m.IsPrimary,
		IsActive:             m.IsActive,
		AssignedAt:           m.AssignedAt,
	}
}

func NewMappingListDto(list []*mappings.Mapping) MappingList {
	dto := MappingList{
		Count:    len(list),
		Mappings: make([]Mapping, 0, len(list)),
	}
	for _, mapping := range list {
		dto.Mappings = append(dto.Mappings, NewMappingDto(mapping))
	}
	return dto
}

func NewMappingStatsDto(s *mappings.Stats) MappingStats {
	return MappingStats{
		TotalMappings:              s.TotalMappings,
		ActiveMappings:             s.ActiveMappings,
		PrimaryMappings:            s.PrimaryMappings,
		PatientsWithDoctors:        s.PatientsWithDoctors,
		PatientsWithoutDoctors:     s.PatientsWithoutDoctors,
		AverageDoctorsPerPatient:   s.AverageDoctorsPerPatient,
		SpecializationDistribution: s.SpecializationDistribution,
	}
}

func NewBulkAssignResponseDto(result *mappings.BulkResult) BulkAssignResponse {
	dto := BulkAssignResponse{
		Message:       "Bulk assignment completed",
		AssignedCount: len(result.Assigned),
		SkippedCount:  len(result.Skipped),
		Mappings:      make([]Mapping, 0, len(result.Assigned)),
		Skipped:       make([]SkippedAssignment, 0, len(result.Skipped)),
	}
	for _, mapping := range result.Assigned {
		dto.Mappings = append(dto.Mappings, NewMappingDto(mapping))
	}
	for _, skipped := range result.Skipped {
		dto.Skipped = append(dto.Skipped, SkippedAssignment{
			PatientId: skipped.PatientId,
			Reason:    skipped.Reason,
		})
	}
	return dto
}

func strp(s string) *string {
	return &s
}

func boolp(b bool) *bool {
	return &b
}
