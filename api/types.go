package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date marshals as an ISO calendar date without a time component.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected format %s", s, dateLayout)
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

type Message struct {
	Message string `json:"message"`
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UpdateProfileRequest struct {
	Name string `json:"name"`
}

type User struct {
	Id        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type TokenResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type AccessTokenResponse struct {
	Access string `json:"access"`
}

type Patient struct {
	Id                    string    `json:"id"`
	Name                  string    `json:"name"`
	Email                 string    `json:"email"`
	PhoneNumber           string    `json:"phone_number"`
	DateOfBirth           Date      `json:"date_of_birth"`
	Age                   int       `json:"age"`
	Gender                string    `json:"gender"`
	GenderDisplay         string    `json:"gender_display"`
	Address               string    `json:"address"`
	MedicalHistory        *string   `json:"medical_history"`
	Allergies             *string   `json:"allergies"`
	EmergencyContactName  string    `json:"emergency_contact_name"`
	EmergencyContactPhone string    `json:"emergency_contact_phone"`
	IsActive              bool      `json:"is_active"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`

	// Only populated on the detail endpoint.
	ActiveDoctorCount *int `json:"active_doctor_count,omitempty"`
}

type PatientRequest struct {
	Name                  string  `json:"name"`
	Email                 string  `json:"email"`
	PhoneNumber           string  `json:"phone_number"`
	DateOfBirth           Date    `json:"date_of_birth"`
	Gender                string  `json:"gender"`
	Address               string  `json:"address"`
	MedicalHistory        *string `json:"medical_history"`
	Allergies             *string `json:"allergies"`
	EmergencyContactName  string  `json:"emergency_contact_name"`
	EmergencyContactPhone string  `json:"emergency_contact_phone"`
	IsActive              *bool   `json:"is_active"`
}

type PatientResponse struct {
	Message string  `json:"message"`
	Patient Patient `json:"patient"`
}

type PatientList struct {
	Count    int       `json:"count"`
	Patients []Patient `json:"patients"`
}

type PatientStats struct {
	TotalPatients      int            `json:"total_patients"`
	ActivePatients     int            `json:"active_patients"`
	InactivePatients   int            `json:"inactive_patients"`
	GenderDistribution map[string]int `json:"gender_distribution"`
	AgeDistribution    map[string]int `json:"age_distribution"`
}

type Doctor struct {
	Id                    string    `json:"id"`
	Name                  string    `json:"name"`
	Email                 string    `json:"email"`
	PhoneNumber           string    `json:"phone_number"`
	LicenseNumber         string    `json:"license_number"`
	Specialization        string    `json:"specialization"`
	SpecializationDisplay string    `json:"specialization_display"`
	YearsOfExperience     int       `json:"years_of_experience"`
	Qualification         string    `json:"qualification"`
	ClinicAddress         string    `json:"clinic_address"`
	ConsultationFee       float64   `json:"consultation_fee"`
	AvailableDays         string    `json:"available_days"`
	AvailableTime         string    `json:"available_time"`
	IsActive              bool      `json:"is_active"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

type DoctorRequest struct {
	Name              string  `json:"name"`
	Email             string  `json:"email"`
	PhoneNumber       string  `json:"phone_number"`
	LicenseNumber     string  `json:"license_number"`
	Specialization    string  `json:"specialization"`
	YearsOfExperience int     `json:"years_of_experience"`
	Qualification     string  `json:"qualification"`
	ClinicAddress     string  `json:"clinic_address"`
	ConsultationFee   float64 `json:"consultation_fee"`
	AvailableDays     string  `json:"available_days"`
	AvailableTime     string  `json:"available_time"`
	IsActive          *bool   `json:"is_active"`
}

type DoctorResponse struct {
	Message string `json:"message"`
	Doctor  Doctor `json:"doctor"`
}

type DoctorList struct {
	Count   int      `json:"count"`
	Doctors []Doctor `json:"doctors"`
}

type FeeStatistics struct {
	Average float64 `json:"average"`
	Minimum float64 `json:"minimum"`
	Maximum float64 `json:"maximum"`
}

type SpecializationPatientCount struct {
	Specialization string `json:"specialization"`
	PatientCount   int    `json:"patient_count"`
}

type DoctorStats struct {
	TotalDoctors               int                          `json:"total_doctors"`
	SpecializationDistribution map[string]int               `json:"specialization_distribution"`
	ExperienceDistribution     map[string]int               `json:"experience_distribution"`
	FeeStatistics              FeeStatistics                `json:"fee_statistics"`
	TopSpecializations         []SpecializationPatientCount `json:"top_specializations"`
}

type Mapping struct {
	Id                   string    `json:"id"`
	PatientId            string    `json:"patient_id"`
	PatientName          string    `json:"patient_name"`
	DoctorId             string    `json:"doctor_id"`
	DoctorName           string    `json:"doctor_name"`
	DoctorSpecialization string    `json:"doctor_specialization"`
	Notes                *string   `json:"notes"`
	IsPrimary            bool      `json:"is_primary"`
	IsActive             bool      `json:"is_active"`
	AssignedAt           time.Time `json:"assigned_at"`
}

type CreateMappingRequest struct {
	PatientId string  `json:"patient_id"`
	DoctorId  string  `json:"doctor_id"`
	Notes     *string `json:"notes"`
	IsPrimary *bool   `json:"is_primary"`
}

type UpdateMappingRequest struct {
	Notes     *string `json:"notes"`
	IsPrimary *bool   `json:"is_primary"`
}

type MappingResponse struct {
	Message string  `json:"message"`
	Mapping Mapping `json:"mapping"`
}

type MappingList struct {
	Count    int       `json:"count"`
	Mappings []Mapping `json:"mappings"`
}

type BulkAssignRequest struct {
	DoctorId   string   `json:"doctor_id"`
	PatientIds []string `json:"patient_ids"`
	Notes      *string  `json:"notes"`
	IsPrimary  *bool    `json:"is_primary"`
}

type SkippedAssignment struct {
	PatientId string `json:"patient_id"`
	Reason    string `json:"reason"`
}

type BulkAssignResponse struct {
	Message       string              `json:"message"`
	AssignedCount int                 `json:"assigned_count"`
	SkippedCount  int                 `json:"skipped_count"`
	Mappings      []Mapping           `json:"mappings"`
	Skipped       []SkippedAssignment `json:"skipped"`
}

type MappingStats struct {
	TotalMappings              int            `json:"total_mappings"`
	ActiveMappings             int            `json:"active_mappings"`
	PrimaryMappings            int            `json:"primary_mappings"`
	PatientsWithDoctors        int            `json:"patients_with_doctors"`
	PatientsWithoutDoctors     int            `json:"patients_without_doctors"`
	AverageDoctorsPerPatient   float64        `json:"average_doctors_per_patient"`
	SpecializationDistribution map[string]int `json:"specialization_distribution"`
}

type HealthStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
