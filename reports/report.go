package reports

import (
	"fmt"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/caremesh/healthcare/doctors"
	"github.com/caremesh/healthcare/mappings"
	"github.com/caremesh/healthcare/patients"
)

const (
	ReportSheetNameSummary     = "Summary"
	ReportSheetNamePatients    = "Patients"
	ReportSheetNameDoctors     = "Doctors"
	ReportSheetNameAssignments = "Assignments"

	dateLayout = "2006-01-02"
)

// Roster is a snapshot of a user's records used to build the workbook.
type Roster struct {
	GeneratedAt  time.Time
	Patients     []*patients.Patient
	Doctors      []*doctors.Doctor
	Mappings     []*mappings.Mapping
	PatientStats *patients.Stats
	DoctorStats  *doctors.Stats
	MappingStats *mappings.Stats
}

type Report struct {
	roster Roster
}

func NewReport(roster Roster) Report {
	return Report{roster: roster}
}

func (r Report) Generate() (*xlsx.File, error) {
	report := xlsx.NewFile()

	components := []func(report *xlsx.File) error{
		r.addSummarySheet,
		r.addPatientsSheet,
		r.addDoctorsSheet,
		r.addAssignmentsSheet,
	}
	for _, fn := range components {
		if err := fn(report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func (r Report) addSummarySheet(report *xlsx.File) error {
	sh, err := report.AddSheet(ReportSheetNameSummary)
	if err != nil {
		return err
	}

	sh.AddRow().AddCell().SetValue("PATIENT ROSTER REPORT")
	sh.AddRow().AddCell().SetValue(fmt.Sprintf("Generated at %s", r.roster.GeneratedAt.Format(time.RFC3339)))
	sh.AddRow()

	if stats := r.roster.PatientStats; stats != nil {
		addKeyValueRow(sh, "Total Patients", stats.TotalPatients)
		addKeyValueRow(sh, "Active Patients", stats.ActivePatients)
		addKeyValueRow(sh, "Inactive Patients", stats.InactivePatients)
	}
	if stats := r.roster.DoctorStats; stats != nil {
		addKeyValueRow(sh, "Total Doctors", stats.TotalDoctors)
	}
	if stats := r.roster.MappingStats; stats != nil {
		addKeyValueRow(sh, "Active Assignments", stats.ActiveMappings)
		addKeyValueRow(sh, "Patients With Doctors", stats.PatientsWithDoctors)
		addKeyValueRow(sh, "Patients Without Doctors", stats.PatientsWithoutDoctors)
	}

	return nil
}

func (r Report) addPatientsSheet(report *xlsx.File) error {
	sh, err := report.AddSheet(ReportSheetNamePatients)
	if err != nil {
		return err
	}

	currentRow := sh.AddRow()
	for _, header := range []string{"Name", "Email", "Phone", "Date of Birth", "Age", "Gender", "Allergies", "Active"} {
		currentRow.AddCell().SetValue(header)
	}

	for _, patient := range r.roster.Patients {
		currentRow = sh.AddRow()
		currentRow.AddCell().SetValue(patient.Name)
		currentRow.AddCell().SetValue(patient.Email)
		currentRow.AddCell().SetValue(patient.PhoneNumber)
		currentRow.AddCell().SetValue(patient.DateOfBirth.Format(dateLayout))
		currentRow.AddCell().SetValue(patient.Age())
		currentRow.AddCell().SetValue(patients.GenderLabels[patient.Gender])
		if patient.Allergies != nil {
			currentRow.AddCell().SetValue(*patient.Allergies)
		} else {
			currentRow.AddCell()
		}
		currentRow.AddCell().SetValue(patient.IsActive)
	}

	return nil
}

func (r Report) addDoctorsSheet(report *xlsx.File) error {
	sh, err := report.AddSheet(ReportSheetNameDoctors)
	if err != nil {
		return err
	}

	currentRow := sh.AddRow()
	for _, header := range []string{"Name", "Email", "License", "Specialization", "Experience (years)", "Consultation Fee", "Active"} {
		currentRow.AddCell().SetValue(header)
	}

	for _, doctor := range r.roster.Doctors {
		currentRow = sh.AddRow()
		currentRow.AddCell().SetValue(doctor.Name)
		currentRow.AddCell().SetValue(doctor.Email)
		currentRow.AddCell().SetValue(doctor.LicenseNumber)
		currentRow.AddCell().SetValue(doctor.SpecializationLabel())
		currentRow.AddCell().SetValue(doctor.YearsOfExperience)
		currentRow.AddCell().SetValue(doctor.ConsultationFee)
		currentRow.AddCell().SetValue(doctor.IsActive)
	}

	return nil
}

func (r Report) addAssignmentsSheet(report *xlsx.File) error {
	sh, err := report.AddSheet(ReportSheetNameAssignments)
	if err != nil {
		return err
	}

	currentRow := sh.AddRow()
	for _, header := range []string{"Patient", "Doctor", "Specialization", "Primary", "Active", "Assigned At"} {
		currentRow.AddCell().SetValue(header)
	}

	for _, mapping := range r.roster.Mappings {
		currentRow = sh.AddRow()
		currentRow.AddCell().SetValue(mapping.PatientName)
		currentRow.AddCell().SetValue(mapping.DoctorName)
		currentRow.AddCell().SetValue(mapping.DoctorSpecialization)
		currentRow.AddCell().SetValue(mapping.IsPrimary)
		currentRow.AddCell().SetValue(mapping.IsActive)
		currentRow.AddCell().SetValue(mapping.AssignedAt.Format(time.RFC3339))
	}

	return nil
}

func addKeyValueRow(sh *xlsx.Sheet, key string, value interface{}) {
	currentRow := sh.AddRow()
	currentRow.AddCell().SetValue(key)
	currentRow.AddCell().SetValue(value)
}
