package mappings

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/caremesh/healthcare/doctors"
	"github.com/caremesh/healthcare/patients"
	"github.com/caremesh/healthcare/store"
)

type Repository interface {
	Create(ctx context.Context, userId string, mapping Mapping) (*Mapping, error)
	Get(ctx context.Context, userId string, id string) (*Mapping, error)
	List(ctx context.Context, userId string, filter *Filter, pagination store.Pagination) ([]*Mapping, error)
	ListDoctorsForPatient(ctx context.Context, patientId string) ([]*doctors.Doctor, error)
	Update(ctx context.Context, userId string, id string, update Update) (*Mapping, error)
	Deactivate(ctx context.Context, userId string, id string) error
	ListUnassignedPatients(ctx context.Context, userId string, pagination store.Pagination) ([]*patients.Patient, error)
	SetPrimary(ctx context.Context, userId string, id string) (*Mapping, error)
	Stats(ctx context.Context, userId string) (*Stats, error)
	CountActiveForPatient(ctx context.Context, patientId string) (int, error)
	CountActiveForDoctor(ctx context.Context, doctorId string) (int, error)
}

func NewRepository(db *sql.DB) (Repository, error) {
	return &repository{db: db}, nil
}

type repository struct {
	db *sql.DB
}

const mappingColumns = `m.id, m.patient_id, m.doctor_id, m.assigned_by, m.assigned_at,
	m.notes, m.is_primary, m.is_active, p.name, d.name, d.specialization`

const mappingJoins = `
	FROM patient_doctor_mappings m
	JOIN patients p ON p.id = m.patient_id
	JOIN doctors d ON d.id = m.doctor_id`

// Create inserts a new assignment, reactivating a previously unassigned pair
// when one exists. A still active pair is a duplicate.
func (r *repository) Create(ctx context.Context, userId string, mapping Mapping) (*Mapping, error) {
	var id string
	err := store.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		if mapping.IsPrimary {
			if err := demotePrimary(ctx, tx, mapping.PatientId); err != nil {
				return err
			}
		}

		reactivate := `
			UPDATE patient_doctor_mappings
			SET is_active = true, assigned_by = $3, assigned_at = now(), notes = $4, is_primary = $5
			WHERE patient_id = $1 AND doctor_id = $2 AND is_active = false
			RETURNING id
		`
		err := tx.QueryRowContext(ctx, reactivate,
			mapping.PatientId, mapping.DoctorId, mapping.AssignedBy, mapping.Notes, mapping.IsPrimary).
			Scan(&id)
		if err == nil {
			return nil
		} else if err != sql.ErrNoRows {
			return fmt.Errorf("error reactivating mapping: %w", err)
		}

		insert := `
			INSERT INTO patient_doctor_mappings (patient_id, doctor_id, assigned_by, notes, is_primary, is_active)
			VALUES ($1, $2, $3, $4, $5, true)
			RETURNING id
		`
		err = tx.QueryRowContext(ctx, insert,
			mapping.PatientId, mapping.DoctorId, mapping.AssignedBy, mapping.Notes, mapping.IsPrimary).
			Scan(&id)
		if store.IsDuplicateKeyError(err) {
			return ErrDuplicate
		} else if err != nil {
			return fmt.Errorf("error creating mapping: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, userId, id)
}

func (r *repository) Get(ctx context.Context, userId string, id string) (*Mapping, error) {
	query := `SELECT ` + mappingColumns + mappingJoins + ` WHERE m.id = $1 AND p.created_by = $2`

	mapping, err := scanMapping(r.db.QueryRowContext(ctx, query, id, userId))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error fetching mapping: %w", err)
	}

	return mapping, nil
}

func (r *repository) List(ctx context.Context, userId string, filter *Filter, pagination store.Pagination) ([]*Mapping, error) {
	where := []string{"p.created_by = $1"}
	args := []any{userId}

	if filter.IsPrimary != nil {
		args = append(args, *filter.IsPrimary)
		where = append(where, fmt.Sprintf("m.is_primary = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		where = append(where, fmt.Sprintf("m.is_active = $%d", len(args)))
	}
	if filter.Specialization != nil {
		args = append(args, *filter.Specialization)
		where = append(where, fmt.Sprintf("d.specialization = $%d", len(args)))
	}

	args = append(args, pagination.Limit, pagination.Offset)
	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY m.assigned_at DESC LIMIT $%d OFFSET $%d`,
		mappingColumns, mappingJoins, strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing mappings: %w", err)
	}
	defer rows.Close()

	mappings := make([]*Mapping, 0)
	for rows.Next() {
		mapping, err := scanMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("error decoding mapping: %w", err)
		}
		mappings = append(mappings, mapping)
	}

	return mappings, rows.Err()
}

func (r *repository) ListDoctorsForPatient(ctx context.Context, patientId string) ([]*doctors.Doctor, error) {
	query := `
		SELECT d.id, d.name, d.email, d.phone_number, d.license_number, d.specialization,
			d.years_of_experience, d.qualification, d.clinic_address, d.consultation_fee,
			d.available_days, d.available_time, d.created_by, d.created_at, d.updated_at, d.is_active
		FROM doctors d
		JOIN patient_doctor_mappings m ON m.doctor_id = d.id
		WHERE m.patient_id = $1 AND m.is_active = true
		ORDER BY m.is_primary DESC, m.assigned_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, patientId)
	if err != nil {
		return nil, fmt.Errorf("error listing doctors for patient: %w", err)
	}
	defer rows.Close()

	result := make([]*doctors.Doctor, 0)
	for rows.Next() {
		doctor := &doctors.Doctor{}
		err := rows.Scan(
			&doctor.Id, &doctor.Name, &doctor.Email, &doctor.PhoneNumber,
			&doctor.LicenseNumber, &doctor.Specialization, &doctor.YearsOfExperience,
			&doctor.Qualification, &doctor.ClinicAddress, &doctor.ConsultationFee,
			&doctor.AvailableDays, &doctor.AvailableTime,
			&doctor.CreatedBy, &doctor.CreatedAt, &doctor.UpdatedAt, &doctor.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("error decoding doctor: %w", err)
		}
		result = append(result, doctor)
	}

	return result, rows.Err()
}

func (r *repository) Update(ctx context.Context, userId string, id string, update Update) (*Mapping, error) {
	err := store.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		existing, err := getForUpdate(ctx, tx, userId, id)
		if err != nil {
			return err
		}
		if update.IsPrimary && !existing.IsPrimary {
			if err := demotePrimary(ctx, tx, existing.PatientId); err != nil {
				return err
			}
		}

		query := `
			UPDATE patient_doctor_mappings
			SET notes = $2, is_primary = $3
			WHERE id = $1
		`
		_, err = tx.ExecContext(ctx, query, id, update.Notes, update.IsPrimary)
		if err != nil {
			return fmt.Errorf("error updating mapping: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, userId, id)
}

func (r *repository) Deactivate(ctx context.Context, userId string, id string) error {
	query := `
		UPDATE patient_doctor_mappings m
		SET is_active = false, is_primary = false
		FROM patients p
		WHERE m.id = $1 AND p.id = m.patient_id AND p.created_by = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, userId)
	if err != nil {
		return fmt.Errorf("error deactivating mapping: %w", err)
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) ListUnassignedPatients(ctx context.Context, userId string, pagination store.Pagination) ([]*patients.Patient, error) {
	query := `
		SELECT p.id, p.name, p.email, p.phone_number, p.date_of_birth, p.gender, p.address,
			p.medical_history, p.allergies, p.emergency_contact_name, p.emergency_contact_phone,
			p.created_by, p.created_at, p.updated_at, p.is_active
		FROM patients p
		WHERE p.created_by = $1 AND p.is_active = true
			AND NOT EXISTS (
				SELECT 1 FROM patient_doctor_mappings m
				WHERE m.patient_id = p.id AND m.is_active = true
			)
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, userId, pagination.Limit, pagination.Offset)
	if err != nil {
		return nil, fmt.Errorf("error listing unassigned patients: %w", err)
	}
	defer rows.Close()

	result := make([]*patients.Patient, 0)
	for rows.Next() {
		patient := &patients.Patient{}
		err := rows.Scan(
			&patient.Id, &patient.Name, &patient.Email, &patient.PhoneNumber,
			&patient.DateOfBirth, &patient.Gender, &patient.Address,
			&patient.MedicalHistory, &patient.Allergies,
			&patient.EmergencyContactName, &patient.EmergencyContactPhone,
			&patient.CreatedBy, &patient.CreatedAt, &patient.UpdatedAt, &patient.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("error decoding patient: %w", err)
		}
		result = append(result, patient)
	}

	return result, rows.Err()
}

func (r *repository) SetPrimary(ctx context.Context, userId string, id string) (*Mapping, error) {
	err := store.WithTransaction(ctx, r.db, func(tx *sql.Tx) error {
		existing, err := getForUpdate(ctx, tx, userId, id)
		if err != nil {
			return err
		}
		if !existing.IsActive {
			return ErrNotFound
		}
		if err := demotePrimary(ctx, tx, existing.PatientId); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE patient_doctor_mappings SET is_primary = true WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("error promoting mapping: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.Get(ctx, userId, id)
}

func (r *repository) Stats(ctx context.Context, userId string) (*Stats, error) {
	stats := &Stats{
		SpecializationDistribution: map[string]int{},
	}

	totalsQuery := `
		SELECT count(*),
			count(*) FILTER (WHERE m.is_active),
			count(*) FILTER (WHERE m.is_active AND m.is_primary),
			count(DISTINCT m.patient_id) FILTER (WHERE m.is_active)
		FROM patient_doctor_mappings m
		JOIN patients p ON p.id = m.patient_id
		WHERE p.created_by = $1
	`
	if err := r.db.QueryRowContext(ctx, totalsQuery, userId).Scan(
		&stats.TotalMappings,
		&stats.ActiveMappings,
		&stats.PrimaryMappings,
		&stats.PatientsWithDoctors,
	); err != nil {
		return nil, fmt.Errorf("error fetching mapping totals: %w", err)
	}

	var activePatients int
	patientsQuery := `SELECT count(*) FROM patients WHERE created_by = $1 AND is_active = true`
	if err := r.db.QueryRowContext(ctx, patientsQuery, userId).Scan(&activePatients); err != nil {
		return nil, fmt.Errorf("error fetching patient count: %w", err)
	}
	stats.PatientsWithoutDoctors = activePatients - stats.PatientsWithDoctors
	if stats.PatientsWithoutDoctors < 0 {
		stats.PatientsWithoutDoctors = 0
	}
	if stats.PatientsWithDoctors > 0 {
		stats.AverageDoctorsPerPatient = float64(stats.ActiveMappings) / float64(stats.PatientsWithDoctors)
	}

	distributionQuery := `
		SELECT d.specialization, count(*)
		FROM patient_doctor_mappings m
		JOIN patients p ON p.id = m.patient_id
		JOIN doctors d ON d.id = m.doctor_id
		WHERE p.created_by = $1 AND m.is_active = true
		GROUP BY d.specialization
	`
	rows, err := r.db.QueryContext(ctx, distributionQuery, userId)
	if err != nil {
		return nil, fmt.Errorf("error fetching mapping distribution: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var specialization string
		var count int
		if err := rows.Scan(&specialization, &count); err != nil {
			return nil, err
		}
		if label, ok := doctors.SpecializationLabels[specialization]; ok {
			specialization = label
		}
		stats.SpecializationDistribution[specialization] = count
	}

	return stats, rows.Err()
}

func (r *repository) CountActiveForPatient(ctx context.Context, patientId string) (int, error) {
	var count int
	query := `SELECT count(*) FROM patient_doctor_mappings WHERE patient_id = $1 AND is_active = true`
	if err := r.db.QueryRowContext(ctx, query, patientId).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting mappings: %w", err)
	}
	return count, nil
}

func (r *repository) CountActiveForDoctor(ctx context.Context, doctorId string) (int, error) {
	var count int
	query := `SELECT count(*) FROM patient_doctor_mappings WHERE doctor_id = $1 AND is_active = true`
	if err := r.db.QueryRowContext(ctx, query, doctorId).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting mappings: %w", err)
	}
	return count, nil
}

func demotePrimary(ctx context.Context, tx *sql.Tx, patientId string) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE patient_doctor_mappings SET is_primary = false WHERE patient_id = $1 AND is_primary = true`,
		patientId)
	if err != nil {
		return fmt.Errorf("error demoting primary mapping: %w", err)
	}
	return nil
}

func getForUpdate(ctx context.Context, tx *sql.Tx, userId string, id string) (*Mapping, error) {
	query := `
		SELECT m.id, m.patient_id, m.is_primary, m.is_active
		FROM patient_doctor_mappings m
		JOIN patients p ON p.id = m.patient_id
		WHERE m.id = $1 AND p.created_by = $2
		FOR UPDATE OF m
	`
	mapping := &Mapping{}
	err := tx.QueryRowContext(ctx, query, id, userId).
		Scan(&mapping.Id, &mapping.PatientId, &mapping.IsPrimary, &mapping.IsActive)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error fetching mapping: %w", err)
	}
	return mapping, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMapping(row rowScanner) (*Mapping, error) {
	mapping := &Mapping{}
	err := row.Scan(
		&mapping.Id, &mapping.PatientId, &mapping.DoctorId, &mapping.AssignedBy,
		&mapping.AssignedAt, &mapping.Notes, &mapping.IsPrimary, &mapping.IsActive,
		&mapping.PatientName, &mapping.DoctorName, &mapping.DoctorSpecialization,
	)
	if err != nil {
		return nil, err
	}
	return mapping, nil
}
