package patients

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/caremesh/healthcare/store"
)

type Repository interface {
	Create(ctx context.Context, patient Patient) (*Patient, error)
	Get(ctx context.Context, userId string, id string) (*Patient, error)
	List(ctx context.Context, filter *Filter, pagination store.Pagination, sort *store.Sort) ([]*Patient, error)
	Update(ctx context.Context, userId string, id string, patient Patient) (*Patient, error)
	Deactivate(ctx context.Context, userId string, id string) error
	Search(ctx context.Context, filter *SearchFilter, pagination store.Pagination) ([]*Patient, error)
	Stats(ctx context.Context, userId string) (*Stats, error)
}

func NewRepository(db *sql.DB) (Repository, error) {
	return &repository{db: db}, nil
}

type repository struct {
	db *sql.DB
}

const patientColumns = `id, name, email, phone_number, date_of_birth, gender, address,
	medical_history, allergies, emergency_contact_name, emergency_contact_phone,
	created_by, created_at, updated_at, is_active`

var sortableAttributes = map[string]string{
	"name":          "name",
	"created_at":    "created_at",
	"date_of_birth": "date_of_birth",
}

func (r *repository) Create(ctx context.Context, patient Patient) (*Patient, error) {
	query := `
		INSERT INTO patients (name, email, phone_number, date_of_birth, gender, address,
			medical_history, allergies, emergency_contact_name, emergency_contact_phone,
			created_by, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + patientColumns

	created, err := scanPatient(r.db.QueryRowContext(ctx, query,
		patient.Name, patient.Email, patient.PhoneNumber, patient.DateOfBirth,
		patient.Gender, patient.Address, patient.MedicalHistory, patient.Allergies,
		patient.EmergencyContactName, patient.EmergencyContactPhone,
		patient.CreatedBy, patient.IsActive))
	if err != nil {
		if store.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("error creating patient: %w", err)
	}

	return created, nil
}

func (r *repository) Get(ctx context.Context, userId string, id string) (*Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1 AND created_by = $2`

	patient, err := scanPatient(r.db.QueryRowContext(ctx, query, id, userId))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error fetching patient: %w", err)
	}

	return patient, nil
}

func (r *repository) List(ctx context.Context, filter *Filter, pagination store.Pagination, sort *store.Sort) ([]*Patient, error) {
	where := []string{"created_by = $1"}
	args := []any{filter.CreatedBy}

	if filter.Gender != nil {
		args = append(args, *filter.Gender)
		where = append(where, fmt.Sprintf("gender = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		where = append(where, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if filter.Search != nil {
		args = append(args, "%"+*filter.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%[1]d OR email ILIKE $%[1]d OR phone_number ILIKE $%[1]d)", len(args)))
	}

	orderBy := "created_at DESC"
	if sort != nil {
		if column, ok := sortableAttributes[sort.Attribute]; ok {
			orderBy = column + " " + sort.Order()
		}
	}

	args = append(args, pagination.Limit, pagination.Offset)
	query := fmt.Sprintf(`SELECT %s FROM patients WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		patientColumns, strings.Join(where, " AND "), orderBy, len(args)-1, len(args))

	return r.queryPatients(ctx, query, args...)
}

func (r *repository) Update(ctx context.Context, userId string, id string, patient Patient) (*Patient, error) {
	query := `
		UPDATE patients
		SET name = $3, email = $4, phone_number = $5, date_of_birth = $6, gender = $7,
			address = $8, medical_history = $9, allergies = $10,
			emergency_contact_name = $11, emergency_contact_phone = $12,
			is_active = $13, updated_at = now()
		WHERE id = $1 AND created_by = $2
		RETURNING ` + patientColumns

	updated, err := scanPatient(r.db.QueryRowContext(ctx, query, id, userId,
		patient.Name, patient.Email, patient.PhoneNumber, patient.DateOfBirth,
		patient.Gender, patient.Address, patient.MedicalHistory, patient.Allergies,
		patient.EmergencyContactName, patient.EmergencyContactPhone, patient.IsActive))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		if store.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("error updating patient: %w", err)
	}

	return updated, nil
}

func (r *repository) Deactivate(ctx context.Context, userId string, id string) error {
	query := `
		UPDATE patients SET is_active = false, updated_at = now()
		WHERE id = $1 AND created_by = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, userId)
	if err != nil {
		return fmt.Errorf("error deactivating patient: %w", err)
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

func (r *repository) Search(ctx context.Context, filter *SearchFilter, pagination store.Pagination) ([]*Patient, error) {
	where := []string{"created_by = $1", "is_active = true"}
	args := []any{filter.CreatedBy}

	if filter.Query != nil {
		args = append(args, "%"+*filter.Query+"%")
		where = append(where, fmt.Sprintf(
			"(name ILIKE $%[1]d OR email ILIKE $%[1]d OR phone_number ILIKE $%[1]d OR medical_history ILIKE $%[1]d OR allergies ILIKE $%[1]d)",
			len(args)))
	}
	if filter.Gender != nil {
		args = append(args, *filter.Gender)
		where = append(where, fmt.Sprintf("gender = $%d", len(args)))
	}
	if filter.AgeMin != nil {
		args = append(args, *filter.AgeMin)
		where = append(where, fmt.Sprintf("date_of_birth <= now() - make_interval(years => $%d)", len(args)))
	}
	if filter.AgeMax != nil {
		args = append(args, *filter.AgeMax+1)
		where = append(where, fmt.Sprintf("date_of_birth > now() - make_interval(years => $%d)", len(args)))
	}
	if filter.HasAllergies != nil {
		if *filter.HasAllergies {
			where = append(where, "allergies IS NOT NULL AND allergies <> ''")
		} else {
			where = append(where, "(allergies IS NULL OR allergies = '')")
		}
	}

	args = append(args, pagination.Limit, pagination.Offset)
	query := fmt.Sprintf(`SELECT %s FROM patients WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		patientColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	return r.queryPatients(ctx, query, args...)
}

func (r *repository) Stats(ctx context.Context, userId string) (*Stats, error) {
	stats := &Stats{
		GenderDistribution: map[string]int{},
		AgeDistribution:    map[string]int{},
	}
	for _, label := range GenderLabels {
		stats.GenderDistribution[label] = 0
	}
	for _, bucket := range AgeBuckets {
		stats.AgeDistribution[bucket] = 0
	}

	totalsQuery := `
		SELECT count(*), count(*) FILTER (WHERE is_active)
		FROM patients WHERE created_by = $1
	`
	if err := r.db.QueryRowContext(ctx, totalsQuery, userId).
		Scan(&stats.TotalPatients, &stats.ActivePatients); err != nil {
		return nil, fmt.Errorf("error fetching patient totals: %w", err)
	}
	stats.InactivePatients = stats.TotalPatients - stats.ActivePatients

	distributionQuery := `
		SELECT gender, date_of_birth
		FROM patients WHERE created_by = $1 AND is_active = true
	`
	rows, err := r.db.QueryContext(ctx, distributionQuery, userId)
	if err != nil {
		return nil, fmt.Errorf("error fetching patient distribution: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var patient Patient
		if err := rows.Scan(&patient.Gender, &patient.DateOfBirth); err != nil {
			return nil, err
		}
		if label, ok := GenderLabels[patient.Gender]; ok {
			stats.GenderDistribution[label]++
		}
		stats.AgeDistribution[AgeBucket(patient.Age())]++
	}

	return stats, rows.Err()
}

func (r *repository) queryPatients(ctx context.Context, query string, args ...any) ([]*Patient, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing patients: %w", err)
	}
	defer rows.Close()

	patients := make([]*Patient, 0)
	for rows.Next() {
		patient, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("error decoding patient: %w", err)
		}
		patients = append(patients, patient)
	}

	return patients, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPatient(row rowScanner) (*Patient, error) {
	patient := &Patient{}
	err := row.Scan(
		&patient.Id, &patient.Name, &patient.Email, &patient.PhoneNumber,
		&patient.DateOfBirth, &patient.Gender, &patient.Address,
		&patient.MedicalHistory, &patient.Allergies,
		&patient.EmergencyContactName, &patient.EmergencyContactPhone,
		&patient.CreatedBy, &patient.CreatedAt, &patient.UpdatedAt, &patient.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return patient, nil
}
