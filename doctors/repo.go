package doctors

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/caremesh/healthcare/store"
)

type Repository interface {
	Create(ctx context.Context, doctor Doctor) (*Doctor, error)
	Get(ctx context.Context, id string) (*Doctor, error)
	List(ctx context.Context, filter *Filter, pagination store.Pagination, sort *store.Sort) ([]*Doctor, error)
	Update(ctx context.Context, id string, doctor Doctor) (*Doctor, error)
	Deactivate(ctx context.Context, id string) error
	Search(ctx context.Context, filter *SearchFilter, pagination store.Pagination) ([]*Doctor, error)
	ListBySpecialization(ctx context.Context, specialization string, pagination store.Pagination) ([]*Doctor, error)
	Stats(ctx context.Context) (*Stats, error)
}

func NewRepository(db *sql.DB) (Repository, error) {
	return &repository{db: db}, nil
}

type repository struct {
	db *sql.DB
}

const doctorColumns = `id, name, email, phone_number, license_number, specialization,
	years_of_experience, qualification, clinic_address, consultation_fee,
	available_days, available_time, created_by, created_at, updated_at, is_active`

var sortableAttributes = map[string]string{
	"name":                "name",
	"created_at":          "created_at",
	"years_of_experience": "years_of_experience",
	"consultation_fee":    "consultation_fee",
}

func (r *repository) Create(ctx context.Context, doctor Doctor) (*Doctor, error) {
	query := `
		INSERT INTO doctors (name, email, phone_number, license_number, specialization,
			years_of_experience, qualification, clinic_address, consultation_fee,
			available_days, available_time, created_by, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + doctorColumns

	created, err := scanDoctor(r.db.QueryRowContext(ctx, query,
		doctor.Name, doctor.Email, doctor.PhoneNumber, doctor.LicenseNumber,
		doctor.Specialization, doctor.YearsOfExperience, doctor.Qualification,
		doctor.ClinicAddress, doctor.ConsultationFee, doctor.AvailableDays,
		doctor.AvailableTime, doctor.CreatedBy, doctor.IsActive))
	if err != nil {
		if store.IsDuplicateKeyError(err) {
			if store.ConstraintName(err) == "doctors_license_number_key" {
				return nil, ErrDuplicateLicense
			}
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("error creating doctor: %w", err)
	}

	return created, nil
}

func (r *repository) Get(ctx context.Context, id string) (*Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE id = $1`

	doctor, err := scanDoctor(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("error fetching doctor: %w", err)
	}

	return doctor, nil
}

func (r *repository) List(ctx context.Context, filter *Filter, pagination store.Pagination, sort *store.Sort) ([]*Doctor, error) {
	where := []string{"true"}
	args := []any{}

	if filter.Specialization != nil {
		args = append(args, *filter.Specialization)
		where = append(where, fmt.Sprintf("specialization = $%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		where = append(where, fmt.Sprintf("is_active = $%d", len(args)))
	}
	if filter.Search != nil {
		args = append(args, "%"+*filter.Search+"%")
		where = append(where, fmt.Sprintf(
			"(name ILIKE $%[1]d OR email ILIKE $%[1]d OR specialization ILIKE $%[1]d OR qualification ILIKE $%[1]d)",
			len(args)))
	}

	orderBy := "name ASC"
	if sort != nil {
		if column, ok := sortableAttributes[sort.Attribute]; ok {
			orderBy = column + " " + sort.Order()
		}
	}

	args = append(args, pagination.Limit, pagination.Offset)
	query := fmt.Sprintf(`SELECT %s FROM doctors WHERE %s ORDER BY %s LIMIT $%d OFFSET $%d`,
		doctorColumns, strings.Join(where, " AND "), orderBy, len(args)-1, len(args))

	return r.queryDoctors(ctx, query, args...)
}

func (r *repository) Update(ctx context.Context, id string, doctor Doctor) (*Doctor, error) {
	query := `
		UPDATE doctors
		SET name = $2, email = $3, phone_number = $4, license_number = $5,
			specialization = $6, years_of_experience = $7, qualification = $8,
			clinic_address = $9, consultation_fee = $10, available_days = $11,
			available_time = $12, is_active = $13, updated_at = now()
		WHERE id = $1
		RETURNING ` + doctorColumns

	updated, err := scanDoctor(r.db.QueryRowContext(ctx, query, id,
		doctor.Name, doctor.Email, doctor.PhoneNumber, doctor.LicenseNumber,
		doctor.Specialization, doctor.YearsOfExperience, doctor.Qualification,
		doctor.ClinicAddress, doctor.ConsultationFee, doctor.AvailableDays,
		doctor.AvailableTime, doctor.IsActive))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	} else if err != nil {
		if store.IsDuplicateKeyError(err) {
			if store.ConstraintName(err) == "doctors_license_number_key" {
				return nil, ErrDuplicateLicense
			}
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("error updating doctor: %w", err)
	}

	return updated, nil
}

func (r *repository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE doctors SET is_active = false, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error deactivating doctor: %w", err)
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

func (r *repository) Search(ctx context.Context, filter *SearchFilter, pagination store.Pagination) ([]*Doctor, error) {
	where := []string{"is_active = true"}
	args := []any{}

	if filter.Query != nil {
		args = append(args, "%"+*filter.Query+"%")
		where = append(where, fmt.Sprintf(
			"(name ILIKE $%[1]d OR specialization ILIKE $%[1]d OR qualification ILIKE $%[1]d OR clinic_address ILIKE $%[1]d)",
			len(args)))
	}
	if filter.Specialization != nil {
		args = append(args, *filter.Specialization)
		where = append(where, fmt.Sprintf("specialization = $%d", len(args)))
	}
	if filter.MinExperience != nil {
		args = append(args, *filter.MinExperience)
		where = append(where, fmt.Sprintf("years_of_experience >= $%d", len(args)))
	}
	if filter.MaxExperience != nil {
		args = append(args, *filter.MaxExperience)
		where = append(where, fmt.Sprintf("years_of_experience <= $%d", len(args)))
	}
	if filter.MinFee != nil {
		args = append(args, *filter.MinFee)
		where = append(where, fmt.Sprintf("consultation_fee >= $%d", len(args)))
	}
	if filter.MaxFee != nil {
		args = append(args, *filter.MaxFee)
		where = append(where, fmt.Sprintf("consultation_fee <= $%d", len(args)))
	}
	if filter.AvailableDay != nil {
		args = append(args, "%"+*filter.AvailableDay+"%")
		where = append(where, fmt.Sprintf("available_days ILIKE $%d", len(args)))
	}

	args = append(args, pagination.Limit, pagination.Offset)
	query := fmt.Sprintf(
		`SELECT %s FROM doctors WHERE %s ORDER BY consultation_fee ASC, years_of_experience DESC LIMIT $%d OFFSET $%d`,
		doctorColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	return r.queryDoctors(ctx, query, args...)
}

func (r *repository) ListBySpecialization(ctx context.Context, specialization string, pagination store.Pagination) ([]*Doctor, error) {
	query := `SELECT ` + doctorColumns + `
		FROM doctors
		WHERE specialization = $1 AND is_active = true
		ORDER BY years_of_experience DESC
		LIMIT $2 OFFSET $3`

	return r.queryDoctors(ctx, query, specialization, pagination.Limit, pagination.Offset)
}

var experienceBuckets = []struct {
	label string
	min   int
	max   int
}{
	{"0-5 years", 0, 5},
	{"6-15 years", 6, 15},
	{"16-25 years", 16, 25},
	{"25+ years", 26, 1 << 30},
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		SpecializationDistribution: map[string]int{},
		ExperienceDistribution:     map[string]int{},
	}

	totalsQuery := `
		SELECT count(*),
			coalesce(avg(consultation_fee), 0),
			coalesce(min(consultation_fee), 0),
			coalesce(max(consultation_fee), 0)
		FROM doctors WHERE is_active = true
	`
	if err := r.db.QueryRowContext(ctx, totalsQuery).Scan(
		&stats.TotalDoctors,
		&stats.FeeStatistics.Average,
		&stats.FeeStatistics.Minimum,
		&stats.FeeStatistics.Maximum,
	); err != nil {
		return nil, fmt.Errorf("error fetching doctor totals: %w", err)
	}

	specializationQuery := `
		SELECT specialization, count(*)
		FROM doctors WHERE is_active = true
		GROUP BY specialization
	`
	rows, err := r.db.QueryContext(ctx, specializationQuery)
	if err != nil {
		return nil, fmt.Errorf("error fetching specialization distribution: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var specialization string
		var count int
		if err := rows.Scan(&specialization, &count); err != nil {
			return nil, err
		}
		if label, ok := SpecializationLabels[specialization]; ok {
			stats.SpecializationDistribution[label] = count
		} else {
			stats.SpecializationDistribution[specialization] = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, bucket := range experienceBuckets {
		experienceQuery := `
			SELECT count(*) FROM doctors
			WHERE is_active = true AND years_of_experience BETWEEN $1 AND $2
		`
		var count int
		if err := r.db.QueryRowContext(ctx, experienceQuery, bucket.min, bucket.max).Scan(&count); err != nil {
			return nil, fmt.Errorf("error fetching experience distribution: %w", err)
		}
		stats.ExperienceDistribution[bucket.label] = count
	}

	topQuery := `
		SELECT d.specialization, count(m.id) FILTER (WHERE m.is_active) AS patient_count
		FROM doctors d
		LEFT JOIN patient_doctor_mappings m ON m.doctor_id = d.id
		WHERE d.is_active = true
		GROUP BY d.specialization
		ORDER BY patient_count DESC
		LIMIT 5
	`
	topRows, err := r.db.QueryContext(ctx, topQuery)
	if err != nil {
		return nil, fmt.Errorf("error fetching top specializations: %w", err)
	}
	defer topRows.Close()
	for topRows.Next() {
		entry := SpecializationPatientCount{}
		if err := topRows.Scan(&entry.Specialization, &entry.PatientCount); err != nil {
			return nil, err
		}
		if label, ok := SpecializationLabels[entry.Specialization]; ok {
			entry.Specialization = label
		}
		stats.TopSpecializations = append(stats.TopSpecializations, entry)
	}

	return stats, topRows.Err()
}

func (r *repository) queryDoctors(ctx context.Context, query string, args ...any) ([]*Doctor, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing doctors: %w", err)
	}
	defer rows.Close()

	doctors := make([]*Doctor, 0)
	for rows.Next() {
		doctor, err := scanDoctor(rows)
		if err != nil {
			return nil, fmt.Errorf("error decoding doctor: %w", err)
		}
		doctors = append(doctors, doctor)
	}

	return doctors, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDoctor(row rowScanner) (*Doctor, error) {
	doctor := &Doctor{}
	err := row.Scan(
		&doctor.Id, &doctor.Name, &doctor.Email, &doctor.PhoneNumber,
		&doctor.LicenseNumber, &doctor.Specialization, &doctor.YearsOfExperience,
		&doctor.Qualification, &doctor.ClinicAddress, &doctor.ConsultationFee,
		&doctor.AvailableDays, &doctor.AvailableTime,
		&doctor.CreatedBy, &doctor.CreatedAt, &doctor.UpdatedAt, &doctor.IsActive,
	)
	if err != nil {
		return nil, err
	}
	return doctor, nil
}
