package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
)

const patientColumns = `
	id, clinic_id, first_name, last_name, email, phone, date_of_birth,
	address, blood_type, allergies, current_medications, notes,
	created_at, updated_at
`

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, clinic_id, first_name, last_name, email, phone, date_of_birth,
			address, blood_type, allergies, current_medications, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = patient.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.ClinicID,
		patient.FirstName,
		patient.LastName,
		patient.Email,
		patient.Phone,
		patient.DateOfBirth,
		patient.Address,
		patient.BloodType,
		patient.Allergies,
		patient.CurrentMedications,
		patient.Notes,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", translateErr(err))
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE clinic_id = $1 AND id = $2`

	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, clinicID, id); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", translateErr(err))
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET first_name = $1, last_name = $2, email = $3, phone = $4,
			date_of_birth = $5, address = $6, blood_type = $7, allergies = $8,
			current_medications = $9, notes = $10, updated_at = $11
		WHERE clinic_id = $12 AND id = $13
	`
	patient.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		patient.FirstName,
		patient.LastName,
		patient.Email,
		patient.Phone,
		patient.DateOfBirth,
		patient.Address,
		patient.BloodType,
		patient.Allergies,
		patient.CurrentMedications,
		patient.Notes,
		patient.UpdatedAt,
		patient.ClinicID,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", translateErr(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("failed to update patient: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *patientRepository) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM patients WHERE clinic_id = $1 AND id = $2`, clinicID, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("failed to delete patient: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context, clinicID uuid.UUID, filters *model.PatientFilters) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE clinic_id = $1`
	args := []interface{}{clinicID}

	if filters != nil && filters.Search != "" {
		query += ` AND (first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2)`
		args = append(args, "%"+filters.Search+"%")
	}

	query += ` ORDER BY last_name ASC, first_name ASC`

	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) GetByEmail(ctx context.Context, clinicID uuid.UUID, email string) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE clinic_id = $1 AND email = $2`

	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, clinicID, email); err != nil {
		return nil, fmt.Errorf("failed to get patient by email: %w", translateErr(err))
	}
	return &patient, nil
}

func (r *patientRepository) ListByEmail(ctx context.Context, email string) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE email = $1`

	var patients []*model.Patient
	if err := r.db.SelectContext(ctx, &patients, query, email); err != nil {
		return nil, fmt.Errorf("failed to list patients by email: %w", err)
	}
	return patients, nil
}
