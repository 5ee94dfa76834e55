package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/model"
)

const prescriptionDetailQuery = `
	SELECT pr.id, pr.clinic_id, pr.patient_id, pr.created_by_id, pr.appointment_id,
		   pr.diagnosis, pr.medications, pr.instructions, pr.notes,
		   pr.created_at, pr.updated_at,
		   p.first_name AS patient_first_name,
		   p.last_name AS patient_last_name,
		   p.email AS patient_email,
		   a.name AS author_name,
		   c.name AS clinic_name,
		   c.address AS clinic_address,
		   c.phone AS clinic_phone
	FROM prescriptions pr
	JOIN patients p ON p.id = pr.patient_id
	JOIN accounts a ON a.id = pr.created_by_id
	JOIN clinics c ON c.id = pr.clinic_id
`

func (r *prescriptionRepository) Create(ctx context.Context, p *model.Prescription) error {
	query := `
		INSERT INTO prescriptions (
			id, clinic_id, patient_id, created_by_id, appointment_id,
			diagnosis, medications, instructions, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.ClinicID,
		p.PatientID,
		p.CreatedByID,
		p.AppointmentID,
		p.Diagnosis,
		p.Medications,
		p.Instructions,
		p.Notes,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prescription: %w", translateErr(err))
	}
	return nil
}

func (r *prescriptionRepository) GetDetail(ctx context.Context, clinicID, id uuid.UUID) (*model.PrescriptionDetail, error) {
	query := prescriptionDetailQuery + ` WHERE pr.clinic_id = $1 AND pr.id = $2`

	var detail model.PrescriptionDetail
	if err := r.db.GetContext(ctx, &detail, query, clinicID, id); err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", translateErr(err))
	}
	return &detail, nil
}

func (r *prescriptionRepository) List(ctx context.Context, clinicID uuid.UUID, patientID *uuid.UUID) ([]*model.PrescriptionDetail, error) {
	query := prescriptionDetailQuery + ` WHERE pr.clinic_id = $1`
	args := []interface{}{clinicID}

	if patientID != nil {
		query += ` AND pr.patient_id = $2`
		args = append(args, *patientID)
	}
	query += ` ORDER BY pr.created_at DESC`

	var details []*model.PrescriptionDetail
	if err := r.db.SelectContext(ctx, &details, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return details, nil
}

func (r *prescriptionRepository) ListByPatientEmail(ctx context.Context, email string) ([]*model.PrescriptionDetail, error) {
	query := prescriptionDetailQuery + ` WHERE p.email = $1 ORDER BY pr.created_at DESC`

	var details []*model.PrescriptionDetail
	if err := r.db.SelectContext(ctx, &details, query, email); err != nil {
		return nil, fmt.Errorf("failed to list prescriptions by email: %w", err)
	}
	return details, nil
}
