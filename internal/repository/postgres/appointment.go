package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
)

const appointmentColumns = `
	id, clinic_id, patient_id, service_id, assigned_user_id,
	start_time, duration, status, notes, created_at, updated_at
`

// conflictExistsQuery finds any blocking appointment whose half-open
// interval [start_time, start_time + duration) overlaps the candidate.
const conflictExistsQuery = `
	SELECT EXISTS (
		SELECT 1 FROM appointments
		WHERE clinic_id = $1
		AND status NOT IN ('CANCELLED', 'NO_SHOW')
		AND start_time < $3
		AND start_time + make_interval(mins => duration) > $2
`

// Create runs the overlap scan and the insert inside one transaction,
// serialized per clinic with an advisory lock. Two concurrent bookings for
// the same slot therefore cannot both pass the scan: one commits, the other
// observes the committed row and gets ErrSlotConflict.
func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment, scope model.ConflictScope) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	conflict, err := r.checkConflictTx(ctx, tx, apt.ClinicID, apt.StartTime, apt.Duration, nil, practitionerFilter(scope, apt.AssignedUserID))
	if err != nil {
		return err
	}
	if conflict {
		return repository.ErrSlotConflict
	}

	apt.ID = uuid.New()
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = apt.CreatedAt

	_, err = tx.ExecContext(ctx, `
		INSERT INTO appointments (
			id, clinic_id, patient_id, service_id, assigned_user_id,
			start_time, duration, status, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		apt.ID,
		apt.ClinicID,
		apt.PatientID,
		apt.ServiceID,
		apt.AssignedUserID,
		apt.StartTime,
		apt.Duration,
		apt.Status,
		apt.Notes,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", translateErr(err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE clinic_id = $1 AND id = $2`

	var apt model.Appointment
	if err := r.db.GetContext(ctx, &apt, query, clinicID, id); err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", translateErr(err))
	}
	return &apt, nil
}

// Update persists the appointment; when checkConflict is set (the start time
// moved) the overlap scan runs in the same transaction, excluding the row
// being updated.
func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment, checkConflict bool, scope model.ConflictScope) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if checkConflict {
		conflict, err := r.checkConflictTx(ctx, tx, apt.ClinicID, apt.StartTime, apt.Duration, &apt.ID, practitionerFilter(scope, apt.AssignedUserID))
		if err != nil {
			return err
		}
		if conflict {
			return repository.ErrSlotConflict
		}
	}

	apt.UpdatedAt = time.Now()

	result, err := tx.ExecContext(ctx, `
		UPDATE appointments
		SET start_time = $1, status = $2, assigned_user_id = $3, notes = $4, updated_at = $5
		WHERE clinic_id = $6 AND id = $7`,
		apt.StartTime,
		apt.Status,
		apt.AssignedUserID,
		apt.Notes,
		apt.UpdatedAt,
		apt.ClinicID,
		apt.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", translateErr(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("failed to update appointment: %w", repository.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit appointment update: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM appointments WHERE clinic_id = $1 AND id = $2`, clinicID, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("failed to delete appointment: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, clinicID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE clinic_id = $1`
	args := []interface{}{clinicID}
	argCount := 2

	if filters != nil {
		if filters.Date != nil {
			dayStart := filters.Date.Truncate(24 * time.Hour)
			query += fmt.Sprintf(" AND start_time >= $%d AND start_time < $%d", argCount, argCount+1)
			args = append(args, dayStart, dayStart.Add(24*time.Hour))
			argCount += 2
		}
		if filters.Status != "" {
			query += fmt.Sprintf(" AND status = $%d", argCount)
			args = append(args, filters.Status)
			argCount++
		}
		if filters.PatientID != nil {
			query += fmt.Sprintf(" AND patient_id = $%d", argCount)
			args = append(args, *filters.PatientID)
			argCount++
		}
		if filters.AssignedUserID != nil {
			query += fmt.Sprintf(" AND assigned_user_id = $%d", argCount)
			args = append(args, *filters.AssignedUserID)
			argCount++
		}
	}

	query += " ORDER BY start_time ASC"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) HasConflict(ctx context.Context, clinicID uuid.UUID, start time.Time, durationMinutes int, excludeID, practitionerID *uuid.UUID) (bool, error) {
	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	query := conflictExistsQuery
	args := []interface{}{clinicID, start, end}
	argCount := 4

	if excludeID != nil {
		query += fmt.Sprintf(" AND id != $%d", argCount)
		args = append(args, *excludeID)
		argCount++
	}
	if practitionerID != nil {
		query += fmt.Sprintf(" AND assigned_user_id = $%d", argCount)
		args = append(args, *practitionerID)
	}
	query += ")"

	var conflict bool
	if err := r.db.GetContext(ctx, &conflict, query, args...); err != nil {
		return false, fmt.Errorf("failed to check conflicts: %w", err)
	}
	return conflict, nil
}

func (r *appointmentRepository) ListForPatients(ctx context.Context, patientIDs []uuid.UUID, upcoming, past bool) ([]*model.Appointment, error) {
	if len(patientIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE patient_id IN (?)`, patientIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	today := time.Now().Truncate(24 * time.Hour)
	order := " ORDER BY start_time ASC"

	if upcoming {
		query += " AND start_time >= ? AND status NOT IN ('CANCELLED', 'NO_SHOW')"
		args = append(args, today)
	} else if past {
		query += " AND start_time < ?"
		args = append(args, today)
		order = " ORDER BY start_time DESC"
	}
	query += order

	query = r.db.Rebind(query)

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}
	return appointments, nil
}

// checkConflictTx takes a per-clinic advisory lock before scanning, closing
// the check-then-insert race between concurrent bookings. The lock is
// released automatically at commit or rollback.
func (r *appointmentRepository) checkConflictTx(ctx context.Context, tx *sqlx.Tx, clinicID uuid.UUID, start time.Time, durationMinutes int, excludeID, practitionerID *uuid.UUID) (bool, error) {
	if _, err := tx.ExecContext(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, clinicID); err != nil {
		return false, fmt.Errorf("failed to acquire booking lock: %w", err)
	}

	end := start.Add(time.Duration(durationMinutes) * time.Minute)

	query := conflictExistsQuery
	args := []interface{}{clinicID, start, end}
	argCount := 4

	if excludeID != nil {
		query += fmt.Sprintf(" AND id != $%d", argCount)
		args = append(args, *excludeID)
		argCount++
	}
	if practitionerID != nil {
		query += fmt.Sprintf(" AND assigned_user_id = $%d", argCount)
		args = append(args, *practitionerID)
	}
	query += ")"

	var conflict bool
	if err := tx.GetContext(ctx, &conflict, query, args...); err != nil {
		return false, fmt.Errorf("failed to check conflicts: %w", err)
	}
	return conflict, nil
}

// practitionerFilter returns the assigned-user filter for practitioner-wide
// scope; clinic-wide scope scans everything.
func practitionerFilter(scope model.ConflictScope, assignedUserID *uuid.UUID) *uuid.UUID {
	if scope == model.ConflictScopePractitioner {
		return assignedUserID
	}
	return nil
}
