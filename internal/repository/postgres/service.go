package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
)

func (r *serviceRepository) Create(ctx context.Context, svc *model.Service) error {
	query := `
		INSERT INTO services (
			id, clinic_id, name, description, duration, price, category,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	svc.ID = uuid.New()
	svc.IsActive = true
	svc.CreatedAt = time.Now()
	svc.UpdatedAt = svc.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		svc.ID,
		svc.ClinicID,
		svc.Name,
		svc.Description,
		svc.Duration,
		svc.Price,
		svc.Category,
		svc.IsActive,
		svc.CreatedAt,
		svc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", translateErr(err))
	}
	return nil
}

func (r *serviceRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Service, error) {
	query := `
		SELECT id, clinic_id, name, description, duration, price, category,
			   is_active, created_at, updated_at
		FROM services
		WHERE clinic_id = $1 AND id = $2
	`
	var svc model.Service
	if err := r.db.GetContext(ctx, &svc, query, clinicID, id); err != nil {
		return nil, fmt.Errorf("failed to get service: %w", translateErr(err))
	}
	return &svc, nil
}

func (r *serviceRepository) Update(ctx context.Context, svc *model.Service) error {
	query := `
		UPDATE services
		SET name = $1, description = $2, duration = $3, price = $4,
			category = $5, is_active = $6, updated_at = $7
		WHERE clinic_id = $8 AND id = $9
	`
	svc.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		svc.Name,
		svc.Description,
		svc.Duration,
		svc.Price,
		svc.Category,
		svc.IsActive,
		svc.UpdatedAt,
		svc.ClinicID,
		svc.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update service: %w", translateErr(err))
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("failed to update service: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *serviceRepository) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM services WHERE clinic_id = $1 AND id = $2`, clinicID, id)
	if err != nil {
		return fmt.Errorf("failed to delete service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("failed to delete service: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *serviceRepository) Deactivate(ctx context.Context, clinicID, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE services SET is_active = false, updated_at = $1
		WHERE clinic_id = $2 AND id = $3`,
		time.Now(), clinicID, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("failed to deactivate service: %w", repository.ErrNotFound)
	}
	return nil
}

func (r *serviceRepository) List(ctx context.Context, clinicID uuid.UUID, activeOnly bool) ([]*model.Service, error) {
	query := `
		SELECT id, clinic_id, name, description, duration, price, category,
			   is_active, created_at, updated_at
		FROM services
		WHERE clinic_id = $1
	`
	if activeOnly {
		query += ` AND is_active = true`
	}
	query += ` ORDER BY name ASC`

	var services []*model.Service
	if err := r.db.SelectContext(ctx, &services, query, clinicID); err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (r *serviceRepository) HasAppointments(ctx context.Context, serviceID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS (SELECT 1 FROM appointments WHERE service_id = $1)`, serviceID)
	if err != nil {
		return false, fmt.Errorf("failed to check service appointments: %w", err)
	}
	return exists, nil
}
