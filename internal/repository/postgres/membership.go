package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
)

func (r *membershipRepository) Create(ctx context.Context, m *model.Membership) error {
	query := `
		INSERT INTO memberships (id, account_id, clinic_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		m.ID,
		m.AccountID,
		m.ClinicID,
		m.Role,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create membership: %w", translateErr(err))
	}
	return nil
}

func (r *membershipRepository) Get(ctx context.Context, id uuid.UUID) (*model.Membership, error) {
	query := `
		SELECT id, account_id, clinic_id, role, created_at, updated_at
		FROM memberships
		WHERE id = $1
	`
	var m model.Membership
	if err := r.db.GetContext(ctx, &m, query, id); err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", translateErr(err))
	}
	return &m, nil
}

func (r *membershipRepository) GetByAccountAndClinic(ctx context.Context, accountID, clinicID uuid.UUID) (*model.Membership, error) {
	query := `
		SELECT id, account_id, clinic_id, role, created_at, updated_at
		FROM memberships
		WHERE account_id = $1 AND clinic_id = $2
	`
	var m model.Membership
	if err := r.db.GetContext(ctx, &m, query, accountID, clinicID); err != nil {
		return nil, fmt.Errorf("failed to get membership: %w", translateErr(err))
	}
	return &m, nil
}

// ListByAccount keeps a stable order so "first membership" is deterministic
// when the primary-clinic heuristic falls through.
func (r *membershipRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*model.Membership, error) {
	query := `
		SELECT id, account_id, clinic_id, role, created_at, updated_at
		FROM memberships
		WHERE account_id = $1
		ORDER BY created_at ASC, id ASC
	`
	var memberships []*model.Membership
	if err := r.db.SelectContext(ctx, &memberships, query, accountID); err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	return memberships, nil
}

func (r *membershipRepository) ListStaff(ctx context.Context, clinicID uuid.UUID, roles []model.Role) ([]*model.StaffMember, error) {
	roleNames := make([]string, len(roles))
	for i, role := range roles {
		roleNames[i] = string(role)
	}

	query := `
		SELECT m.id AS membership_id, a.id AS account_id, a.email, a.name, m.role
		FROM memberships m
		JOIN accounts a ON a.id = m.account_id
		WHERE m.clinic_id = $1 AND m.role = ANY($2)
		ORDER BY m.created_at DESC
	`
	var staff []*model.StaffMember
	if err := r.db.SelectContext(ctx, &staff, query, clinicID, pq.Array(roleNames)); err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

func (r *membershipRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM memberships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("failed to delete membership: %w", repository.ErrNotFound)
	}
	return nil
}
