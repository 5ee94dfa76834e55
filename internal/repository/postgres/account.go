package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/model"
)

func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	query := `
		INSERT INTO accounts (id, email, name, password_hash, default_role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	account.ID = uuid.New()
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		account.ID,
		account.Email,
		account.Name,
		account.PasswordHash,
		account.DefaultRole,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", translateErr(err))
	}
	return nil
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	query := `
		SELECT id, email, name, password_hash, default_role, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	var account model.Account
	if err := r.db.GetContext(ctx, &account, query, id); err != nil {
		return nil, fmt.Errorf("failed to get account: %w", translateErr(err))
	}
	return &account, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := `
		SELECT id, email, name, password_hash, default_role, created_at, updated_at
		FROM accounts
		WHERE email = $1
	`
	var account model.Account
	if err := r.db.GetContext(ctx, &account, query, email); err != nil {
		return nil, fmt.Errorf("failed to get account by email: %w", translateErr(err))
	}
	return &account, nil
}

// CreateWithClinic creates the account, its clinic and the owner's ADMIN
// membership in a single transaction, so a failed registration leaves no
// partial state behind.
func (r *accountRepository) CreateWithClinic(ctx context.Context, account *model.Account, clinic *model.Clinic) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	account.ID = uuid.New()
	account.CreatedAt = now
	account.UpdatedAt = now

	_, err = tx.ExecContext(ctx, `
		INSERT INTO accounts (id, email, name, password_hash, default_role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		account.ID, account.Email, account.Name, account.PasswordHash,
		account.DefaultRole, account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", translateErr(err))
	}

	clinic.ID = uuid.New()
	clinic.OwnerID = account.ID
	clinic.CreatedAt = now
	clinic.UpdatedAt = now

	_, err = tx.ExecContext(ctx, `
		INSERT INTO clinics (id, name, address, phone, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		clinic.ID, clinic.Name, clinic.Address, clinic.Phone,
		clinic.OwnerID, clinic.CreatedAt, clinic.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create clinic: %w", translateErr(err))
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO memberships (id, account_id, clinic_id, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), account.ID, clinic.ID, model.RoleAdmin, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to create membership: %w", translateErr(err))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit registration: %w", err)
	}
	return nil
}
