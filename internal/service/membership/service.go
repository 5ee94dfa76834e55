package membership

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/clinicore/clinic-api/internal/email"
	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

// Service is the membership directory: it answers which clinics an account
// belongs to and in what role, and manages clinic staff.
type Service struct {
	memberships repository.MembershipRepository
	accounts    repository.AccountRepository
	clinics     repository.ClinicRepository
	mailer      email.Sender
}

func NewService(memberships repository.MembershipRepository, accounts repository.AccountRepository,
	clinics repository.ClinicRepository, mailer email.Sender) *Service {
	return &Service{
		memberships: memberships,
		accounts:    accounts,
		clinics:     clinics,
		mailer:      mailer,
	}
}

// PrimaryMembership selects the clinic context for a session: the ADMIN
// membership when one exists, otherwise the first membership in the stable
// repository order. The fallback is a documented default; an explicit
// active-clinic selection would belong in the session.
func (s *Service) PrimaryMembership(ctx context.Context, accountID uuid.UUID) (*model.Membership, error) {
	memberships, err := s.memberships.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	if len(memberships) == 0 {
		return nil, apperrors.NewNoClinic()
	}

	for _, m := range memberships {
		if m.Role == model.RoleAdmin {
			return m, nil
		}
	}
	return memberships[0], nil
}

// RoleInClinic checks an account against a specific clinic rather than its
// primary one.
func (s *Service) RoleInClinic(ctx context.Context, accountID, clinicID uuid.UUID) (model.Role, error) {
	m, err := s.memberships.GetByAccountAndClinic(ctx, accountID, clinicID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", apperrors.NewNoClinic()
		}
		return "", fmt.Errorf("failed to get membership: %w", err)
	}
	return m.Role, nil
}

// ListStaff returns the clinic's DOCTOR and RECEPTIONIST members.
func (s *Service) ListStaff(ctx context.Context, clinicID uuid.UUID) ([]*model.StaffMember, error) {
	staff, err := s.memberships.ListStaff(ctx, clinicID, []model.Role{model.RoleDoctor, model.RoleReceptionist})
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

// ListDoctors returns the clinic's DOCTOR members (portal booking needs
// them without staff-level access).
func (s *Service) ListDoctors(ctx context.Context, clinicID uuid.UUID) ([]*model.StaffMember, error) {
	doctors, err := s.memberships.ListStaff(ctx, clinicID, []model.Role{model.RoleDoctor})
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

// SearchAccount finds an existing account by email so an admin can add it
// as staff. Only the public projection leaves this method.
func (s *Service) SearchAccount(ctx context.Context, email string) (*model.PublicAccount, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, apperrors.NewBadRequest("email is required", nil)
	}

	account, err := s.accounts.GetByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("account", err)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account.Public(), nil
}

// AddStaff binds an existing account to the clinic. The membership
// uniqueness constraint surfaces a second binding for the same pair as a
// conflict.
func (s *Service) AddStaff(ctx context.Context, clinicID uuid.UUID, req *model.AddStaffRequest) (*model.Membership, error) {
	if req.Role != model.RoleDoctor && req.Role != model.RoleReceptionist {
		return nil, apperrors.NewBadRequest("role must be DOCTOR or RECEPTIONIST", nil)
	}

	// Pre-check through the directory; the uniqueness constraint is the
	// race-proof backstop.
	if _, err := s.RoleInClinic(ctx, req.AccountID, clinicID); err == nil {
		return nil, apperrors.NewConflict("account is already a member of this clinic")
	} else if !apperrors.IsCode(err, apperrors.ErrNoClinic) {
		return nil, err
	}

	account, err := s.accounts.Get(ctx, req.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("account", err)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	m := &model.Membership{
		AccountID: account.ID,
		ClinicID:  clinicID,
		Role:      req.Role,
	}
	if err := s.memberships.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("account is already a member of this clinic")
		}
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	s.sendInvite(ctx, account, clinicID, req.Role)
	return m, nil
}

// RemoveStaff deletes a membership and returns it so callers can drop any
// cached access state for the account. The clinic owner's membership can
// never be removed, regardless of who asks.
func (s *Service) RemoveStaff(ctx context.Context, clinicID, membershipID uuid.UUID) (*model.Membership, error) {
	m, err := s.memberships.Get(ctx, membershipID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("membership", err)
		}
		return nil, fmt.Errorf("failed to get membership: %w", err)
	}

	if m.ClinicID != clinicID {
		return nil, apperrors.NewNotFound("membership", nil)
	}

	clinic, err := s.clinics.Get(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}
	if m.AccountID == clinic.OwnerID {
		return nil, apperrors.NewForbidden("cannot remove the clinic owner")
	}

	if err := s.memberships.Delete(ctx, membershipID); err != nil {
		return nil, fmt.Errorf("failed to delete membership: %w", err)
	}
	return m, nil
}

// sendInvite is best effort; a failed mail never fails the staff addition.
func (s *Service) sendInvite(ctx context.Context, account *model.Account, clinicID uuid.UUID, role model.Role) {
	if s.mailer == nil {
		return
	}

	clinic, err := s.clinics.Get(ctx, clinicID)
	if err != nil {
		log.Warn().Err(err).Str("clinic_id", clinicID.String()).Msg("skipping staff invite email")
		return
	}

	if err := s.mailer.SendStaffInvite(account.Email, account.Name, clinic.Name, string(role)); err != nil {
		log.Warn().Err(err).Str("email", account.Email).Msg("failed to send staff invite email")
	}
}
