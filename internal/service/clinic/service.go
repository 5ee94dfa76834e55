package clinic

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

type Service struct {
	clinics     repository.ClinicRepository
	memberships repository.MembershipRepository
}

func NewService(clinics repository.ClinicRepository, memberships repository.MembershipRepository) *Service {
	return &Service{clinics: clinics, memberships: memberships}
}

func (s *Service) Get(ctx context.Context, clinicID uuid.UUID) (*model.Clinic, error) {
	clinic, err := s.clinics.Get(ctx, clinicID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("clinic", err)
		}
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}
	return clinic, nil
}

func (s *Service) Update(ctx context.Context, clinicID uuid.UUID, req *model.UpdateClinicRequest) (*model.Clinic, error) {
	clinic, err := s.Get(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		clinic.Name = *req.Name
	}
	if req.Address != nil {
		clinic.Address = req.Address
	}
	if req.Phone != nil {
		clinic.Phone = req.Phone
	}

	if err := s.clinics.Update(ctx, clinic); err != nil {
		return nil, fmt.Errorf("failed to update clinic: %w", err)
	}
	return clinic, nil
}

// Create sets up a clinic for an account that has none yet: the creator
// becomes owner and receives the ADMIN membership atomically.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req *model.CreateClinicRequest) (*model.Clinic, error) {
	memberships, err := s.memberships.ListByAccount(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	if len(memberships) > 0 {
		return nil, apperrors.NewConflict("account already belongs to a clinic")
	}

	clinic := &model.Clinic{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		OwnerID: ownerID,
	}
	if err := s.clinics.CreateWithMembership(ctx, clinic); err != nil {
		return nil, fmt.Errorf("failed to create clinic: %w", err)
	}
	return clinic, nil
}

// List returns all clinics; the patient portal uses it to pick where to
// book.
func (s *Service) List(ctx context.Context) ([]*model.Clinic, error) {
	clinics, err := s.clinics.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}
	return clinics, nil
}
