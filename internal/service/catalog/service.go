package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

// Service manages the clinic's service catalog.
type Service struct {
	services repository.ServiceRepository
}

func NewService(services repository.ServiceRepository) *Service {
	return &Service{services: services}
}

func (s *Service) Create(ctx context.Context, actx *model.AccessContext, req *model.CreateServiceRequest) (*model.Service, error) {
	svc := &model.Service{
		ClinicID:    actx.ClinicID,
		Name:        req.Name,
		Description: req.Description,
		Duration:    req.Duration,
		Price:       req.Price,
		Category:    req.Category,
	}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return svc, nil
}

func (s *Service) Get(ctx context.Context, actx *model.AccessContext, id uuid.UUID) (*model.Service, error) {
	svc, err := s.services.Get(ctx, actx.ClinicID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("service", err)
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return svc, nil
}

func (s *Service) Update(ctx context.Context, actx *model.AccessContext, id uuid.UUID, req *model.UpdateServiceRequest) (*model.Service, error) {
	svc, err := s.Get(ctx, actx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = req.Description
	}
	if req.Duration != nil {
		svc.Duration = *req.Duration
	}
	if req.Price != nil {
		svc.Price = *req.Price
	}
	if req.Category != nil {
		svc.Category = req.Category
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := s.services.Update(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	return svc, nil
}

// Delete removes a service, unless appointments reference it; then the row
// is deactivated instead so history keeps resolving.
func (s *Service) Delete(ctx context.Context, actx *model.AccessContext, id uuid.UUID) (deactivated bool, err error) {
	if _, err := s.Get(ctx, actx, id); err != nil {
		return false, err
	}

	referenced, err := s.services.HasAppointments(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to check service references: %w", err)
	}

	if referenced {
		if err := s.services.Deactivate(ctx, actx.ClinicID, id); err != nil {
			return false, fmt.Errorf("failed to deactivate service: %w", err)
		}
		return true, nil
	}

	if err := s.services.Delete(ctx, actx.ClinicID, id); err != nil {
		return false, fmt.Errorf("failed to delete service: %w", err)
	}
	return false, nil
}

func (s *Service) List(ctx context.Context, actx *model.AccessContext, activeOnly bool) ([]*model.Service, error) {
	services, err := s.services.List(ctx, actx.ClinicID, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

// ListForClinic serves the portal, which has no staff access context.
func (s *Service) ListForClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Service, error) {
	services, err := s.services.List(ctx, clinicID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}
