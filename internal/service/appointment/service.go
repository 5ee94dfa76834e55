package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

type Service struct {
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
	services     repository.ServiceRepository
}

func NewService(appointments repository.AppointmentRepository, patients repository.PatientRepository,
	services repository.ServiceRepository) *Service {
	return &Service{
		appointments: appointments,
		patients:     patients,
		services:     services,
	}
}

// Create books an appointment. The duration is copied from the service at
// this moment and never changes afterward, and the insert only commits if
// the slot survives the clinic-wide conflict scan.
func (s *Service) Create(ctx context.Context, actx *model.AccessContext, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if _, err := s.patients.Get(ctx, actx.ClinicID, req.PatientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	svc, err := s.services.Get(ctx, actx.ClinicID, req.ServiceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("service", err)
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	if !svc.IsActive {
		return nil, apperrors.NewNotFound("service", nil)
	}

	assigned := req.AssignedUserID
	if actx.Role == model.RoleDoctor {
		// Doctors book onto their own schedule only.
		if assigned != nil && *assigned != actx.AccountID {
			return nil, apperrors.NewForbidden("doctors can only manage their own appointments")
		}
		id := actx.AccountID
		assigned = &id
	}

	apt := &model.Appointment{
		ClinicID:       actx.ClinicID,
		PatientID:      req.PatientID,
		ServiceID:      req.ServiceID,
		AssignedUserID: assigned,
		StartTime:      req.StartTime,
		Duration:       svc.Duration,
		Status:         model.AppointmentStatusScheduled,
		Notes:          req.Notes,
	}

	if err := s.appointments.Create(ctx, apt, model.ConflictScopeClinic); err != nil {
		if errors.Is(err, repository.ErrSlotConflict) {
			return nil, apperrors.NewConflict("time slot is already booked")
		}
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}
	return apt, nil
}

// CheckAvailability runs the clinic-wide conflict scan for a prospective
// slot without booking it. Advisory only: Create re-runs the same scan
// atomically at insert time, so a true answer here can still lose the race.
func (s *Service) CheckAvailability(ctx context.Context, actx *model.AccessContext, serviceID uuid.UUID, start time.Time) (bool, error) {
	svc, err := s.services.Get(ctx, actx.ClinicID, serviceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, apperrors.NewNotFound("service", err)
		}
		return false, fmt.Errorf("failed to get service: %w", err)
	}
	if !svc.IsActive {
		return false, apperrors.NewNotFound("service", nil)
	}

	conflict, err := s.appointments.HasConflict(ctx, actx.ClinicID, start, svc.Duration, nil, nil)
	if err != nil {
		return false, fmt.Errorf("failed to check availability: %w", err)
	}
	return !conflict, nil
}

func (s *Service) Get(ctx context.Context, actx *model.AccessContext, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.appointments.Get(ctx, actx.ClinicID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("appointment", err)
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if err := s.checkPractitionerScope(actx, apt); err != nil {
		return nil, err
	}
	return apt, nil
}

// List applies the context's row-level scope: doctors receive only rows
// assigned to themselves.
func (s *Service) List(ctx context.Context, actx *model.AccessContext, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	if filters == nil {
		filters = &model.AppointmentFilters{}
	}
	if scope := actx.AppointmentScope(); scope != nil {
		filters.AssignedUserID = scope
	}

	appointments, err := s.appointments.List(ctx, actx.ClinicID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// Update handles status transitions, rescheduling and reassignment. Status
// moves are validated against the transition table; a changed start time
// re-runs the conflict scan with the appointment itself excluded. Duration
// is never touched, even if the service's duration changed since booking.
func (s *Service) Update(ctx context.Context, actx *model.AccessContext, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.Get(ctx, actx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && *req.Status != apt.Status {
		if !req.Status.Valid() {
			return nil, apperrors.NewBadRequest(fmt.Sprintf("unknown status %q", *req.Status), nil)
		}
		if !apt.Status.CanTransitionTo(*req.Status) {
			return nil, apperrors.NewBadRequest(
				fmt.Sprintf("invalid status transition %s -> %s", apt.Status, *req.Status), nil)
		}
		apt.Status = *req.Status
	}

	if req.AssignedUserID != nil {
		if actx.Role == model.RoleDoctor && *req.AssignedUserID != actx.AccountID {
			return nil, apperrors.NewForbidden("doctors can only manage their own appointments")
		}
		apt.AssignedUserID = req.AssignedUserID
	}

	if req.Notes != nil {
		apt.Notes = req.Notes
	}

	rescheduled := false
	if req.StartTime != nil && !req.StartTime.Equal(apt.StartTime) {
		if apt.Status.Terminal() {
			return nil, apperrors.NewBadRequest("cannot reschedule a closed appointment", nil)
		}
		apt.StartTime = *req.StartTime
		rescheduled = true
	}

	if err := s.appointments.Update(ctx, apt, rescheduled, model.ConflictScopeClinic); err != nil {
		if errors.Is(err, repository.ErrSlotConflict) {
			return nil, apperrors.NewConflict("time slot is already booked")
		}
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return apt, nil
}

func (s *Service) Delete(ctx context.Context, actx *model.AccessContext, id uuid.UUID) error {
	if _, err := s.Get(ctx, actx, id); err != nil {
		return err
	}

	if err := s.appointments.Delete(ctx, actx.ClinicID, id); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

func (s *Service) checkPractitionerScope(actx *model.AccessContext, apt *model.Appointment) error {
	if actx.Role != model.RoleDoctor {
		return nil
	}
	if apt.AssignedUserID == nil || *apt.AssignedUserID != actx.AccountID {
		return apperrors.NewForbidden("doctors can only access their own appointments")
	}
	return nil
}
