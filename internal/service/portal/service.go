package portal

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	"github.com/clinicore/clinic-api/pkg/auth"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

// Service backs the patient portal. Portal users are authenticated accounts
// without any clinic membership; their link to clinical data is the email
// match between the account and per-clinic patient records.
type Service struct {
	clinics       repository.ClinicRepository
	memberships   repository.MembershipRepository
	services      repository.ServiceRepository
	patients      repository.PatientRepository
	appointments  repository.AppointmentRepository
	prescriptions repository.PrescriptionRepository
	accounts      repository.AccountRepository
}

func NewService(
	clinics repository.ClinicRepository,
	memberships repository.MembershipRepository,
	services repository.ServiceRepository,
	patients repository.PatientRepository,
	appointments repository.AppointmentRepository,
	prescriptions repository.PrescriptionRepository,
	accounts repository.AccountRepository,
) *Service {
	return &Service{
		clinics:       clinics,
		memberships:   memberships,
		services:      services,
		patients:      patients,
		appointments:  appointments,
		prescriptions: prescriptions,
		accounts:      accounts,
	}
}

func (s *Service) ListClinics(ctx context.Context) ([]*model.Clinic, error) {
	clinics, err := s.clinics.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}
	return clinics, nil
}

func (s *Service) ListDoctors(ctx context.Context, clinicID uuid.UUID) ([]*model.PortalDoctor, error) {
	staff, err := s.memberships.ListStaff(ctx, clinicID, []model.Role{model.RoleDoctor})
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	doctors := make([]*model.PortalDoctor, 0, len(staff))
	for _, m := range staff {
		doctors = append(doctors, &model.PortalDoctor{
			ID:    m.AccountID,
			Name:  m.Name,
			Email: m.Email,
		})
	}
	return doctors, nil
}

func (s *Service) ListServices(ctx context.Context, clinicID uuid.UUID) ([]*model.Service, error) {
	services, err := s.services.List(ctx, clinicID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (s *Service) Profile(ctx context.Context, claims *auth.TokenClaims) (*model.PortalProfile, error) {
	account, err := s.accounts.Get(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("account", err)
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	patients, err := s.patients.ListByEmail(ctx, account.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient records: %w", err)
	}

	return &model.PortalProfile{
		Account:  account.Public(),
		Patients: patients,
	}, nil
}

// ListAppointments returns the caller's appointments across every clinic
// where a patient record carries their email.
func (s *Service) ListAppointments(ctx context.Context, email string, upcoming, past bool) ([]*model.Appointment, error) {
	patients, err := s.patients.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient records: %w", err)
	}
	if len(patients) == 0 {
		return []*model.Appointment{}, nil
	}

	ids := make([]uuid.UUID, len(patients))
	for i, p := range patients {
		ids[i] = p.ID
	}

	appointments, err := s.appointments.ListForPatients(ctx, ids, upcoming, past)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// Book reserves a slot with the chosen doctor. The conflict scan runs
// practitioner-wide here, unlike the staff path: two doctors of the same
// clinic can see portal patients in parallel.
func (s *Service) Book(ctx context.Context, claims *auth.TokenClaims, req *model.BookAppointmentRequest) (*model.Appointment, error) {
	if _, err := s.clinics.Get(ctx, req.ClinicID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("clinic", err)
		}
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}

	svc, err := s.services.Get(ctx, req.ClinicID, req.ServiceID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("service", err)
		}
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	if !svc.IsActive {
		return nil, apperrors.NewNotFound("service", nil)
	}

	doctorRole, err := s.memberships.GetByAccountAndClinic(ctx, req.DoctorID, req.ClinicID)
	if err != nil || doctorRole.Role != model.RoleDoctor {
		return nil, apperrors.NewNotFound("doctor", err)
	}

	patient, err := s.findOrCreatePatient(ctx, claims, req.ClinicID)
	if err != nil {
		return nil, err
	}

	doctorID := req.DoctorID
	apt := &model.Appointment{
		ClinicID:       req.ClinicID,
		PatientID:      patient.ID,
		ServiceID:      req.ServiceID,
		AssignedUserID: &doctorID,
		StartTime:      req.StartTime,
		Duration:       svc.Duration,
		Status:         model.AppointmentStatusScheduled,
		Notes:          req.Notes,
	}

	if err := s.appointments.Create(ctx, apt, model.ConflictScopePractitioner); err != nil {
		if errors.Is(err, repository.ErrSlotConflict) {
			return nil, apperrors.NewConflict("time slot is already booked")
		}
		return nil, fmt.Errorf("failed to book appointment: %w", err)
	}
	return apt, nil
}

// Cancel lets a portal user cancel their own booking, subject to the same
// transition rules as staff cancellations.
func (s *Service) Cancel(ctx context.Context, email string, appointmentID uuid.UUID) error {
	patients, err := s.patients.ListByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to list patient records: %w", err)
	}

	for _, p := range patients {
		apt, err := s.appointments.Get(ctx, p.ClinicID, appointmentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return fmt.Errorf("failed to get appointment: %w", err)
		}
		if apt.PatientID != p.ID {
			continue
		}

		if !apt.Status.CanTransitionTo(model.AppointmentStatusCancelled) {
			return apperrors.NewBadRequest(
				fmt.Sprintf("appointment in status %s cannot be cancelled", apt.Status), nil)
		}

		apt.Status = model.AppointmentStatusCancelled
		if err := s.appointments.Update(ctx, apt, false, model.ConflictScopePractitioner); err != nil {
			return fmt.Errorf("failed to cancel appointment: %w", err)
		}
		return nil
	}

	return apperrors.NewNotFound("appointment", nil)
}

func (s *Service) ListPrescriptions(ctx context.Context, email string) ([]*model.PrescriptionDetail, error) {
	details, err := s.prescriptions.ListByPatientEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return details, nil
}

// findOrCreatePatient links the portal identity to the clinic's patient
// record by email, creating a minimal record on first booking.
func (s *Service) findOrCreatePatient(ctx context.Context, claims *auth.TokenClaims, clinicID uuid.UUID) (*model.Patient, error) {
	normalized := strings.ToLower(strings.TrimSpace(claims.Email))

	patient, err := s.patients.GetByEmail(ctx, clinicID, normalized)
	if err == nil {
		return patient, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up patient: %w", err)
	}

	account, err := s.accounts.Get(ctx, claims.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	first, last := splitName(account.Name)
	patient = &model.Patient{
		ClinicID:  clinicID,
		FirstName: first,
		LastName:  last,
		Email:     &normalized,
	}
	if err := s.patients.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient record: %w", err)
	}
	return patient, nil
}

func splitName(full string) (first, last string) {
	parts := strings.SplitN(strings.TrimSpace(full), " ", 2)
	first = parts[0]
	if len(parts) > 1 {
		last = parts[1]
	}
	return first, last
}
