package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/model"
)

// Sentinel errors shared by all implementations. Services translate these
// into the outward error taxonomy.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("duplicate record")
	ErrSlotConflict = errors.New("time slot is already booked")
)

// All repository interfaces in one file
type (
	// AccountRepository handles identity records.
	AccountRepository interface {
		Create(ctx context.Context, account *model.Account) error
		Get(ctx context.Context, id uuid.UUID) (*model.Account, error)
		GetByEmail(ctx context.Context, email string) (*model.Account, error)
		// CreateWithClinic atomically creates the account, its clinic and
		// the owner's ADMIN membership (admin registration).
		CreateWithClinic(ctx context.Context, account *model.Account, clinic *model.Clinic) error
	}

	ClinicRepository interface {
		Create(ctx context.Context, clinic *model.Clinic) error
		// CreateWithMembership atomically creates the clinic and the
		// owner's ADMIN membership (the "create clinic" onboarding action).
		CreateWithMembership(ctx context.Context, clinic *model.Clinic) error
		Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
		Update(ctx context.Context, clinic *model.Clinic) error
		List(ctx context.Context) ([]*model.Clinic, error)
	}

	MembershipRepository interface {
		Create(ctx context.Context, m *model.Membership) error
		Get(ctx context.Context, id uuid.UUID) (*model.Membership, error)
		GetByAccountAndClinic(ctx context.Context, accountID, clinicID uuid.UUID) (*model.Membership, error)
		// ListByAccount returns memberships in a stable order
		// (created_at, id ascending).
		ListByAccount(ctx context.Context, accountID uuid.UUID) ([]*model.Membership, error)
		ListStaff(ctx context.Context, clinicID uuid.UUID, roles []model.Role) ([]*model.StaffMember, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, clinicID, id uuid.UUID) error
		List(ctx context.Context, clinicID uuid.UUID, filters *model.PatientFilters) ([]*model.Patient, error)
		GetByEmail(ctx context.Context, clinicID uuid.UUID, email string) (*model.Patient, error)
		// ListByEmail finds this email's patient records across all
		// clinics (portal identity linking).
		ListByEmail(ctx context.Context, email string) ([]*model.Patient, error)
	}

	ServiceRepository interface {
		Create(ctx context.Context, svc *model.Service) error
		Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Service, error)
		Update(ctx context.Context, svc *model.Service) error
		Delete(ctx context.Context, clinicID, id uuid.UUID) error
		Deactivate(ctx context.Context, clinicID, id uuid.UUID) error
		List(ctx context.Context, clinicID uuid.UUID, activeOnly bool) ([]*model.Service, error)
		HasAppointments(ctx context.Context, serviceID uuid.UUID) (bool, error)
	}

	AppointmentRepository interface {
		// Create runs the conflict check and the insert in one atomic
		// unit; returns ErrSlotConflict when the slot is taken.
		Create(ctx context.Context, apt *model.Appointment, scope model.ConflictScope) error
		Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Appointment, error)
		// Update re-runs the conflict check atomically when the start
		// time changed; plain field updates skip the scan.
		Update(ctx context.Context, apt *model.Appointment, checkConflict bool, scope model.ConflictScope) error
		Delete(ctx context.Context, clinicID, id uuid.UUID) error
		List(ctx context.Context, clinicID uuid.UUID, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		HasConflict(ctx context.Context, clinicID uuid.UUID, start time.Time, durationMinutes int, excludeID, practitionerID *uuid.UUID) (bool, error)
		ListForPatients(ctx context.Context, patientIDs []uuid.UUID, upcoming, past bool) ([]*model.Appointment, error)
	}

	PrescriptionRepository interface {
		Create(ctx context.Context, p *model.Prescription) error
		GetDetail(ctx context.Context, clinicID, id uuid.UUID) (*model.PrescriptionDetail, error)
		List(ctx context.Context, clinicID uuid.UUID, patientID *uuid.UUID) ([]*model.PrescriptionDetail, error)
		// ListByPatientEmail serves the portal: prescriptions of every
		// patient record sharing the portal identity's email.
		ListByPatientEmail(ctx context.Context, email string) ([]*model.PrescriptionDetail, error)
	}
)
