package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
)

type Service struct {
	patients repository.PatientRepository
}

func NewService(patients repository.PatientRepository) *Service {
	return &Service{patients: patients}
}

// Create adds a patient to the clinic. Email, when present, must be unique
// within the clinic only; the same address may exist under other clinics.
func (s *Service) Create(ctx context.Context, actx *model.AccessContext, req *model.CreatePatientRequest) (*model.Patient, error) {
	patient := &model.Patient{
		ClinicID:           actx.ClinicID,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              normalizeEmail(req.Email),
		Phone:              req.Phone,
		DateOfBirth:        req.DateOfBirth,
		Address:            req.Address,
		BloodType:          req.BloodType,
		Allergies:          req.Allergies,
		CurrentMedications: req.CurrentMedications,
		Notes:              req.Notes,
	}

	if err := s.patients.Create(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("patient with this email already exists")
		}
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

// Get returns a patient visible to the caller. Clinical fields are
// redacted for roles without VIEW_MEDICAL_RECORDS; the same rule applies
// to List so the two reads never disagree on visibility.
func (s *Service) Get(ctx context.Context, actx *model.AccessContext, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.patients.Get(ctx, actx.ClinicID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	if !actx.Role.Can(model.ActionViewMedicalRecords) {
		patient = patient.Redacted()
	}
	return patient, nil
}

func (s *Service) Update(ctx context.Context, actx *model.AccessContext, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	// Read the raw row, not the redacted projection: a front-desk update
	// of a demographic field must never blank the clinical columns.
	patient, err := s.patients.Get(ctx, actx.ClinicID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		patient.LastName = *req.LastName
	}
	if req.Email != nil {
		patient.Email = normalizeEmail(req.Email)
	}
	if req.Phone != nil {
		patient.Phone = req.Phone
	}
	if req.DateOfBirth != nil {
		patient.DateOfBirth = req.DateOfBirth
	}
	if req.Address != nil {
		patient.Address = req.Address
	}
	if req.BloodType != nil {
		patient.BloodType = req.BloodType
	}
	if req.Allergies != nil {
		patient.Allergies = req.Allergies
	}
	if req.CurrentMedications != nil {
		patient.CurrentMedications = req.CurrentMedications
	}
	if req.Notes != nil {
		patient.Notes = req.Notes
	}

	if err := s.patients.Update(ctx, patient); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("patient with this email already exists")
		}
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	if !actx.Role.Can(model.ActionViewMedicalRecords) {
		patient = patient.Redacted()
	}
	return patient, nil
}

func (s *Service) Delete(ctx context.Context, actx *model.AccessContext, id uuid.UUID) error {
	if err := s.patients.Delete(ctx, actx.ClinicID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFound("patient", err)
		}
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, actx *model.AccessContext, filters *model.PatientFilters) ([]*model.Patient, error) {
	patients, err := s.patients.List(ctx, actx.ClinicID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	if !actx.Role.Can(model.ActionViewMedicalRecords) {
		for i, p := range patients {
			patients[i] = p.Redacted()
		}
	}
	return patients, nil
}

func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	trimmed := strings.TrimSpace(strings.ToLower(*email))
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
