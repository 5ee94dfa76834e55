package prescription

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/clinicore/clinic-api/internal/model"
	"github.com/clinicore/clinic-api/internal/repository"
	apperrors "github.com/clinicore/clinic-api/pkg/errors"
	"github.com/clinicore/clinic-api/pkg/pdf"
)

type Service struct {
	prescriptions repository.PrescriptionRepository
	patients      repository.PatientRepository
	appointments  repository.AppointmentRepository
	renderer      *pdf.Renderer
}

func NewService(prescriptions repository.PrescriptionRepository, patients repository.PatientRepository,
	appointments repository.AppointmentRepository, renderer *pdf.Renderer) *Service {
	return &Service{
		prescriptions: prescriptions,
		patients:      patients,
		appointments:  appointments,
		renderer:      renderer,
	}
}

// Create writes a prescription. The document is immutable afterward; there
// is no update path.
func (s *Service) Create(ctx context.Context, actx *model.AccessContext, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	if _, err := s.patients.Get(ctx, actx.ClinicID, req.PatientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	if req.AppointmentID != nil {
		apt, err := s.appointments.Get(ctx, actx.ClinicID, *req.AppointmentID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NewNotFound("appointment", err)
			}
			return nil, fmt.Errorf("failed to get appointment: %w", err)
		}
		if apt.PatientID != req.PatientID {
			return nil, apperrors.NewBadRequest("appointment does not belong to this patient", nil)
		}
	}

	p := &model.Prescription{
		ClinicID:      actx.ClinicID,
		PatientID:     req.PatientID,
		CreatedByID:   actx.AccountID,
		AppointmentID: req.AppointmentID,
		Diagnosis:     req.Diagnosis,
		Medications:   req.Medications,
		Instructions:  req.Instructions,
		Notes:         req.Notes,
	}
	if err := s.prescriptions.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create prescription: %w", err)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, actx *model.AccessContext, id uuid.UUID) (*model.PrescriptionDetail, error) {
	detail, err := s.prescriptions.GetDetail(ctx, actx.ClinicID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("prescription", err)
		}
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return detail, nil
}

func (s *Service) List(ctx context.Context, actx *model.AccessContext, patientID *uuid.UUID) ([]*model.PrescriptionDetail, error) {
	details, err := s.prescriptions.List(ctx, actx.ClinicID, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return details, nil
}

// RenderPDF resolves the full bundle and hands it to the renderer. The
// caller has already been authorization-checked; the clinic filter in the
// lookup is the tenant boundary.
func (s *Service) RenderPDF(ctx context.Context, actx *model.AccessContext, id uuid.UUID) ([]byte, error) {
	detail, err := s.Get(ctx, actx, id)
	if err != nil {
		return nil, err
	}
	return s.renderer.Render(toDocument(detail))
}

func toDocument(d *model.PrescriptionDetail) *pdf.PrescriptionDocument {
	doc := &pdf.PrescriptionDocument{
		ClinicName:  d.ClinicName,
		PatientName: d.PatientFirstName + " " + d.PatientLastName,
		AuthorName:  d.AuthorName,
		Diagnosis:   d.Diagnosis,
		Medications: d.Medications,
		CreatedAt:   d.CreatedAt,
	}
	if d.ClinicAddress != nil {
		doc.ClinicAddress = *d.ClinicAddress
	}
	if d.ClinicPhone != nil {
		doc.ClinicPhone = *d.ClinicPhone
	}
	if d.PatientEmail != nil {
		doc.PatientEmail = *d.PatientEmail
	}
	if d.Instructions != nil {
		doc.Instructions = *d.Instructions
	}
	if d.Notes != nil {
		doc.Notes = *d.Notes
	}
	return doc
}
