package model

import (
	"time"

	"github.com/google/uuid"
)

// BookAppointmentRequest is the portal booking payload: the patient picks a
// clinic, a service and a doctor.
type BookAppointmentRequest struct {
	ClinicID  uuid.UUID `json:"clinic_id" binding:"required"`
	ServiceID uuid.UUID `json:"service_id" binding:"required"`
	DoctorID  uuid.UUID `json:"doctor_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	Notes     *string   `json:"notes"`
}

// PortalProfile is what a portal user sees about themselves.
type PortalProfile struct {
	Account  *PublicAccount `json:"account"`
	Patients []*Patient     `json:"patients"`
}

// PortalDoctor is the outward shape of a bookable practitioner.
type PortalDoctor struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}
