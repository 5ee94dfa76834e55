package model

import "github.com/google/uuid"

// Prescription is an immutable clinical document: once created it is never
// updated, only read and rendered.
type Prescription struct {
	Base
	ClinicID      uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	CreatedByID   uuid.UUID  `db:"created_by_id" json:"created_by_id"`
	AppointmentID *uuid.UUID `db:"appointment_id" json:"appointment_id,omitempty"`
	Diagnosis     string     `db:"diagnosis" json:"diagnosis"`
	Medications   string     `db:"medications" json:"medications"`
	Instructions  *string    `db:"instructions" json:"instructions,omitempty"`
	Notes         *string    `db:"notes" json:"notes,omitempty"`
}

// PrescriptionDetail joins the prescription with the names needed to render
// it outward (list views and the PDF document).
type PrescriptionDetail struct {
	Prescription
	PatientFirstName string  `db:"patient_first_name" json:"patient_first_name"`
	PatientLastName  string  `db:"patient_last_name" json:"patient_last_name"`
	PatientEmail     *string `db:"patient_email" json:"patient_email,omitempty"`
	AuthorName       string  `db:"author_name" json:"author_name"`
	ClinicName       string  `db:"clinic_name" json:"clinic_name"`
	ClinicAddress    *string `db:"clinic_address" json:"clinic_address,omitempty"`
	ClinicPhone      *string `db:"clinic_phone" json:"clinic_phone,omitempty"`
}

type CreatePrescriptionRequest struct {
	PatientID     uuid.UUID  `json:"patient_id" binding:"required"`
	AppointmentID *uuid.UUID `json:"appointment_id"`
	Diagnosis     string     `json:"diagnosis" binding:"required"`
	Medications   string     `json:"medications" binding:"required"`
	Instructions  *string    `json:"instructions"`
	Notes         *string    `json:"notes"`
}
