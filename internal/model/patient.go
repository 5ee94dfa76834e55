package model

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a clinic-scoped record, distinct from Account: receptionists
// create walk-in patients with no login at all. A portal identity is linked
// to patient records by matching email within each clinic. Email is unique
// per clinic when present, not globally.
type Patient struct {
	Base
	ClinicID           uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	FirstName          string     `db:"first_name" json:"first_name"`
	LastName           string     `db:"last_name" json:"last_name"`
	Email              *string    `db:"email" json:"email,omitempty"`
	Phone              *string    `db:"phone" json:"phone,omitempty"`
	DateOfBirth        *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Address            *string    `db:"address" json:"address,omitempty"`
	BloodType          *string    `db:"blood_type" json:"blood_type,omitempty"`
	Allergies          *string    `db:"allergies" json:"allergies,omitempty"`
	CurrentMedications *string    `db:"current_medications" json:"current_medications,omitempty"`
	Notes              *string    `db:"notes" json:"notes,omitempty"`
}

// Redacted returns a copy without the clinical fields. Reads by roles
// lacking VIEW_MEDICAL_RECORDS get this projection; the demographic fields
// stay visible for front-desk work.
func (p *Patient) Redacted() *Patient {
	out := *p
	out.BloodType = nil
	out.Allergies = nil
	out.CurrentMedications = nil
	out.Notes = nil
	return &out
}

type CreatePatientRequest struct {
	FirstName          string     `json:"first_name" binding:"required,min=1,max=80"`
	LastName           string     `json:"last_name" binding:"required,min=1,max=80"`
	Email              *string    `json:"email" binding:"omitempty,email"`
	Phone              *string    `json:"phone" binding:"omitempty,max=30"`
	DateOfBirth        *time.Time `json:"date_of_birth"`
	Address            *string    `json:"address" binding:"omitempty,max=255"`
	BloodType          *string    `json:"blood_type" binding:"omitempty,max=5"`
	Allergies          *string    `json:"allergies"`
	CurrentMedications *string    `json:"current_medications"`
	Notes              *string    `json:"notes"`
}

type UpdatePatientRequest struct {
	FirstName          *string    `json:"first_name" binding:"omitempty,min=1,max=80"`
	LastName           *string    `json:"last_name" binding:"omitempty,min=1,max=80"`
	Email              *string    `json:"email" binding:"omitempty,email"`
	Phone              *string    `json:"phone" binding:"omitempty,max=30"`
	DateOfBirth        *time.Time `json:"date_of_birth"`
	Address            *string    `json:"address" binding:"omitempty,max=255"`
	BloodType          *string    `json:"blood_type" binding:"omitempty,max=5"`
	Allergies          *string    `json:"allergies"`
	CurrentMedications *string    `json:"current_medications"`
	Notes              *string    `json:"notes"`
}

type PatientFilters struct {
	Search string `form:"search"`
}
