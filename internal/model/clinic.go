package model

import "github.com/google/uuid"

// Clinic is the tenant boundary. Every patient, service, appointment and
// prescription hangs off exactly one clinic. The owner always also holds
// an ADMIN membership in the clinic.
type Clinic struct {
	Base
	Name    string    `db:"name" json:"name"`
	Address *string   `db:"address" json:"address,omitempty"`
	Phone   *string   `db:"phone" json:"phone,omitempty"`
	OwnerID uuid.UUID `db:"owner_id" json:"owner_id"`
}

type UpdateClinicRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=2,max=120"`
	Address *string `json:"address" binding:"omitempty,max=255"`
	Phone   *string `json:"phone" binding:"omitempty,max=30"`
}

type CreateClinicRequest struct {
	Name    string  `json:"name" binding:"required,min=2,max=120"`
	Address *string `json:"address" binding:"omitempty,max=255"`
	Phone   *string `json:"phone" binding:"omitempty,max=30"`
}
