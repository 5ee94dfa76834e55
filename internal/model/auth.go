package model

import "github.com/google/uuid"

// AccessContext is the authorized context produced by the access guard.
// Handlers and services receive only this, never raw session data, so an
// unscoped query cannot happen by accident.
type AccessContext struct {
	AccountID uuid.UUID `json:"account_id"`
	ClinicID  uuid.UUID `json:"clinic_id"`
	Role      Role      `json:"role"`
}

// AppointmentScope returns the row-level practitioner filter for the
// context: doctors only ever see their own appointments, even though
// MANAGE_APPOINTMENTS nominally grants them write access.
func (c *AccessContext) AppointmentScope() *uuid.UUID {
	if c.Role == RoleDoctor {
		id := c.AccountID
		return &id
	}
	return nil
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     Role   `json:"role" binding:"required,oneof=ADMIN DOCTOR RECEPTIONIST PATIENT"`
	// Clinic fields, required when registering as ADMIN.
	ClinicName    *string `json:"clinic_name"`
	ClinicAddress *string `json:"clinic_address"`
	ClinicPhone   *string `json:"clinic_phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
