package model

import "github.com/google/uuid"

// Role is the closed set of staff roles within a clinic. PATIENT is not a
// membership role; it only appears as a default-role hint on accounts that
// use the patient portal.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleDoctor       Role = "DOCTOR"
	RoleReceptionist Role = "RECEPTIONIST"
	RolePatient      Role = "PATIENT"
)

// StaffRoles are the roles a membership may carry.
var StaffRoles = []Role{RoleAdmin, RoleDoctor, RoleReceptionist}

func (r Role) ValidStaffRole() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleReceptionist:
		return true
	}
	return false
}

// Membership binds one account to one clinic with exactly one role.
// A given (account, clinic) pair has at most one membership.
type Membership struct {
	Base
	AccountID uuid.UUID `db:"account_id" json:"account_id"`
	ClinicID  uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Role      Role      `db:"role" json:"role"`
}

// StaffMember is a membership joined with its account, as listed on the
// staff admin screen.
type StaffMember struct {
	MembershipID uuid.UUID `db:"membership_id" json:"membership_id"`
	AccountID    uuid.UUID `db:"account_id" json:"account_id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	Role         Role      `db:"role" json:"role"`
}

type AddStaffRequest struct {
	AccountID uuid.UUID `json:"account_id" binding:"required"`
	Role      Role      `json:"role" binding:"required,oneof=DOCTOR RECEPTIONIST"`
}
