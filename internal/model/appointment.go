package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "SCHEDULED"
	AppointmentStatusConfirmed  AppointmentStatus = "CONFIRMED"
	AppointmentStatusInProgress AppointmentStatus = "IN_PROGRESS"
	AppointmentStatusCompleted  AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled  AppointmentStatus = "CANCELLED"
	AppointmentStatusNoShow     AppointmentStatus = "NO_SHOW"
)

// statusTransitions is the guarded state machine. COMPLETED, CANCELLED and
// NO_SHOW are terminal; anything not listed is an invalid transition.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusScheduled:  {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed:  {AppointmentStatusInProgress, AppointmentStatusNoShow},
	AppointmentStatusInProgress: {AppointmentStatusCompleted},
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if next == allowed {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s AppointmentStatus) Terminal() bool {
	return len(statusTransitions[s]) == 0
}

// Valid reports whether s is a known status value.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed,
		AppointmentStatusInProgress, AppointmentStatusCompleted,
		AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// BlocksCalendar reports whether an appointment in this status occupies its
// slot for conflict detection. Cancelled and no-show slots free the calendar.
func (s AppointmentStatus) BlocksCalendar() bool {
	return s != AppointmentStatusCancelled && s != AppointmentStatusNoShow
}

// ConflictScope selects how wide the overlap scan runs.
type ConflictScope int

const (
	// ConflictScopeClinic scans every blocking appointment of the clinic.
	ConflictScopeClinic ConflictScope = iota
	// ConflictScopePractitioner restricts the scan to one assigned
	// practitioner, as used by the portal booking path.
	ConflictScopePractitioner
)

// Appointment binds one patient, one service and one clinic to a start time.
// Duration is copied from the service at creation and immutable afterward,
// so later service edits never change an existing appointment's slot.
type Appointment struct {
	Base
	ClinicID       uuid.UUID         `db:"clinic_id" json:"clinic_id"`
	PatientID      uuid.UUID         `db:"patient_id" json:"patient_id"`
	ServiceID      uuid.UUID         `db:"service_id" json:"service_id"`
	AssignedUserID *uuid.UUID        `db:"assigned_user_id" json:"assigned_user_id,omitempty"`
	StartTime      time.Time         `db:"start_time" json:"start_time"`
	Duration       int               `db:"duration" json:"duration"` // minutes
	Status         AppointmentStatus `db:"status" json:"status"`
	Notes          *string           `db:"notes" json:"notes,omitempty"`
}

// EndTime is the exclusive end of the appointment interval.
func (a *Appointment) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.Duration) * time.Minute)
}

// Overlaps reports whether the two half-open intervals intersect.
func (a *Appointment) Overlaps(start time.Time, duration int) bool {
	end := start.Add(time.Duration(duration) * time.Minute)
	return a.StartTime.Before(end) && start.Before(a.EndTime())
}

type CreateAppointmentRequest struct {
	PatientID      uuid.UUID  `json:"patient_id" binding:"required"`
	ServiceID      uuid.UUID  `json:"service_id" binding:"required"`
	StartTime      time.Time  `json:"start_time" binding:"required"`
	AssignedUserID *uuid.UUID `json:"assigned_user_id"`
	Notes          *string    `json:"notes"`
}

type UpdateAppointmentRequest struct {
	StartTime      *time.Time         `json:"start_time"`
	Status         *AppointmentStatus `json:"status"`
	AssignedUserID *uuid.UUID         `json:"assigned_user_id"`
	Notes          *string            `json:"notes"`
}

type AppointmentFilters struct {
	Date      *time.Time
	Status    AppointmentStatus
	PatientID *uuid.UUID
	// AssignedUserID is the row-level filter applied for doctors: they see
	// only appointments assigned to themselves.
	AssignedUserID *uuid.UUID
}
