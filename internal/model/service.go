package model

import "github.com/google/uuid"

// Service is a clinic-scoped offering. Once any appointment references it,
// deletion is converted into deactivation so historical appointments keep
// their service row.
type Service struct {
	Base
	ClinicID    uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Duration    int       `db:"duration" json:"duration"` // minutes
	Price       float64   `db:"price" json:"price"`
	Category    *string   `db:"category" json:"category,omitempty"`
	IsActive    bool      `db:"is_active" json:"is_active"`
}

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=120"`
	Description *string `json:"description"`
	Duration    int     `json:"duration" binding:"required,min=1"`
	Price       float64 `json:"price" binding:"min=0"`
	Category    *string `json:"category" binding:"omitempty,max=80"`
}

type UpdateServiceRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=120"`
	Description *string  `json:"description"`
	Duration    *int     `json:"duration" binding:"omitempty,min=1"`
	Price       *float64 `json:"price" binding:"omitempty,min=0"`
	Category    *string  `json:"category" binding:"omitempty,max=80"`
	IsActive    *bool    `json:"is_active"`
}
