package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateClinicRequest struct {
	Name        string  `json:"name" validate:"required,min=2,max=255"`
	Address     string  `json:"address" validate:"required"`
	Phone       string  `json:"phone" validate:"required,max=20"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Description *string `json:"description"`
}

type UpdateClinicRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=255"`
	Address     *string `json:"address" validate:"omitempty,min=1"`
	Phone       *string `json:"phone" validate:"omitempty,max=20"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Description *string `json:"description"`
}

// Response DTOs

type ClinicResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	Email       *string   `json:"email,omitempty"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type ClinicListResponse struct {
	Clinics []ClinicResponse `json:"clinics"`
	Total   int              `json:"total"`
}
