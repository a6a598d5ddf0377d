package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateDoctorRequest struct {
	ClinicID       *uuid.UUID `json:"clinicId"`
	UserID         *uuid.UUID `json:"userId"`
	FullName       string     `json:"fullName" validate:"required,min=2,max=255"`
	Specialization string     `json:"specialization" validate:"omitempty,max=255"`
	Phone          string     `json:"phone" validate:"omitempty,max=20"`
	Email          string     `json:"email" validate:"omitempty,email"`
}

type DoctorListQuery struct {
	ListQuery
	Specialization string
}

// Response DTOs

type DoctorResponse struct {
	ID             uuid.UUID  `json:"id"`
	ClinicID       uuid.UUID  `json:"clinicId"`
	UserID         *uuid.UUID `json:"userId,omitempty"`
	FullName       string     `json:"fullName"`
	Specialization string     `json:"specialization,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	Email          string     `json:"email,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

type DoctorListResponse struct {
	Doctors    []DoctorResponse `json:"doctors"`
	Pagination Pagination       `json:"pagination"`
}
