package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreatePatientRequest struct {
	ClinicID    *uuid.UUID `json:"clinicId"`
	FullName    string     `json:"fullName" validate:"required,min=2,max=255"`
	DateOfBirth string     `json:"dateOfBirth" validate:"omitempty,date"`
	Gender      string     `json:"gender" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	Phone       string     `json:"phone" validate:"omitempty,max=20"`
	Email       string     `json:"email" validate:"omitempty,email"`
	Address     string     `json:"address"`
}

type PatientListQuery struct {
	ListQuery
	Search string
}

// Response DTOs

type PatientResponse struct {
	ID          uuid.UUID  `json:"id"`
	ClinicID    uuid.UUID  `json:"clinicId"`
	PatientCode string     `json:"patientCode"`
	FullName    string     `json:"fullName"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Gender      string     `json:"gender,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Email       string     `json:"email,omitempty"`
	Address     string     `json:"address,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type PatientListResponse struct {
	Patients   []PatientResponse `json:"patients"`
	Pagination Pagination        `json:"pagination"`
}
