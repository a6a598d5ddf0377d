package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateBedRequest struct {
	RoomID    uuid.UUID `json:"roomId" validate:"required"`
	BedNumber string    `json:"bedNumber" validate:"required,max=20"`
	Notes     *string   `json:"notes"`
}

type UpdateBedRequest struct {
	BedNumber *string `json:"bedNumber" validate:"omitempty,min=1,max=20"`
	Notes     *string `json:"notes"`
}

// AssignBedRequest takes dates as YYYY-MM-DD or RFC 3339.
type AssignBedRequest struct {
	PatientID     uuid.UUID `json:"patientId" validate:"required"`
	AdmissionDate string    `json:"admissionDate" validate:"required"`
	DischargeDate *string   `json:"dischargeDate"`
	Notes         *string   `json:"notes"`
}

type BedListQuery struct {
	ListQuery
	RoomID *uuid.UUID
	Status string
}

// Response DTOs

type BedResponse struct {
	ID            uuid.UUID        `json:"id"`
	ClinicID      uuid.UUID        `json:"clinicId"`
	RoomID        uuid.UUID        `json:"roomId"`
	BedCode       string           `json:"bedCode"`
	BedNumber     string           `json:"bedNumber"`
	Status        string           `json:"status"`
	PatientID     *uuid.UUID       `json:"patientId,omitempty"`
	Patient       *PatientResponse `json:"patient,omitempty"`
	AdmissionDate *time.Time       `json:"admissionDate,omitempty"`
	DischargeDate *time.Time       `json:"dischargeDate,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

type BedListResponse struct {
	Beds       []BedResponse `json:"beds"`
	Pagination Pagination    `json:"pagination"`
}
