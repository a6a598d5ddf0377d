package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	ClinicID              *uuid.UUID `json:"clinicId"`
	PatientID             uuid.UUID  `json:"patientId" validate:"required"`
	DoctorID              uuid.UUID  `json:"doctorId" validate:"required"`
	AppointmentDate       string     `json:"appointmentDate" validate:"required,date"`
	StartTime             string     `json:"startTime" validate:"required,clock"`
	EndTime               string     `json:"endTime" validate:"required,clock"`
	Duration              int        `json:"duration" validate:"required,min=1"`
	Type                  string     `json:"type" validate:"omitempty,oneof=REGULAR EMERGENCY FOLLOW_UP CONSULTATION PROCEDURE CHECKUP VACCINATION LABORATORY"`
	ChiefConcern          *string    `json:"chiefConcern"`
	Notes                 *string    `json:"notes"`
	IsFollowUp            bool       `json:"isFollowUp"`
	PreviousAppointmentID *uuid.UUID `json:"previousAppointmentId"`
}

type UpdateAppointmentRequest struct {
	Type         *string `json:"type" validate:"omitempty,oneof=REGULAR EMERGENCY FOLLOW_UP CONSULTATION PROCEDURE CHECKUP VACCINATION LABORATORY"`
	ChiefConcern *string `json:"chiefConcern"`
	Notes        *string `json:"notes"`
}

type CancelAppointmentRequest struct {
	CancelReason string `json:"cancelReason" validate:"required,notblank,max=1000"`
}

type CompleteAppointmentRequest struct {
	Vitals       map[string]interface{} `json:"vitals"`
	Notes        *string                `json:"notes"`
	FollowUpDate *string                `json:"followUpDate" validate:"omitempty,date"`
}

// RescheduleAppointmentRequest requires all four window fields together.
type RescheduleAppointmentRequest struct {
	AppointmentDate string `json:"appointmentDate" validate:"required,date"`
	StartTime       string `json:"startTime" validate:"required,clock"`
	EndTime         string `json:"endTime" validate:"required,clock"`
	Duration        int    `json:"duration" validate:"required,min=1"`
}

type AppointmentListQuery struct {
	ListQuery
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Status    string
	Date      string
}

// Response DTOs

type AppointmentResponse struct {
	ID                    uuid.UUID              `json:"id"`
	ClinicID              uuid.UUID              `json:"clinicId"`
	AppointmentCode       string                 `json:"appointmentCode"`
	PatientID             uuid.UUID              `json:"patientId"`
	DoctorID              uuid.UUID              `json:"doctorId"`
	PatientName           string                 `json:"patientName,omitempty"`
	DoctorName            string                 `json:"doctorName,omitempty"`
	AppointmentDate       string                 `json:"appointmentDate"`
	StartTime             string                 `json:"startTime"`
	EndTime               string                 `json:"endTime"`
	Duration              int                    `json:"duration"`
	Type                  string                 `json:"type"`
	Status                string                 `json:"status"`
	ChiefConcern          *string                `json:"chiefConcern,omitempty"`
	Notes                 *string                `json:"notes,omitempty"`
	Vitals                map[string]interface{} `json:"vitals,omitempty"`
	FollowUpDate          *string                `json:"followUpDate,omitempty"`
	IsFollowUp            bool                   `json:"isFollowUp"`
	PreviousAppointmentID *uuid.UUID             `json:"previousAppointmentId,omitempty"`
	CheckedInAt           *time.Time             `json:"checkedInAt,omitempty"`
	StartedAt             *time.Time             `json:"startedAt,omitempty"`
	CompletedAt           *time.Time             `json:"completedAt,omitempty"`
	CancelledAt           *time.Time             `json:"cancelledAt,omitempty"`
	CancelledBy           *uuid.UUID             `json:"cancelledBy,omitempty"`
	CancelReason          *string                `json:"cancelReason,omitempty"`
	CreatedAt             time.Time              `json:"createdAt"`
	UpdatedAt             time.Time              `json:"updatedAt"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Pagination   Pagination            `json:"pagination"`
}
