package entity

import (
	"time"

	"github.com/google/uuid"
)

// Domain-level filters for list queries, used by the repository layer to
// avoid coupling with delivery DTOs. ClinicIDs is always the narrowed
// visible set, never empty when it reaches a repository.

type Page struct {
	Limit  int
	Offset int
}

type RoomFilter struct {
	ClinicIDs []uuid.UUID
	RoomType  RoomType
	Page
}

type BedFilter struct {
	ClinicIDs []uuid.UUID
	RoomID    *uuid.UUID
	Status    BedStatus
	Page
}

type PatientFilter struct {
	ClinicIDs []uuid.UUID
	Search    string // full name or patient code (ILIKE)
	Page
}

type DoctorFilter struct {
	ClinicIDs      []uuid.UUID
	Specialization string
	Page
}

type AppointmentFilter struct {
	ClinicIDs []uuid.UUID
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Status    AppointmentStatus
	Date      *time.Time
	Page
}

type InvoiceFilter struct {
	ClinicIDs []uuid.UUID
	PatientID *uuid.UUID
	Status    InvoiceStatus
	Page
}

type TransactionFilter struct {
	ClinicIDs []uuid.UUID
	InvoiceID *uuid.UUID
	Type      TransactionType
	Page
}

type AuditLogFilter struct {
	ClinicIDs []uuid.UUID
	Entity    string
	EntityID  string
	Page
}
