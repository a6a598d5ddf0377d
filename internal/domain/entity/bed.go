package entity

import (
	"time"

	"github.com/google/uuid"

	"clinic-operations/pkg/apperror"
)

type BedStatus string

const (
	BedStatusAvailable   BedStatus = "AVAILABLE"
	BedStatusOccupied    BedStatus = "OCCUPIED"
	BedStatusReserved    BedStatus = "RESERVED"
	BedStatusMaintenance BedStatus = "MAINTENANCE"
)

var (
	ErrBedNotAssignable     = apperror.Conflict("bed is not available for assignment")
	ErrBedNotAvailable      = apperror.Conflict("bed is not available")
	ErrBedNotOccupied       = apperror.Conflict("bed is not occupied")
	ErrBedNotReserved       = apperror.Conflict("bed is not reserved")
	ErrBedNotInMaintenance  = apperror.Conflict("bed is not under maintenance")
	ErrBedInUse             = apperror.Conflict("bed is occupied or reserved")
	ErrBedPatientRequired   = apperror.Validation("patient is required")
	ErrBedAdmissionRequired = apperror.Validation("admission date is required")
	ErrBedDischargeBefore   = apperror.Validation("discharge date must not precede admission date")
)

// Bed status only changes through the transition methods below, each of
// which checks the current status first. Repositories persist the result
// with a conditional update on the status read here.
type Bed struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"clinic_id"`
	RoomID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"room_id"`
	BedCode       string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"bed_code"`
	BedNumber     string     `gorm:"type:varchar(20);not null" json:"bed_number"`
	Status        BedStatus  `gorm:"type:varchar(20);not null;default:AVAILABLE" json:"status"`
	PatientID     *uuid.UUID `gorm:"type:uuid" json:"patient_id,omitempty"`
	AdmissionDate *time.Time `json:"admission_date,omitempty"`
	DischargeDate *time.Time `json:"discharge_date,omitempty"`
	Notes         *string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedByID   *uuid.UUID `gorm:"type:uuid" json:"created_by_id,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Room    *Room    `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
}

func (Bed) TableName() string {
	return "beds"
}

// Assign places patientID in an AVAILABLE or RESERVED bed.
func (b *Bed) Assign(patientID uuid.UUID, admission time.Time, discharge *time.Time, notes *string) error {
	if b.Status != BedStatusAvailable && b.Status != BedStatusReserved {
		return ErrBedNotAssignable
	}
	if patientID == uuid.Nil {
		return ErrBedPatientRequired
	}
	if admission.IsZero() {
		return ErrBedAdmissionRequired
	}
	if discharge != nil && discharge.Before(admission) {
		return ErrBedDischargeBefore
	}
	b.Status = BedStatusOccupied
	b.PatientID = &patientID
	b.AdmissionDate = &admission
	b.DischargeDate = discharge
	if notes != nil {
		b.Notes = notes
	}
	return nil
}

// Discharge releases the bed and clears every assignment field.
func (b *Bed) Discharge() error {
	if b.Status != BedStatusOccupied {
		return ErrBedNotOccupied
	}
	b.clear(BedStatusAvailable)
	return nil
}

func (b *Bed) Reserve() error {
	if b.Status != BedStatusAvailable {
		return ErrBedNotAvailable
	}
	b.Status = BedStatusReserved
	return nil
}

// Release drops an unused reservation.
func (b *Bed) Release() error {
	if b.Status != BedStatusReserved {
		return ErrBedNotReserved
	}
	b.Status = BedStatusAvailable
	return nil
}

// StartMaintenance takes an AVAILABLE bed out of service.
func (b *Bed) StartMaintenance() error {
	if b.Status != BedStatusAvailable {
		return ErrBedNotAvailable
	}
	b.Status = BedStatusMaintenance
	return nil
}

// Restore returns a bed under maintenance to service.
func (b *Bed) Restore() error {
	if b.Status != BedStatusMaintenance {
		return ErrBedNotInMaintenance
	}
	b.Status = BedStatusAvailable
	return nil
}

// CanDelete refuses beds that are holding a patient or a reservation.
func (b *Bed) CanDelete() error {
	if b.Status == BedStatusOccupied || b.Status == BedStatusReserved {
		return ErrBedInUse
	}
	return nil
}

func (b *Bed) clear(s BedStatus) {
	b.Status = s
	b.PatientID = nil
	b.AdmissionDate = nil
	b.DischargeDate = nil
}
