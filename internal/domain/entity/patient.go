package entity

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"clinic_id"`
	PatientCode string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"patient_code"`
	FullName    string     `gorm:"type:varchar(255);not null" json:"full_name"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Gender      string     `gorm:"type:varchar(20)" json:"gender,omitempty"`
	Phone       string     `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Email       string     `gorm:"type:varchar(255)" json:"email,omitempty"`
	Address     string     `gorm:"type:text" json:"address,omitempty"`
	CreatedByID *uuid.UUID `gorm:"type:uuid" json:"created_by_id,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Patient) TableName() string {
	return "patients"
}

// PatientDependents counts rows that block a patient's deletion.
type PatientDependents struct {
	OccupiedBeds int64
	Appointments int64
	Invoices     int64
}

func (d PatientDependents) Any() bool {
	return d.OccupiedBeds > 0 || d.Appointments > 0 || d.Invoices > 0
}
