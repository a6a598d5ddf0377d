package entity

import (
	"time"

	"github.com/google/uuid"
)

// Clinic is the tenant root.
type Clinic struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Address     string     `gorm:"type:text;not null" json:"address"`
	Phone       string     `gorm:"type:varchar(20);not null" json:"phone"`
	Email       *string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Description *string    `gorm:"type:text" json:"description,omitempty"`
	CreatedByID *uuid.UUID `gorm:"type:uuid" json:"created_by_id,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Clinic) TableName() string {
	return "clinics"
}

// ClinicDependents counts rows that still reference a clinic.
type ClinicDependents struct {
	Doctors      int64
	Patients     int64
	Rooms        int64
	Staff        int64
	Transactions int64
}

func (d ClinicDependents) Any() bool {
	return d.Doctors > 0 || d.Patients > 0 || d.Rooms > 0 || d.Staff > 0 || d.Transactions > 0
}
