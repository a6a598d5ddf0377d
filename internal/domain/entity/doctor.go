package entity

import (
	"time"

	"github.com/google/uuid"
)

type Doctor struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"clinic_id"`
	UserID         *uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id,omitempty"`
	FullName       string     `gorm:"type:varchar(255);not null" json:"full_name"`
	Specialization string     `gorm:"type:varchar(255)" json:"specialization,omitempty"`
	Phone          string     `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Email          string     `gorm:"type:varchar(255)" json:"email,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Doctor) TableName() string {
	return "doctors"
}
