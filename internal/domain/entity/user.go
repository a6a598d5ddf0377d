package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an authenticated principal. ClinicID is set for every role except
// SUPER_ADMIN, whose scope lives in SuperAdminClinic rows.
type User struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email     string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FullName  string     `gorm:"type:varchar(255);not null" json:"full_name"`
	Role      Role       `gorm:"type:varchar(20);not null;index" json:"role"`
	ClinicID  *uuid.UUID `gorm:"type:uuid;index" json:"clinic_id,omitempty"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// SuperAdminClinic records that a SUPER_ADMIN administers a clinic.
type SuperAdminClinic struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	ClinicID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"clinic_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (SuperAdminClinic) TableName() string {
	return "super_admin_clinics"
}
