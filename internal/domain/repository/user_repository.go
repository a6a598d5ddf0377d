package repository

import (
	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(db *gorm.DB, user *entity.User) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error)
	FindByEmail(db *gorm.DB, email string) (*entity.User, error)

	// Super-admin clinic scope.
	FindSuperAdminClinicIDs(db *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
	AddSuperAdminClinic(db *gorm.DB, userID, clinicID uuid.UUID) error
	RemoveClinicFromSuperAdmins(db *gorm.DB, clinicID uuid.UUID) error
}
