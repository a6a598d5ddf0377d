package repository

import (
	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorRepository interface {
	Create(db *gorm.DB, doctor *entity.Doctor) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error)
	// FindByIDForUpdate locks the doctor row for the rest of the transaction.
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Doctor, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Doctor, error)
	List(db *gorm.DB, filter entity.DoctorFilter) ([]entity.Doctor, int64, error)
	Delete(db *gorm.DB, id uuid.UUID) error
}
