package repository

import (
	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClinicRepository interface {
	Create(db *gorm.DB, clinic *entity.Clinic) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Clinic, error)
	FindByIDs(db *gorm.DB, ids []uuid.UUID) ([]entity.Clinic, error)
	Update(db *gorm.DB, clinic *entity.Clinic) error
	Delete(db *gorm.DB, id uuid.UUID) error
	CountDependents(db *gorm.DB, id uuid.UUID) (entity.ClinicDependents, error)
}
