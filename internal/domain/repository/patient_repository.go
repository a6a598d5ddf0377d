package repository

import (
	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PatientRepository interface {
	Create(db *gorm.DB, patient *entity.Patient) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Patient, error)
	CodeExists(db *gorm.DB, code string) (bool, error)
	List(db *gorm.DB, filter entity.PatientFilter) ([]entity.Patient, int64, error)
	Delete(db *gorm.DB, id uuid.UUID) error
	CountDependents(db *gorm.DB, id uuid.UUID) (entity.PatientDependents, error)
}
