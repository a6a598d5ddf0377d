package repository

import (
	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BedRepository interface {
	Create(db *gorm.DB, bed *entity.Bed) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Bed, error)
	FindByNumber(db *gorm.DB, roomID uuid.UUID, bedNumber string) (*entity.Bed, error)
	FindOccupiedByPatient(db *gorm.DB, patientID uuid.UUID) (*entity.Bed, error)
	CodeExists(db *gorm.DB, code string) (bool, error)
	CountByRoom(db *gorm.DB, roomID uuid.UUID) (int64, error)
	List(db *gorm.DB, filter entity.BedFilter) ([]entity.Bed, int64, error)
	// ApplyTransition writes the bed's status and assignment fields only if the
	// stored status still equals from. It returns the number of rows updated.
	ApplyTransition(db *gorm.DB, bed *entity.Bed, from entity.BedStatus) (int64, error)
	UpdateDetails(db *gorm.DB, bed *entity.Bed) error
	// Delete removes the bed only if its stored status still equals status.
	// It returns the number of rows deleted.
	Delete(db *gorm.DB, id uuid.UUID, status entity.BedStatus) (int64, error)
}
