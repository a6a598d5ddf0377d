package repository

import (
	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	CodeExists(db *gorm.DB, code string) (bool, error)
	List(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, int64, error)
	// FindOverlapping returns the doctor's slot-holding appointments whose
	// window intersects w, skipping excludeID when set.
	FindOverlapping(db *gorm.DB, doctorID uuid.UUID, w entity.TimeWindow, excludeID *uuid.UUID) ([]entity.Appointment, error)
	// ApplyTransition persists a status change only if the stored status still
	// equals from. It returns the number of rows updated.
	ApplyTransition(db *gorm.DB, appointment *entity.Appointment, from entity.AppointmentStatus) (int64, error)
	UpdateDetails(db *gorm.DB, appointment *entity.Appointment) error
	CountByDoctor(db *gorm.DB, doctorID uuid.UUID) (int64, error)
}
