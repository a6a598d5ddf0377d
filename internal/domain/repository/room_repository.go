package repository

import (
	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoomRepository interface {
	Create(db *gorm.DB, room *entity.Room) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Room, error)
	// FindByIDForUpdate locks the room row for the rest of the transaction.
	FindByIDForUpdate(db *gorm.DB, id uuid.UUID) (*entity.Room, error)
	FindByNumber(db *gorm.DB, clinicID uuid.UUID, roomNumber string) (*entity.Room, error)
	CodeExists(db *gorm.DB, code string) (bool, error)
	List(db *gorm.DB, filter entity.RoomFilter) ([]entity.Room, int64, error)
	Update(db *gorm.DB, room *entity.Room) error
	Delete(db *gorm.DB, id uuid.UUID) error
	Occupancy(db *gorm.DB, roomIDs []uuid.UUID) (map[uuid.UUID]entity.Occupancy, error)
}
