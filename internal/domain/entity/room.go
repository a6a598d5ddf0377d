package entity

import (
	"time"

	"github.com/google/uuid"
)

type RoomType string

const (
	RoomTypeGeneral          RoomType = "GENERAL"
	RoomTypePrivate          RoomType = "PRIVATE"
	RoomTypeSemiPrivate      RoomType = "SEMI_PRIVATE"
	RoomTypeICU              RoomType = "ICU"
	RoomTypeEmergency        RoomType = "EMERGENCY"
	RoomTypeOperationTheater RoomType = "OPERATION_THEATER"
	RoomTypeLabor            RoomType = "LABOR"
	RoomTypeNursery          RoomType = "NURSERY"
)

// Room belongs to one clinic and declares how many beds it can hold.
type Room struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClinicID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"clinic_id"`
	RoomCode    string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"room_code"`
	RoomNumber  string     `gorm:"type:varchar(20);not null" json:"room_number"`
	RoomType    RoomType   `gorm:"type:varchar(20);not null" json:"room_type"`
	Floor       int        `gorm:"not null;default:0" json:"floor"`
	TotalBeds   int        `gorm:"not null" json:"total_beds"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	CreatedByID *uuid.UUID `gorm:"type:uuid" json:"created_by_id,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Room) TableName() string {
	return "rooms"
}

// Occupancy is the per-status bed count of a room.
type Occupancy struct {
	Available   int64 `json:"available"`
	Occupied    int64 `json:"occupied"`
	Reserved    int64 `json:"reserved"`
	Maintenance int64 `json:"maintenance"`
}

// Provisioned is the number of beds that physically exist in the room.
func (o Occupancy) Provisioned() int64 {
	return o.Available + o.Occupied + o.Reserved + o.Maintenance
}

// Add counts n beds in status s.
func (o *Occupancy) Add(s BedStatus, n int64) {
	switch s {
	case BedStatusAvailable:
		o.Available += n
	case BedStatusOccupied:
		o.Occupied += n
	case BedStatusReserved:
		o.Reserved += n
	case BedStatusMaintenance:
		o.Maintenance += n
	}
}
