package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateRoomRequest struct {
	ClinicID   *uuid.UUID `json:"clinicId"`
	RoomNumber string     `json:"roomNumber" validate:"required,max=20"`
	RoomType   string     `json:"roomType" validate:"required,oneof=GENERAL PRIVATE SEMI_PRIVATE ICU EMERGENCY OPERATION_THEATER LABOR NURSERY"`
	Floor      int        `json:"floor" validate:"gte=0"`
	TotalBeds  int        `json:"totalBeds" validate:"required,min=1,max=500"`
}

type UpdateRoomRequest struct {
	RoomNumber *string `json:"roomNumber" validate:"omitempty,min=1,max=20"`
	RoomType   *string `json:"roomType" validate:"omitempty,oneof=GENERAL PRIVATE SEMI_PRIVATE ICU EMERGENCY OPERATION_THEATER LABOR NURSERY"`
	Floor      *int    `json:"floor" validate:"omitempty,gte=0"`
	TotalBeds  *int    `json:"totalBeds" validate:"omitempty,min=1,max=500"`
	IsActive   *bool   `json:"isActive"`
}

type RoomListQuery struct {
	ListQuery
	RoomType string
}

// Response DTOs

type OccupancyResponse struct {
	Available   int64 `json:"available"`
	Occupied    int64 `json:"occupied"`
	Reserved    int64 `json:"reserved"`
	Maintenance int64 `json:"maintenance"`
	Provisioned int64 `json:"provisioned"`
}

type RoomResponse struct {
	ID         uuid.UUID          `json:"id"`
	ClinicID   uuid.UUID          `json:"clinicId"`
	RoomCode   string             `json:"roomCode"`
	RoomNumber string             `json:"roomNumber"`
	RoomType   string             `json:"roomType"`
	Floor      int                `json:"floor"`
	TotalBeds  int                `json:"totalBeds"`
	IsActive   bool               `json:"isActive"`
	Occupancy  *OccupancyResponse `json:"occupancy,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

type RoomListResponse struct {
	Rooms      []RoomResponse `json:"rooms"`
	Pagination Pagination     `json:"pagination"`
}
