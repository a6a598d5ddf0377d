package converter

import (
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/entity"

	"github.com/google/uuid"
)

func OccupancyToResponse(o entity.Occupancy) *dto.OccupancyResponse {
	return &dto.OccupancyResponse{
		Available:   o.Available,
		Occupied:    o.Occupied,
		Reserved:    o.Reserved,
		Maintenance: o.Maintenance,
		Provisioned: o.Provisioned(),
	}
}

// RoomToResponse converts a Room entity to RoomResponse DTO, with its
// occupancy when known.
func RoomToResponse(room *entity.Room, occupancy *entity.Occupancy) *dto.RoomResponse {
	if room == nil {
		return nil
	}

	response := &dto.RoomResponse{
		ID:         room.ID,
		ClinicID:   room.ClinicID,
		RoomCode:   room.RoomCode,
		RoomNumber: room.RoomNumber,
		RoomType:   string(room.RoomType),
		Floor:      room.Floor,
		TotalBeds:  room.TotalBeds,
		IsActive:   room.IsActive,
		CreatedAt:  room.CreatedAt,
		UpdatedAt:  room.UpdatedAt,
	}
	if occupancy != nil {
		response.Occupancy = OccupancyToResponse(*occupancy)
	}
	return response
}

func RoomsToResponses(rooms []entity.Room, occupancy map[uuid.UUID]entity.Occupancy) []dto.RoomResponse {
	responses := make([]dto.RoomResponse, len(rooms))
	for i := range rooms {
		var occ *entity.Occupancy
		if o, ok := occupancy[rooms[i].ID]; ok {
			occ = &o
		}
		responses[i] = *RoomToResponse(&rooms[i], occ)
	}
	return responses
}
