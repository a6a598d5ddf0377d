package converter

import (
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/entity"
)

// BedToResponse converts a Bed entity to BedResponse DTO
func BedToResponse(bed *entity.Bed) *dto.BedResponse {
	if bed == nil {
		return nil
	}

	return &dto.BedResponse{
		ID:            bed.ID,
		ClinicID:      bed.ClinicID,
		RoomID:        bed.RoomID,
		BedCode:       bed.BedCode,
		BedNumber:     bed.BedNumber,
		Status:        string(bed.Status),
		PatientID:     bed.PatientID,
		Patient:       PatientToResponse(bed.Patient),
		AdmissionDate: bed.AdmissionDate,
		DischargeDate: bed.DischargeDate,
		Notes:         bed.Notes,
		CreatedAt:     bed.CreatedAt,
		UpdatedAt:     bed.UpdatedAt,
	}
}

func BedsToResponses(beds []entity.Bed) []dto.BedResponse {
	responses := make([]dto.BedResponse, len(beds))
	for i := range beds {
		responses[i] = *BedToResponse(&beds[i])
	}
	return responses
}
