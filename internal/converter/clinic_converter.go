package converter

import (
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/entity"
)

// ClinicToResponse converts a Clinic entity to ClinicResponse DTO
func ClinicToResponse(clinic *entity.Clinic) *dto.ClinicResponse {
	if clinic == nil {
		return nil
	}

	return &dto.ClinicResponse{
		ID:          clinic.ID,
		Name:        clinic.Name,
		Address:     clinic.Address,
		Phone:       clinic.Phone,
		Email:       clinic.Email,
		Description: clinic.Description,
		CreatedAt:   clinic.CreatedAt,
		UpdatedAt:   clinic.UpdatedAt,
	}
}

func ClinicsToResponses(clinics []entity.Clinic) []dto.ClinicResponse {
	responses := make([]dto.ClinicResponse, len(clinics))
	for i := range clinics {
		responses[i] = *ClinicToResponse(&clinics[i])
	}
	return responses
}
