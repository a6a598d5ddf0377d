package converter

import (
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/entity"
)

// PatientToResponse converts a Patient entity to PatientResponse DTO
func PatientToResponse(patient *entity.Patient) *dto.PatientResponse {
	if patient == nil {
		return nil
	}

	return &dto.PatientResponse{
		ID:          patient.ID,
		ClinicID:    patient.ClinicID,
		PatientCode: patient.PatientCode,
		FullName:    patient.FullName,
		DateOfBirth: patient.DateOfBirth,
		Gender:      patient.Gender,
		Phone:       patient.Phone,
		Email:       patient.Email,
		Address:     patient.Address,
		CreatedAt:   patient.CreatedAt,
	}
}

func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(patients))
	for i := range patients {
		responses[i] = *PatientToResponse(&patients[i])
	}
	return responses
}
