package converter

import (
	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(a *entity.Appointment) *dto.AppointmentResponse {
	if a == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:                    a.ID,
		ClinicID:              a.ClinicID,
		AppointmentCode:       a.AppointmentCode,
		PatientID:             a.PatientID,
		DoctorID:              a.DoctorID,
		AppointmentDate:       a.AppointmentDate.Format(dateLayout),
		StartTime:             a.StartTime,
		EndTime:               a.EndTime,
		Duration:              a.Duration,
		Type:                  string(a.Type),
		Status:                string(a.Status),
		ChiefConcern:          a.ChiefConcern,
		Notes:                 a.Notes,
		Vitals:                a.Vitals,
		IsFollowUp:            a.IsFollowUp,
		PreviousAppointmentID: a.PreviousAppointmentID,
		CheckedInAt:           a.CheckedInAt,
		StartedAt:             a.StartedAt,
		CompletedAt:           a.CompletedAt,
		CancelledAt:           a.CancelledAt,
		CancelledBy:           a.CancelledByID,
		CancelReason:          a.CancelReason,
		CreatedAt:             a.CreatedAt,
		UpdatedAt:             a.UpdatedAt,
	}
	if a.FollowUpDate != nil {
		d := a.FollowUpDate.Format(dateLayout)
		response.FollowUpDate = &d
	}
	if a.Patient != nil {
		response.PatientName = a.Patient.FullName
	}
	if a.Doctor != nil {
		response.DoctorName = a.Doctor.FullName
	}
	return response
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}
