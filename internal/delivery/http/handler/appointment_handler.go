package handler

import (
	"context"
	"net/http"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/usecase"
	"clinic-operations/pkg/response"
	"clinic-operations/pkg/validator"

	"github.com/google/uuid"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.CreateAppointment(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "appointment", appointment)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	appointment, err := h.appointmentUsecase.GetAppointment(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "appointment", appointment)
}

func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	lq, ok := extractListQuery(w, r)
	if !ok {
		return
	}
	doctorID, ok := optionalQueryUUID(w, r, "doctorId")
	if !ok {
		return
	}
	patientID, ok := optionalQueryUUID(w, r, "patientId")
	if !ok {
		return
	}

	appointments, err := h.appointmentUsecase.ListAppointments(r.Context(), dto.AppointmentListQuery{
		ListQuery: lq,
		DoctorID:  doctorID,
		PatientID: patientID,
		Status:    r.URL.Query().Get("status"),
		Date:      r.URL.Query().Get("date"),
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessWith(w, http.StatusOK, response.Envelope{
		"appointments": appointments.Appointments,
		"pagination":   appointments.Pagination,
	})
}

func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	var req dto.UpdateAppointmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.UpdateAppointment(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "appointment", appointment)
}

func (h *AppointmentHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.appointmentUsecase.Confirm)
}

func (h *AppointmentHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.appointmentUsecase.CheckIn)
}

func (h *AppointmentHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.appointmentUsecase.Start)
}

func (h *AppointmentHandler) MarkNoShow(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.appointmentUsecase.MarkNoShow)
}

func (h *AppointmentHandler) ConfirmReschedule(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.appointmentUsecase.ConfirmReschedule)
}

// Complete accepts an empty body.
func (h *AppointmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	var req dto.CompleteAppointmentRequest
	if r.ContentLength != 0 && !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.Complete(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "appointment", appointment)
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	var req dto.CancelAppointmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.Cancel(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "appointment", appointment)
}

func (h *AppointmentHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	var req dto.RescheduleAppointmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.Reschedule(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "appointment", appointment)
}

func (h *AppointmentHandler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) (*dto.AppointmentResponse, error)) {
	id, ok := pathID(w, r, "appointment")
	if !ok {
		return
	}

	appointment, err := fn(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "appointment", appointment)
}
