package handler

import (
	"net/http"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/usecase"
	"clinic-operations/pkg/response"
	"clinic-operations/pkg/validator"
)

type ClinicHandler struct {
	clinicUsecase usecase.ClinicUsecase
	validator     *validator.CustomValidator
}

func NewClinicHandler(clinicUsecase usecase.ClinicUsecase, validator *validator.CustomValidator) *ClinicHandler {
	return &ClinicHandler{
		clinicUsecase: clinicUsecase,
		validator:     validator,
	}
}

func (h *ClinicHandler) CreateClinic(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateClinicRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	clinic, err := h.clinicUsecase.CreateClinic(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "clinic", clinic)
}

func (h *ClinicHandler) GetClinic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "clinic")
	if !ok {
		return
	}

	clinic, err := h.clinicUsecase.GetClinic(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "clinic", clinic)
}

func (h *ClinicHandler) ListClinics(w http.ResponseWriter, r *http.Request) {
	clinics, err := h.clinicUsecase.ListClinics(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessWith(w, http.StatusOK, response.Envelope{
		"clinics": clinics.Clinics,
		"total":   clinics.Total,
	})
}

func (h *ClinicHandler) UpdateClinic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "clinic")
	if !ok {
		return
	}

	var req dto.UpdateClinicRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	clinic, err := h.clinicUsecase.UpdateClinic(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "clinic", clinic)
}

func (h *ClinicHandler) DeleteClinic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "clinic")
	if !ok {
		return
	}

	if err := h.clinicUsecase.DeleteClinic(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "message", "Clinic deleted successfully")
}
