package handler

import (
	"net/http"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/usecase"
	"clinic-operations/pkg/response"
	"clinic-operations/pkg/validator"
)

type DoctorHandler struct {
	doctorUsecase usecase.DoctorUsecase
	validator     *validator.CustomValidator
}

func NewDoctorHandler(doctorUsecase usecase.DoctorUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		doctorUsecase: doctorUsecase,
		validator:     validator,
	}
}

func (h *DoctorHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDoctorRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	doctor, err := h.doctorUsecase.CreateDoctor(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "doctor", doctor)
}

func (h *DoctorHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "doctor")
	if !ok {
		return
	}

	doctor, err := h.doctorUsecase.GetDoctor(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "doctor", doctor)
}

func (h *DoctorHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	lq, ok := extractListQuery(w, r)
	if !ok {
		return
	}

	doctors, err := h.doctorUsecase.ListDoctors(r.Context(), dto.DoctorListQuery{
		ListQuery:      lq,
		Specialization: r.URL.Query().Get("specialization"),
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessWith(w, http.StatusOK, response.Envelope{
		"doctors":    doctors.Doctors,
		"pagination": doctors.Pagination,
	})
}

func (h *DoctorHandler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "doctor")
	if !ok {
		return
	}

	if err := h.doctorUsecase.DeleteDoctor(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "message", "Doctor deleted successfully")
}
