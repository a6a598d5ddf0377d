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

type BedHandler struct {
	bedUsecase usecase.BedUsecase
	validator  *validator.CustomValidator
}

func NewBedHandler(bedUsecase usecase.BedUsecase, validator *validator.CustomValidator) *BedHandler {
	return &BedHandler{
		bedUsecase: bedUsecase,
		validator:  validator,
	}
}

func (h *BedHandler) CreateBed(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBedRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	bed, err := h.bedUsecase.CreateBed(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "bed", bed)
}

func (h *BedHandler) GetBed(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "bed")
	if !ok {
		return
	}

	bed, err := h.bedUsecase.GetBed(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "bed", bed)
}

func (h *BedHandler) ListBeds(w http.ResponseWriter, r *http.Request) {
	roomID, ok := optionalQueryUUID(w, r, "roomId")
	if !ok {
		return
	}
	h.list(w, r, roomID)
}

// ListRoomBeds serves GET /rooms/{id}/beds.
func (h *BedHandler) ListRoomBeds(w http.ResponseWriter, r *http.Request) {
	roomID, ok := pathID(w, r, "room")
	if !ok {
		return
	}
	h.list(w, r, &roomID)
}

func (h *BedHandler) list(w http.ResponseWriter, r *http.Request, roomID *uuid.UUID) {
	lq, ok := extractListQuery(w, r)
	if !ok {
		return
	}

	beds, err := h.bedUsecase.ListBeds(r.Context(), dto.BedListQuery{
		ListQuery: lq,
		RoomID:    roomID,
		Status:    r.URL.Query().Get("status"),
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessWith(w, http.StatusOK, response.Envelope{
		"beds":       beds.Beds,
		"pagination": beds.Pagination,
	})
}

func (h *BedHandler) UpdateBed(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "bed")
	if !ok {
		return
	}

	var req dto.UpdateBedRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	bed, err := h.bedUsecase.UpdateBed(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "bed", bed)
}

func (h *BedHandler) DeleteBed(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "bed")
	if !ok {
		return
	}

	if err := h.bedUsecase.DeleteBed(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "message", "Bed deleted successfully")
}

func (h *BedHandler) AssignBed(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "bed")
	if !ok {
		return
	}

	var req dto.AssignBedRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	bed, err := h.bedUsecase.AssignBed(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "bed", bed)
}

func (h *BedHandler) DischargeBed(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bedUsecase.DischargeBed)
}

func (h *BedHandler) ReserveBed(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bedUsecase.ReserveBed)
}

func (h *BedHandler) ReleaseBed(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bedUsecase.ReleaseBed)
}

func (h *BedHandler) StartMaintenance(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bedUsecase.StartMaintenance)
}

func (h *BedHandler) RestoreBed(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.bedUsecase.RestoreBed)
}

// transition serves the bodiless status endpoints.
func (h *BedHandler) transition(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID) (*dto.BedResponse, error)) {
	id, ok := pathID(w, r, "bed")
	if !ok {
		return
	}

	bed, err := fn(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "bed", bed)
}
