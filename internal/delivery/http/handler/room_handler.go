package handler

import (
	"net/http"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/internal/usecase"
	"clinic-operations/pkg/response"
	"clinic-operations/pkg/validator"
)

type RoomHandler struct {
	roomUsecase usecase.RoomUsecase
	validator   *validator.CustomValidator
}

func NewRoomHandler(roomUsecase usecase.RoomUsecase, validator *validator.CustomValidator) *RoomHandler {
	return &RoomHandler{
		roomUsecase: roomUsecase,
		validator:   validator,
	}
}

func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRoomRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	room, err := h.roomUsecase.CreateRoom(r.Context(), &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "room", room)
}

func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "room")
	if !ok {
		return
	}

	room, err := h.roomUsecase.GetRoom(r.Context(), id)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "room", room)
}

func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	lq, ok := extractListQuery(w, r)
	if !ok {
		return
	}

	rooms, err := h.roomUsecase.ListRooms(r.Context(), dto.RoomListQuery{
		ListQuery: lq,
		RoomType:  r.URL.Query().Get("roomType"),
	})
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessWith(w, http.StatusOK, response.Envelope{
		"rooms":      rooms.Rooms,
		"pagination": rooms.Pagination,
	})
}

func (h *RoomHandler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "room")
	if !ok {
		return
	}

	var req dto.UpdateRoomRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	room, err := h.roomUsecase.UpdateRoom(r.Context(), id, &req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "room", room)
}

func (h *RoomHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "room")
	if !ok {
		return
	}

	if err := h.roomUsecase.DeleteRoom(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "message", "Room deleted successfully")
}
