package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"clinic-operations/internal/delivery/dto"
	"clinic-operations/pkg/response"
	"clinic-operations/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

var errBadQuery = errors.New("bad query parameter")

// decodeAndValidate reads a JSON body into dst and runs struct validation,
// writing the failure response itself when it returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *validator.CustomValidator, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return false
	}
	if err := v.Validate(dst); err != nil {
		response.ValidationError(w, v.FormatValidationErrors(err))
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid "+label+" ID", nil)
		return uuid.Nil, false
	}
	return id, true
}

func queryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errBadQuery
	}
	return &id, nil
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errBadQuery
	}
	return n, nil
}

// extractListQuery parses limit, offset and clinicId.
func extractListQuery(w http.ResponseWriter, r *http.Request) (dto.ListQuery, bool) {
	var q dto.ListQuery
	var err error
	if q.Limit, err = queryInt(r, "limit"); err != nil {
		response.BadRequest(w, "limit must be a non-negative integer")
		return q, false
	}
	if q.Offset, err = queryInt(r, "offset"); err != nil {
		response.BadRequest(w, "offset must be a non-negative integer")
		return q, false
	}
	if q.ClinicID, err = queryUUID(r, "clinicId"); err != nil {
		response.BadRequest(w, "clinicId must be a UUID")
		return q, false
	}
	return q, true
}

// optionalQueryUUID parses an optional uuid filter, writing a 400 on failure.
func optionalQueryUUID(w http.ResponseWriter, r *http.Request, name string) (*uuid.UUID, bool) {
	id, err := queryUUID(r, name)
	if err != nil {
		response.BadRequest(w, name+" must be a UUID")
		return nil, false
	}
	return id, true
}
