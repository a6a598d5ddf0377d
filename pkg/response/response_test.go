package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinic-operations/pkg/apperror"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, http.StatusCreated, "bed", map[string]string{"status": "AVAILABLE"})

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decode(t, rec)
	if body["success"] != true {
		t.Errorf("success = %v", body["success"])
	}
	bed, ok := body["bed"].(map[string]interface{})
	if !ok || bed["status"] != "AVAILABLE" {
		t.Errorf("bed = %v", body["bed"])
	}
}

func TestSuccessWithMergesKeys(t *testing.T) {
	rec := httptest.NewRecorder()
	SuccessWith(rec, http.StatusOK, Envelope{"transaction": "t", "invoice": "i"})
	body := decode(t, rec)
	if body["transaction"] != "t" || body["invoice"] != "i" || body["success"] != true {
		t.Errorf("body = %v", body)
	}
}

func TestFromError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", apperror.Validation("amount must be positive"), http.StatusBadRequest, "amount must be positive"},
		{"not found", apperror.NotFound("bed not found"), http.StatusNotFound, "bed not found"},
		{"conflict wrapped", fmt.Errorf("payment: %w", apperror.Conflict("exceeds remaining")), http.StatusConflict, "exceeds remaining"},
		{"unauthorized", apperror.Unauthorized("token required"), http.StatusUnauthorized, "token required"},
		{"forbidden", apperror.Forbidden("clinic out of scope"), http.StatusForbidden, "clinic out of scope"},
		{"unknown", errors.New("db down"), http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			FromError(rec, tt.err)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := decode(t, rec)
			if body["success"] != false {
				t.Errorf("success = %v", body["success"])
			}
			if body["error"] != tt.wantMsg {
				t.Errorf("error = %v, want %q", body["error"], tt.wantMsg)
			}
		})
	}
}
