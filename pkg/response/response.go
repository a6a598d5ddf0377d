package response

import (
	"encoding/json"
	"net/http"

	"clinic-operations/pkg/apperror"

	"github.com/sirupsen/logrus"
)

// Envelope holds the entity keys of a success body next to "success": true.
type Envelope map[string]interface{}

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// Success writes {"success": true, key: data}.
func Success(w http.ResponseWriter, statusCode int, key string, data interface{}) {
	body := Envelope{"success": true}
	if key != "" {
		body[key] = data
	}
	JSON(w, statusCode, body)
}

// SuccessWith writes {"success": true} merged with every key of env.
func SuccessWith(w http.ResponseWriter, statusCode int, env Envelope) {
	body := Envelope{"success": true}
	for k, v := range env {
		body[k] = v
	}
	JSON(w, statusCode, body)
}

func Error(w http.ResponseWriter, statusCode int, message string, details interface{}) {
	JSON(w, statusCode, ErrorResponse{
		Success: false,
		Error:   message,
		Details: details,
	})
}

func ValidationError(w http.ResponseWriter, details interface{}) {
	Error(w, http.StatusBadRequest, "Validation failed", details)
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message, nil)
}

func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	Error(w, http.StatusUnauthorized, message, nil)
}

func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Resource not found"
	}
	Error(w, http.StatusNotFound, message, nil)
}

func InternalServerError(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Internal server error"
	}
	Error(w, http.StatusInternalServerError, message, nil)
}

func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Forbidden"
	}
	Error(w, http.StatusForbidden, message, nil)
}

// StatusFor maps a domain error kind to its HTTP status.
func StatusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// FromError converts err into the failure envelope. Typed domain errors keep
// their message; anything else is logged and reported as a 500.
func FromError(w http.ResponseWriter, err error) {
	if ae, ok := apperror.As(err); ok {
		Error(w, StatusFor(ae.Kind), ae.Message, nil)
		return
	}
	logrus.Errorf("Unhandled error: %+v", err)
	InternalServerError(w, "")
}
