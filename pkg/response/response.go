package response

import (
	"encoding/json"
	"net/http"
)

// Stable machine-readable error kinds. The UI keys retry/refresh behavior off
// these, so they never change even when messages do.
const (
	KindValidation        = "validation"
	KindConflict          = "conflict"
	KindInvalidTransition = "invalid-transition"
	KindStaleBooking      = "stale-booking"
	KindAdmission         = "admission"
	KindPaymentGateway    = "payment-gateway"
	KindNotFound          = "not-found"
	KindForbidden         = "forbidden"
	KindUnauthorized      = "unauthorized"
	KindInternal          = "internal"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Kind    string      `json:"kind,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	JSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func Error(w http.ResponseWriter, statusCode int, kind, message string, err interface{}) {
	JSON(w, statusCode, Response{
		Success: false,
		Message: message,
		Kind:    kind,
		Error:   err,
	})
}

func ValidationError(w http.ResponseWriter, errors interface{}) {
	JSON(w, http.StatusUnprocessableEntity, Response{
		Success: false,
		Message: "Validation failed",
		Kind:    KindValidation,
		Error:   errors,
	})
}

func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	Error(w, http.StatusUnauthorized, KindUnauthorized, message, nil)
}

func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Resource not found"
	}
	Error(w, http.StatusNotFound, KindNotFound, message, nil)
}

func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Forbidden"
	}
	Error(w, http.StatusForbidden, KindForbidden, message, nil)
}

func InternalServerError(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Internal server error"
	}
	Error(w, http.StatusInternalServerError, KindInternal, message, nil)
}
