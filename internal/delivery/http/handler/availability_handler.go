package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"go-teleconsult-booking/internal/delivery/dto"
	"go-teleconsult-booking/internal/delivery/http/middleware"
	"go-teleconsult-booking/internal/usecase"
	"go-teleconsult-booking/pkg/response"
	"go-teleconsult-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AvailabilityHandler struct {
	availabilityUsecase usecase.AvailabilityUsecase
	validator           *validator.CustomValidator
}

func NewAvailabilityHandler(availabilityUsecase usecase.AvailabilityUsecase, validator *validator.CustomValidator) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityUsecase: availabilityUsecase,
		validator:           validator,
	}
}

// GetAvailability handles GET /availability?doctor_id=...&date=YYYY-MM-DD
func (h *AvailabilityHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(r.URL.Query().Get("doctor_id"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, response.KindValidation, "Invalid doctor_id", nil)
		return
	}

	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, response.KindValidation, "Invalid date, use YYYY-MM-DD", nil)
		return
	}

	slots, err := h.availabilityUsecase.ComputeAvailableSlots(r.Context(), doctorID, date)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Availability retrieved successfully", slots)
}

// GetTemplate handles GET /doctors/{doctorId}/availability
func (h *AvailabilityHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	doctorID, err := uuid.Parse(mux.Vars(r)["doctorId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, response.KindValidation, "Invalid doctor ID", nil)
		return
	}

	template, err := h.availabilityUsecase.GetTemplate(r.Context(), doctorID)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Availability template retrieved successfully", template)
}

// PutTemplate handles PUT /doctors/me/availability, the doctor replacing their
// own weekly template entries.
func (h *AvailabilityHandler) PutTemplate(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.PutTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, response.KindValidation, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	template, err := h.availabilityUsecase.PutTemplate(r.Context(), doctorID, &req)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Availability template updated successfully", template)
}
