package handler

import (
	"encoding/json"
	"net/http"

	"go-teleconsult-booking/internal/delivery/dto"
	"go-teleconsult-booking/internal/delivery/http/middleware"
	"go-teleconsult-booking/internal/usecase"
	"go-teleconsult-booking/pkg/jwt"
	"go-teleconsult-booking/pkg/response"
	"go-teleconsult-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type AppointmentHandler struct {
	bookingUsecase usecase.BookingUsecase
	validator      *validator.CustomValidator
}

func NewAppointmentHandler(bookingUsecase usecase.BookingUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		bookingUsecase: bookingUsecase,
		validator:      validator,
	}
}

// CreateAppointment handles POST /appointments
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	patientID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, response.KindValidation, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.bookingUsecase.CreateAppointment(r.Context(), patientID, &req)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

// GetMyAppointments handles GET /appointments, returning the caller's side of
// the relationship based on their role.
func (h *AppointmentHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}
	role, _ := middleware.GetRoleFromContext(r.Context())

	var (
		appointments *dto.AppointmentListResponse
		err          error
	)
	if role == jwt.RoleDoctor {
		appointments, err = h.bookingUsecase.GetDoctorAppointments(r.Context(), userID)
	} else {
		appointments, err = h.bookingUsecase.GetPatientAppointments(r.Context(), userID)
	}
	if err != nil {
		respondUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

// GetAppointment handles GET /appointments/{id}
func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, response.KindValidation, "Invalid appointment ID", nil)
		return
	}

	appointment, err := h.bookingUsecase.GetAppointment(r.Context(), appointmentID, userID)
	if err != nil {
		respondUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

// UpdateStatus handles PATCH /appointments/{id}/status. Cancel is open to
// both parties; complete is the doctor's action and may carry the clinical
// record. Confirmed and no-show are not reachable here: the payment gate and
// the reconciler own those transitions.
func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}
	role, _ := middleware.GetRoleFromContext(r.Context())

	appointmentID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, response.KindValidation, "Invalid appointment ID", nil)
		return
	}

	var req dto.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, response.KindValidation, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	var appointment *dto.AppointmentResponse
	switch req.Status {
	case "cancelled":
		appointment, err = h.bookingUsecase.CancelAppointment(r.Context(), appointmentID, userID)
	case "completed":
		if role != jwt.RoleDoctor {
			response.Forbidden(w, "Only the doctor may complete an appointment")
			return
		}
		appointment, err = h.bookingUsecase.CompleteAppointment(r.Context(), appointmentID, userID, &req)
	}
	if err != nil {
		respondUsecaseError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", appointment)
}
