package handler

import (
	"errors"
	"net/http"

	"go-teleconsult-booking/internal/gateway"
	"go-teleconsult-booking/internal/scheduling"
	"go-teleconsult-booking/internal/usecase"
	"go-teleconsult-booking/pkg/response"
)

// respondUsecaseError maps the engine's error taxonomy onto HTTP statuses and
// stable kind strings. Every refused operation surfaces typed; nothing falls
// through silently except as a logged 500.
func respondUsecaseError(w http.ResponseWriter, err error) {
	var transitionErr *usecase.InvalidTransitionError
	var staleErr *usecase.StaleBookingError
	var admissionErr *usecase.AdmissionError

	switch {
	case errors.Is(err, usecase.ErrAppointmentNotFound),
		errors.Is(err, usecase.ErrDoctorNotFound),
		errors.Is(err, usecase.ErrNoActiveSession):
		response.NotFound(w, err.Error())

	case errors.Is(err, usecase.ErrNotOwned),
		errors.Is(err, usecase.ErrNotCallHost),
		errors.Is(err, usecase.ErrNotParticipant):
		response.Forbidden(w, err.Error())

	case errors.Is(err, usecase.ErrPastAppointment),
		errors.Is(err, usecase.ErrSymptomsTooShort),
		errors.Is(err, usecase.ErrInvalidConsultationType),
		errors.Is(err, usecase.ErrInvalidTemplateWindow),
		errors.Is(err, usecase.ErrPaymentUnresolved),
		errors.Is(err, scheduling.ErrInvalidClock):
		response.Error(w, http.StatusUnprocessableEntity, response.KindValidation, err.Error(), nil)

	case errors.Is(err, usecase.ErrSlotUnavailable),
		errors.Is(err, usecase.ErrSlotTaken):
		// The caller must re-fetch availability and retry; the engine never
		// retries a lost slot race on its own.
		response.Error(w, http.StatusConflict, response.KindConflict, err.Error(), nil)

	case errors.As(err, &transitionErr):
		response.Error(w, http.StatusConflict, response.KindInvalidTransition, transitionErr.Error(), map[string]string{
			"from": string(transitionErr.From),
			"to":   string(transitionErr.To),
		})

	case errors.As(err, &staleErr):
		response.Error(w, http.StatusConflict, response.KindStaleBooking, staleErr.Error(), map[string]string{
			"appointment_id": staleErr.AppointmentID.String(),
			"prior_status":   string(staleErr.PriorStatus),
		})

	case errors.As(err, &admissionErr):
		response.Error(w, http.StatusConflict, response.KindAdmission, admissionErr.Error(), map[string]string{
			"reason": admissionErr.Reason,
		})

	case errors.Is(err, gateway.ErrGatewayUnavailable):
		response.Error(w, http.StatusBadGateway, response.KindPaymentGateway, err.Error(), nil)

	default:
		response.InternalServerError(w, "")
	}
}
