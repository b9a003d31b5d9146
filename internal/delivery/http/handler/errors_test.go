package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-teleconsult-booking/internal/domain/entity"
	"go-teleconsult-booking/internal/gateway"
	"go-teleconsult-booking/internal/usecase"
	"go-teleconsult-booking/pkg/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRespondUsecaseErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"appointment not found", usecase.ErrAppointmentNotFound, http.StatusNotFound, response.KindNotFound},
		{"doctor not found", usecase.ErrDoctorNotFound, http.StatusNotFound, response.KindNotFound},
		{"no active session", usecase.ErrNoActiveSession, http.StatusNotFound, response.KindNotFound},
		{"not owned", usecase.ErrNotOwned, http.StatusForbidden, response.KindForbidden},
		{"not call host", usecase.ErrNotCallHost, http.StatusForbidden, response.KindForbidden},
		{"past appointment", usecase.ErrPastAppointment, http.StatusUnprocessableEntity, response.KindValidation},
		{"symptoms too short", usecase.ErrSymptomsTooShort, http.StatusUnprocessableEntity, response.KindValidation},
		{"payment unresolved", usecase.ErrPaymentUnresolved, http.StatusUnprocessableEntity, response.KindValidation},
		{"slot unavailable", usecase.ErrSlotUnavailable, http.StatusConflict, response.KindConflict},
		{"slot taken", usecase.ErrSlotTaken, http.StatusConflict, response.KindConflict},
		{"gateway unavailable", gateway.ErrGatewayUnavailable, http.StatusBadGateway, response.KindPaymentGateway},
		{"unknown error", errors.New("disk on fire"), http.StatusInternalServerError, response.KindInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondUsecaseError(rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)
			body := decodeResponse(t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tc.kind, body.Kind)
		})
	}
}

func TestRespondInvalidTransitionError(t *testing.T) {
	rec := httptest.NewRecorder()
	respondUsecaseError(rec, &usecase.InvalidTransitionError{
		From: entity.AppointmentStatusCompleted,
		To:   entity.AppointmentStatusCancelled,
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, response.KindInvalidTransition, body.Kind)

	detail, ok := body.Error.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "completed", detail["from"])
	assert.Equal(t, "cancelled", detail["to"])
}

func TestRespondStaleBookingError(t *testing.T) {
	id := uuid.New()
	rec := httptest.NewRecorder()
	respondUsecaseError(rec, &usecase.StaleBookingError{
		AppointmentID: id,
		PriorStatus:   entity.AppointmentStatusCancelled,
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, response.KindStaleBooking, body.Kind)

	detail, ok := body.Error.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, id.String(), detail["appointment_id"])
	assert.Equal(t, "cancelled", detail["prior_status"])
}

func TestRespondAdmissionError(t *testing.T) {
	rec := httptest.NewRecorder()
	respondUsecaseError(rec, &usecase.AdmissionError{Reason: usecase.AdmissionReasonTooEarly})

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decodeResponse(t, rec)
	assert.Equal(t, response.KindAdmission, body.Kind)

	detail, ok := body.Error.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "too-early", detail["reason"])
}
