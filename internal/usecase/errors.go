package usecase

import (
	"errors"
	"fmt"

	"go-teleconsult-booking/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrNotOwned            = errors.New("appointment does not belong to you")

	// Validation failures on booking input
	ErrPastAppointment         = errors.New("appointment date must be in the future")
	ErrSymptomsTooShort        = errors.New("symptoms description is too short")
	ErrInvalidConsultationType = errors.New("invalid consultation type")
	ErrInvalidTemplateWindow   = errors.New("template start time must be before end time")

	// Slot races. ErrSlotUnavailable means the requested time is not in the
	// doctor's current open grid; ErrSlotTaken means another booking won the
	// insert. Both tell the caller to re-fetch availability and retry.
	ErrSlotUnavailable = errors.New("requested slot is not available")
	ErrSlotTaken       = errors.New("slot was just taken by another booking")

	// ErrPaymentUnresolved is a payment result that is neither completed nor
	// failed; the gate refuses to guess.
	ErrPaymentUnresolved = errors.New("payment result is not final")

	ErrNoActiveSession = errors.New("no active video session for this appointment")
	ErrNotCallHost     = errors.New("only the host may perform this call action")
	ErrNotParticipant  = errors.New("not a participant of this appointment")
)

// InvalidTransitionError reports an illegal state-machine move. Never coerced
// to a "closest legal" state; the caller sees exactly what was refused.
type InvalidTransitionError struct {
	From entity.AppointmentStatus
	To   entity.AppointmentStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// StaleBookingError means a payment result landed on a booking that is no
// longer alive (TTL-cancelled or otherwise terminal). The prior status gives
// the refund workflow what it needs; this engine does not issue refunds.
type StaleBookingError struct {
	AppointmentID uuid.UUID
	PriorStatus   entity.AppointmentStatus
}

func (e *StaleBookingError) Error() string {
	return fmt.Sprintf("payment landed on stale booking %s (status %s)", e.AppointmentID, e.PriorStatus)
}

// Admission refusal reasons for the video controller
const (
	AdmissionReasonTooEarly     = "too-early"
	AdmissionReasonTooLate      = "too-late"
	AdmissionReasonNotConfirmed = "not-confirmed"
	AdmissionReasonNotVideo     = "not-video"
)

// AdmissionError is a refused video join/start with the reason the UI needs
// to render an accurate countdown.
type AdmissionError struct {
	Reason string
}

func (e *AdmissionError) Error() string {
	return fmt.Sprintf("video admission refused: %s", e.Reason)
}
