package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID         uuid.UUID `json:"doctor_id" validate:"required"`
	AppointmentDate  time.Time `json:"appointment_date" validate:"required"`
	ConsultationType string    `json:"consultation_type" validate:"required,oneof=video phone in-person"`
	Symptoms         string    `json:"symptoms" validate:"required"`
}

// UpdateStatusRequest drives the explicit lifecycle actions. Only cancel and
// complete are caller-reachable; no-show belongs to the reconciler and
// confirmed to the payment gate.
type UpdateStatusRequest struct {
	Status          string `json:"status" validate:"required,oneof=cancelled completed"`
	Notes           string `json:"notes,omitempty"`
	Diagnosis       string `json:"diagnosis,omitempty"`
	PrescriptionRef string `json:"prescription_ref,omitempty"`
}

// Response DTOs

type AppointmentResponse struct {
	ID               uuid.UUID       `json:"id"`
	PatientID        uuid.UUID       `json:"patient_id"`
	DoctorID         uuid.UUID       `json:"doctor_id"`
	AppointmentDate  time.Time       `json:"appointment_date"`
	DurationMinutes  int             `json:"duration_minutes"`
	ConsultationType string          `json:"consultation_type"`
	Symptoms         string          `json:"symptoms"`
	Fee              decimal.Decimal `json:"fee"`
	Status           string          `json:"status"`
	PaymentStatus    string          `json:"payment_status"`
	PaymentID        *string         `json:"payment_id,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	Diagnosis        string          `json:"diagnosis,omitempty"`
	PrescriptionRef  string          `json:"prescription_ref,omitempty"`
	Doctor           *DoctorResponse `json:"doctor,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type DoctorResponse struct {
	ID              uuid.UUID       `json:"id"`
	FullName        string          `json:"full_name"`
	Specialization  string          `json:"specialization"`
	ConsultationFee decimal.Decimal `json:"consultation_fee"`
}
