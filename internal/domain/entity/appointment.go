package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentStatus is the canonical lifecycle status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no-show"
)

// PaymentStatus tracks the payment dimension separately from the lifecycle
// status. A cancelled appointment may still be paid while a refund is pending.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// ConsultationType is how the consultation is delivered
type ConsultationType string

const (
	ConsultationTypeVideo    ConsultationType = "video"
	ConsultationTypePhone    ConsultationType = "phone"
	ConsultationTypeInPerson ConsultationType = "in-person"
)

// ValidConsultationType reports whether t is one of the enumerated types
func ValidConsultationType(t ConsultationType) bool {
	switch t {
	case ConsultationTypeVideo, ConsultationTypePhone, ConsultationTypeInPerson:
		return true
	}
	return false
}

// allowedTransitions is the appointment state machine. Statuses absent from the
// map are terminal: no transition out of them is ever legal.
var allowedTransitions = map[AppointmentStatus]map[AppointmentStatus]bool{
	AppointmentStatusScheduled: {
		AppointmentStatusConfirmed: true,
		AppointmentStatusCancelled: true,
	},
	AppointmentStatusConfirmed: {
		AppointmentStatusCompleted: true,
		AppointmentStatusCancelled: true,
		AppointmentStatusNoShow:    true,
	},
}

// CanTransition reports whether from -> to is a legal status change
func CanTransition(from, to AppointmentStatus) bool {
	return allowedTransitions[from][to]
}

// IsTerminal reports whether the status admits no further transitions
func IsTerminal(status AppointmentStatus) bool {
	return len(allowedTransitions[status]) == 0
}

// Appointment is the central entity of the scheduling engine. Exactly one
// appointment may occupy a (doctor_id, appointment_date) pair in any status
// other than cancelled; the partial unique index in the schema enforces it.
// Appointments are never deleted, cancellation is a status write.
type Appointment struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID        uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID         uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	AppointmentDate  time.Time         `gorm:"not null;index" json:"appointment_date"`
	DurationMinutes  int               `gorm:"not null;default:30" json:"duration_minutes"`
	ConsultationType ConsultationType  `gorm:"type:varchar(20);not null" json:"consultation_type"`
	Symptoms         string            `gorm:"type:text;not null" json:"symptoms"`
	Fee              decimal.Decimal   `gorm:"type:decimal(10,2);not null" json:"fee"`
	Status           AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index" json:"status"`
	PaymentStatus    PaymentStatus     `gorm:"type:varchar(20);not null;default:'pending';index" json:"payment_status"`
	PaymentID        *string           `gorm:"type:varchar(100)" json:"payment_id,omitempty"`
	Notes            string            `gorm:"type:text" json:"notes,omitempty"`
	Diagnosis        string            `gorm:"type:text" json:"diagnosis,omitempty"`
	PrescriptionRef  string            `gorm:"type:varchar(100)" json:"prescription_ref,omitempty"`
	CreatedAt        time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient PatientProfile `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  DoctorProfile  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsScheduled checks if the appointment is awaiting payment confirmation
func (a *Appointment) IsScheduled() bool {
	return a.Status == AppointmentStatusScheduled
}

// IsConfirmed checks if the appointment is paid and confirmed
func (a *Appointment) IsConfirmed() bool {
	return a.Status == AppointmentStatusConfirmed
}

// IsCancelled checks if the appointment is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// IsTerminal checks if no further lifecycle transition is possible
func (a *Appointment) IsTerminal() bool {
	return IsTerminal(a.Status)
}

// EndsAt returns the instant the consultation window closes
func (a *Appointment) EndsAt() time.Time {
	return a.AppointmentDate.Add(time.Duration(a.DurationMinutes) * time.Minute)
}
