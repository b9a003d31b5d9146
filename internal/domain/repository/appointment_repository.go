package repository

import (
	"time"

	"go-teleconsult-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentRepository owns appointment persistence. All status methods use
// conditional updates and report affected rows so callers can detect a lost
// compare-and-swap instead of silently double-transitioning.
type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error)

	// FindActiveByDoctorBetween returns the doctor's non-cancelled appointments
	// with appointment_date in [from, to), ordered chronologically.
	FindActiveByDoctorBetween(db *gorm.DB, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error)

	// TransitionStatus applies from -> to only if the row still holds from.
	// Returns affected rows: 1 = applied, 0 = lost the race.
	TransitionStatus(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error)

	// ConfirmPayment atomically sets payment_id, payment_status=paid and
	// status=confirmed, only while the appointment is still scheduled.
	ConfirmPayment(db *gorm.DB, id uuid.UUID, paymentID string) (int64, error)

	// FailPayment atomically sets payment_status=failed and status=cancelled,
	// only while the appointment is still scheduled.
	FailPayment(db *gorm.DB, id uuid.UUID) (int64, error)

	UpdateClinicalRecord(db *gorm.DB, id uuid.UUID, notes, diagnosis, prescriptionRef string) error

	// ExpirePendingBefore cancels scheduled appointments whose payment is still
	// pending and that were created before cutoff. Returns the affected ids.
	ExpirePendingBefore(db *gorm.DB, cutoff time.Time) ([]uuid.UUID, error)

	// MarkNoShowBefore marks confirmed appointments whose appointment_date is
	// before cutoff as no-show. Returns the affected ids.
	MarkNoShowBefore(db *gorm.DB, cutoff time.Time) ([]uuid.UUID, error)
}
