package repository

import (
	"errors"
	"time"

	"go-teleconsult-booking/internal/domain/entity"
	domainRepo "go-teleconsult-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Doctor").Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Doctor").
		Where("patient_id = ?", patientID).
		Order("appointment_date DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Patient").
		Where("doctor_id = ?", doctorID).
		Order("appointment_date DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindActiveByDoctorBetween(db *gorm.DB, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Where("doctor_id = ? AND appointment_date >= ? AND appointment_date < ? AND status != ?",
		doctorID, from, to, entity.AppointmentStatusCancelled).
		Order("appointment_date ASC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// TransitionStatus applies the state change ONLY if the row still holds the
// expected status. 0 affected rows means a concurrent transition won.
func (r *appointmentRepository) TransitionStatus(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) ConfirmPayment(db *gorm.DB, id uuid.UUID, paymentID string) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, entity.AppointmentStatusScheduled).
		Updates(map[string]interface{}{
			"status":         entity.AppointmentStatusConfirmed,
			"payment_status": entity.PaymentStatusPaid,
			"payment_id":     paymentID,
		})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) FailPayment(db *gorm.DB, id uuid.UUID) (int64, error) {
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND status = ?", id, entity.AppointmentStatusScheduled).
		Updates(map[string]interface{}{
			"status":         entity.AppointmentStatusCancelled,
			"payment_status": entity.PaymentStatusFailed,
		})
	return result.RowsAffected, result.Error
}

func (r *appointmentRepository) UpdateClinicalRecord(db *gorm.DB, id uuid.UUID, notes, diagnosis, prescriptionRef string) error {
	return db.Model(&entity.Appointment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"notes":            notes,
			"diagnosis":        diagnosis,
			"prescription_ref": prescriptionRef,
		}).Error
}

// ExpirePendingBefore is the set-based half of the reconciliation sweep: every
// provisional booking older than the TTL cutoff is cancelled in one UPDATE.
// RETURNING gives back the ids so the sweep can notify per appointment.
func (r *appointmentRepository) ExpirePendingBefore(db *gorm.DB, cutoff time.Time) ([]uuid.UUID, error) {
	var expired []entity.Appointment
	result := db.Model(&expired).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Where("status = ? AND payment_status = ? AND created_at < ?",
			entity.AppointmentStatusScheduled, entity.PaymentStatusPending, cutoff).
		Update("status", entity.AppointmentStatusCancelled)
	if result.Error != nil {
		return nil, result.Error
	}
	return appointmentIDs(expired), nil
}

func (r *appointmentRepository) MarkNoShowBefore(db *gorm.DB, cutoff time.Time) ([]uuid.UUID, error) {
	var elapsed []entity.Appointment
	result := db.Model(&elapsed).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "id"}}}).
		Where("status = ? AND appointment_date < ?", entity.AppointmentStatusConfirmed, cutoff).
		Update("status", entity.AppointmentStatusNoShow)
	if result.Error != nil {
		return nil, result.Error
	}
	return appointmentIDs(elapsed), nil
}

func appointmentIDs(appointments []entity.Appointment) []uuid.UUID {
	ids := make([]uuid.UUID, len(appointments))
	for i, a := range appointments {
		ids[i] = a.ID
	}
	return ids
}
