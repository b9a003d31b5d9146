package repository

import (
	"errors"

	"go-teleconsult-booking/internal/domain/entity"
	domainRepo "go-teleconsult-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type paymentIntentRepository struct{}

func NewPaymentIntentRepository() domainRepo.PaymentIntentRepository {
	return &paymentIntentRepository{}
}

func (r *paymentIntentRepository) Create(db *gorm.DB, intent *entity.PaymentIntent) error {
	return db.Create(intent).Error
}

func (r *paymentIntentRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.PaymentIntent, error) {
	var intent entity.PaymentIntent
	err := db.Where("appointment_id = ?", appointmentID).
		Order("created_at DESC").
		First(&intent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &intent, nil
}

func (r *paymentIntentRepository) UpdateResult(db *gorm.DB, id uuid.UUID, status entity.PaymentIntentStatus, transactionID string) error {
	return db.Model(&entity.PaymentIntent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         status,
			"transaction_id": transactionID,
		}).Error
}
