package repository

import (
	"go-teleconsult-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentIntentRepository interface {
	Create(db *gorm.DB, intent *entity.PaymentIntent) error
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.PaymentIntent, error)
	UpdateResult(db *gorm.DB, id uuid.UUID, status entity.PaymentIntentStatus, transactionID string) error
}
