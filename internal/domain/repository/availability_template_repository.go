package repository

import (
	"go-teleconsult-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AvailabilityTemplateRepository interface {
	// FindByDoctorAndDay returns the single template entry for the weekday, or
	// nil when the doctor has none.
	FindByDoctorAndDay(db *gorm.DB, doctorID uuid.UUID, dayOfWeek int) (*entity.AvailabilityTemplate, error)
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.AvailabilityTemplate, error)

	// Upsert inserts or replaces the entry for (doctor_id, day_of_week).
	Upsert(db *gorm.DB, template *entity.AvailabilityTemplate) error
}
