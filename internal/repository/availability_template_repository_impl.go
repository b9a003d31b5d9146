package repository

import (
	"errors"

	"go-teleconsult-booking/internal/domain/entity"
	domainRepo "go-teleconsult-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type availabilityTemplateRepository struct{}

func NewAvailabilityTemplateRepository() domainRepo.AvailabilityTemplateRepository {
	return &availabilityTemplateRepository{}
}

func (r *availabilityTemplateRepository) FindByDoctorAndDay(db *gorm.DB, doctorID uuid.UUID, dayOfWeek int) (*entity.AvailabilityTemplate, error) {
	var template entity.AvailabilityTemplate
	err := db.Where("doctor_id = ? AND day_of_week = ?", doctorID, dayOfWeek).First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

func (r *availabilityTemplateRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.AvailabilityTemplate, error) {
	var templates []entity.AvailabilityTemplate
	err := db.Where("doctor_id = ?", doctorID).
		Order("day_of_week ASC").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// Upsert keeps the one-row-per-weekday invariant by updating on conflict with
// the (doctor_id, day_of_week) unique index.
func (r *availabilityTemplateRepository) Upsert(db *gorm.DB, template *entity.AvailabilityTemplate) error {
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "doctor_id"}, {Name: "day_of_week"}},
		DoUpdates: clause.AssignmentColumns([]string{"start_time", "end_time", "is_available", "updated_at"}),
	}).Create(template).Error
}
