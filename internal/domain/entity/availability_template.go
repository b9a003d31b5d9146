package entity

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityTemplate is one weekly-recurring working window for a doctor.
// At most one row per (doctor_id, day_of_week); start < end when available.
// Times are wall-clock "HH:MM" strings interpreted in UTC.
type AvailabilityTemplate struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_doctor_day" json:"doctor_id"`
	DayOfWeek   int       `gorm:"not null;uniqueIndex:idx_doctor_day" json:"day_of_week"`
	StartTime   string    `gorm:"type:varchar(5);not null" json:"start_time"`
	EndTime     string    `gorm:"type:varchar(5);not null" json:"end_time"`
	IsAvailable bool      `gorm:"not null;default:true" json:"is_available"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (AvailabilityTemplate) TableName() string {
	return "availability_templates"
}
