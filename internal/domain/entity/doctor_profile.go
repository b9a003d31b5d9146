package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DoctorProfile represents doctor-specific profile data. ConsultationFee is the
// doctor's current rate; it is snapshotted onto the appointment at booking time
// and immutable there afterwards.
type DoctorProfile struct {
	UserID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	FullName        string          `gorm:"type:varchar(255);not null" json:"full_name"`
	Specialization  string          `gorm:"type:varchar(100);not null;index" json:"specialization"`
	ConsultationFee decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"consultation_fee"`
	Biography       string          `gorm:"type:text" json:"biography,omitempty"`

	// Relationships
	Templates    []AvailabilityTemplate `gorm:"foreignKey:DoctorID" json:"templates,omitempty"`
	Appointments []Appointment          `gorm:"foreignKey:DoctorID" json:"appointments,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}
