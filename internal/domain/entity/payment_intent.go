package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentIntentStatus mirrors the gateway-side state of a payment attempt
type PaymentIntentStatus string

const (
	PaymentIntentStatusCreated    PaymentIntentStatus = "created"
	PaymentIntentStatusProcessing PaymentIntentStatus = "processing"
	PaymentIntentStatusCompleted  PaymentIntentStatus = "completed"
	PaymentIntentStatusFailed     PaymentIntentStatus = "failed"
)

// PaymentIntent is the engine-side record of a gateway payment. One-to-one with
// an appointment while it is pending payment; kept afterwards as the audit
// trail the refund workflow reads from.
type PaymentIntent struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AppointmentID uuid.UUID           `gorm:"type:uuid;not null;index" json:"appointment_id"`
	Amount        decimal.Decimal     `gorm:"type:decimal(10,2);not null" json:"amount"`
	Currency      string              `gorm:"type:char(3);not null;default:'USD'" json:"currency"`
	Gateway       string              `gorm:"type:varchar(50);not null" json:"gateway"`
	Status        PaymentIntentStatus `gorm:"type:varchar(20);not null;default:'created'" json:"status"`
	TransactionID string              `gorm:"type:varchar(100)" json:"transaction_id,omitempty"`
	CreatedAt     time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointment Appointment `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
}

func (PaymentIntent) TableName() string {
	return "payment_intents"
}

// IsCompleted checks if the gateway reported success
func (p *PaymentIntent) IsCompleted() bool {
	return p.Status == PaymentIntentStatusCompleted
}

// IsFailed checks if the gateway reported failure
func (p *PaymentIntent) IsFailed() bool {
	return p.Status == PaymentIntentStatusFailed
}
