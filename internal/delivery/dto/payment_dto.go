package dto

// ConfirmPaymentRequest carries the gateway payment reference the engine
// confirms with the external processor.
type ConfirmPaymentRequest struct {
	PaymentID string `json:"payment_id" validate:"required"`
	Gateway   string `json:"gateway" validate:"required"`
}
