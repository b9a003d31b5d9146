// Package gateway holds the contracts to the external collaborators: the
// payment gateway and the notification dispatcher. Gateway specifics
// (Stripe, Razorpay, ...) live behind PaymentProcessor, the engine never
// branches on a provider.
package gateway

import (
	"context"
	"errors"
	"time"

	"go-teleconsult-booking/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

// ErrGatewayUnavailable is returned once the bounded retry budget is spent.
// The appointment stays pending so a later retry is still possible; the
// processor never guesses success.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable after retries")

// PaymentResult is the gateway's verdict on a payment
type PaymentResult struct {
	Status        entity.PaymentIntentStatus `json:"status"`
	TransactionID string                     `json:"transaction_id"`
}

// PaymentProcessor confirms an already-initiated payment with the external
// gateway. A non-nil error means the gateway could not be reached, not that
// the payment failed; failure is a successful call with Status failed.
type PaymentProcessor interface {
	Confirm(ctx context.Context, paymentID string) (*PaymentResult, error)
}

// RetryingProcessor wraps a PaymentProcessor with bounded retry and
// exponential backoff for transient gateway outages.
type RetryingProcessor struct {
	inner       PaymentProcessor
	log         *logrus.Logger
	maxAttempts int
	backoff     time.Duration
}

func NewRetryingProcessor(inner PaymentProcessor, log *logrus.Logger, maxAttempts int, backoff time.Duration) *RetryingProcessor {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &RetryingProcessor{
		inner:       inner,
		log:         log,
		maxAttempts: maxAttempts,
		backoff:     backoff,
	}
}

func (p *RetryingProcessor) Confirm(ctx context.Context, paymentID string) (*PaymentResult, error) {
	var lastErr error

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		result, err := p.inner.Confirm(ctx, paymentID)
		if err == nil {
			return result, nil
		}
		lastErr = err
		p.log.Warnf("Payment gateway confirm failed (attempt %d/%d) for payment %s: %+v", attempt, p.maxAttempts, paymentID, err)

		if attempt == p.maxAttempts {
			break
		}

		wait := p.backoff * time.Duration(1<<(attempt-1))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	p.log.Errorf("Payment gateway exhausted %d attempts for payment %s: %+v", p.maxAttempts, paymentID, lastErr)
	return nil, ErrGatewayUnavailable
}
