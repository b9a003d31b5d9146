package usecase

import (
	"context"

	"go-teleconsult-booking/internal/converter"
	"go-teleconsult-booking/internal/delivery/dto"
	"go-teleconsult-booking/internal/domain/entity"
	"go-teleconsult-booking/internal/domain/repository"
	"go-teleconsult-booking/internal/gateway"
	"go-teleconsult-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PaymentUsecase interface {
	// ConfirmPayment bridges the booking to its payment outcome. The gateway
	// call goes through the bounded-retry processor; on exhaustion the
	// appointment stays scheduled/pending so a later retry remains possible.
	ConfirmPayment(ctx context.Context, appointmentID uuid.UUID, req *dto.ConfirmPaymentRequest) (*dto.AppointmentResponse, error)
}

type paymentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	intentRepo      repository.PaymentIntentRepository
	processor       gateway.PaymentProcessor
	notifier        *service.NotifierService
}

func NewPaymentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	intentRepo repository.PaymentIntentRepository,
	processor gateway.PaymentProcessor,
	notifier *service.NotifierService,
) PaymentUsecase {
	return &paymentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		intentRepo:      intentRepo,
		processor:       processor,
		notifier:        notifier,
	}
}

func (u *paymentUsecase) ConfirmPayment(ctx context.Context, appointmentID uuid.UUID, req *dto.ConfirmPaymentRequest) (*dto.AppointmentResponse, error) {
	db := u.db.WithContext(ctx)

	appointment, err := u.appointmentRepo.FindByID(db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	// Re-delivered confirmation for an already confirmed booking is a no-op.
	if appointment.IsConfirmed() {
		return converter.AppointmentToResponse(appointment), nil
	}
	if !appointment.IsScheduled() {
		return nil, &StaleBookingError{AppointmentID: appointmentID, PriorStatus: appointment.Status}
	}

	// The intent is written before the gateway call so the audit trail shows
	// the attempt even when the gateway never answers. An open intent from a
	// previous unresolved attempt is reused instead of piling up rows.
	intent, err := u.intentRepo.FindByAppointmentID(db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to look up payment intent for appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if intent == nil || intent.IsCompleted() || intent.IsFailed() {
		intent = &entity.PaymentIntent{
			AppointmentID: appointmentID,
			Amount:        appointment.Fee,
			Currency:      "USD",
			Gateway:       req.Gateway,
			Status:        entity.PaymentIntentStatusCreated,
		}
		if err := u.intentRepo.Create(db, intent); err != nil {
			u.log.Warnf("Failed to record payment intent for appointment %s: %+v", appointmentID, err)
			return nil, err
		}
	}

	result, err := u.processor.Confirm(ctx, req.PaymentID)
	if err != nil {
		// Bounded retry already happened inside the processor. Nothing was
		// mutated; the booking keeps waiting and the open intent is reused
		// on the next attempt.
		u.log.Warnf("Payment confirmation unavailable for appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	if err := u.intentRepo.UpdateResult(db, intent.ID, result.Status, result.TransactionID); err != nil {
		u.log.Warnf("Failed to record payment result for appointment %s: %+v", appointmentID, err)
		return nil, err
	}

	switch result.Status {
	case entity.PaymentIntentStatusCompleted:
		return u.applyConfirmed(ctx, appointmentID, req.PaymentID)
	case entity.PaymentIntentStatusFailed:
		return u.applyFailed(ctx, appointmentID)
	default:
		return nil, ErrPaymentUnresolved
	}
}

func (u *paymentUsecase) applyConfirmed(ctx context.Context, appointmentID uuid.UUID, paymentID string) (*dto.AppointmentResponse, error) {
	db := u.db.WithContext(ctx)

	affected, err := u.appointmentRepo.ConfirmPayment(db, appointmentID, paymentID)
	if err != nil {
		u.log.Errorf("Failed to confirm appointment %s after successful payment: %+v", appointmentID, err)
		return nil, err
	}
	if affected == 0 {
		// The booking died between the status read and this write: TTL sweep,
		// explicit cancel, or the slot was re-let. The payment must not be
		// confirmed into orphaned state.
		current, err := u.appointmentRepo.FindByID(db, appointmentID)
		if err != nil || current == nil {
			return nil, ErrAppointmentNotFound
		}
		if current.IsConfirmed() {
			return converter.AppointmentToResponse(current), nil
		}
		return nil, &StaleBookingError{AppointmentID: appointmentID, PriorStatus: current.Status}
	}

	u.log.Infof("Payment confirmed for appointment %s, payment=%s", appointmentID, paymentID)
	u.notifier.NotifyBoth(appointmentID, gateway.EventAppointmentConfirmed)

	return u.reload(ctx, appointmentID)
}

func (u *paymentUsecase) applyFailed(ctx context.Context, appointmentID uuid.UUID) (*dto.AppointmentResponse, error) {
	db := u.db.WithContext(ctx)

	affected, err := u.appointmentRepo.FailPayment(db, appointmentID)
	if err != nil {
		u.log.Errorf("Failed to cancel appointment %s after failed payment: %+v", appointmentID, err)
		return nil, err
	}
	if affected == 0 {
		u.log.Warnf("Appointment %s already transitioned before payment failure landed", appointmentID)
	} else {
		u.log.Infof("Payment failed, appointment cancelled: id=%s", appointmentID)
		u.notifier.Notify(appointmentID, gateway.EventPaymentFailed, gateway.RolePatient)
		u.notifier.NotifyBoth(appointmentID, gateway.EventAppointmentCancelled)
	}

	return u.reload(ctx, appointmentID)
}

func (u *paymentUsecase) reload(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appointment), nil
}
