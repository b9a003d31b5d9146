package usecase

import (
	"context"
	"time"

	"go-teleconsult-booking/config"
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

type VideoUsecase interface {
	// CanJoin answers whether the participant may enter the call right now,
	// with the refusal reason when not.
	CanJoin(ctx context.Context, appointmentID, participantID uuid.UUID) (*dto.CanJoinResponse, error)

	// StartCall opens the session. Only the doctor hosts; a second start while
	// a session is active returns the existing session (idempotent). Starting
	// after the host ended the call opens a fresh session, so a reconnect
	// inside the admission window works.
	StartCall(ctx context.Context, appointmentID, callerID uuid.UUID) (*dto.VideoSessionResponse, error)

	// JoinCall admits a participant into an active session
	JoinCall(ctx context.Context, appointmentID, participantID uuid.UUID) (*dto.VideoSessionResponse, error)

	// LeaveCall drops a participant; the session stays active until the host
	// ends it or the max-duration TTL elapses.
	LeaveCall(ctx context.Context, appointmentID, participantID uuid.UUID) error

	// EndCall is the host's exclusive action. It records "call ended" as its
	// own fact; marking the consultation completed stays a separate, explicit
	// doctor action.
	EndCall(ctx context.Context, appointmentID, callerID uuid.UUID) (*dto.VideoSessionResponse, error)
}

type videoUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	sessions        *service.VideoSessionStore
	notifier        *service.NotifierService
	cfg             config.VideoConfig
	now             func() time.Time
}

func NewVideoUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	sessions *service.VideoSessionStore,
	notifier *service.NotifierService,
	cfg config.VideoConfig,
) VideoUsecase {
	return &videoUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		sessions:        sessions,
		notifier:        notifier,
		cfg:             cfg,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// admissionReason applies the admission rules and returns the refusal reason,
// or "" when the participant may join: confirmed video appointment, inside
// [appointmentDate-JoinBefore, appointmentDate+JoinAfter] inclusive.
func admissionReason(appointment *entity.Appointment, now time.Time, cfg config.VideoConfig) string {
	if appointment.ConsultationType != entity.ConsultationTypeVideo {
		return AdmissionReasonNotVideo
	}
	if !appointment.IsConfirmed() {
		return AdmissionReasonNotConfirmed
	}
	if now.Before(appointment.AppointmentDate.Add(-cfg.JoinBefore)) {
		return AdmissionReasonTooEarly
	}
	if now.After(appointment.AppointmentDate.Add(cfg.JoinAfter)) {
		return AdmissionReasonTooLate
	}
	return ""
}

func (u *videoUsecase) CanJoin(ctx context.Context, appointmentID, participantID uuid.UUID) (*dto.CanJoinResponse, error) {
	appointment, err := u.findForParticipant(ctx, appointmentID, participantID)
	if err != nil {
		return nil, err
	}

	if reason := admissionReason(appointment, u.now(), u.cfg); reason != "" {
		return &dto.CanJoinResponse{CanJoin: false, Reason: reason}, nil
	}
	return &dto.CanJoinResponse{CanJoin: true}, nil
}

func (u *videoUsecase) StartCall(ctx context.Context, appointmentID, callerID uuid.UUID) (*dto.VideoSessionResponse, error) {
	appointment, err := u.findForParticipant(ctx, appointmentID, callerID)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != callerID {
		return nil, ErrNotCallHost
	}

	if reason := admissionReason(appointment, u.now(), u.cfg); reason != "" {
		return nil, &AdmissionError{Reason: reason}
	}

	session, created, err := u.sessions.Start(ctx, appointmentID, callerID)
	if err != nil {
		u.log.Errorf("Failed to start video session for appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if session == nil {
		return nil, ErrNoActiveSession
	}

	if created {
		u.log.Infof("Video session started: appointment=%s, session=%s", appointmentID, session.ID)
	}
	return converter.VideoSessionToResponse(session), nil
}

func (u *videoUsecase) JoinCall(ctx context.Context, appointmentID, participantID uuid.UUID) (*dto.VideoSessionResponse, error) {
	appointment, err := u.findForParticipant(ctx, appointmentID, participantID)
	if err != nil {
		return nil, err
	}

	if reason := admissionReason(appointment, u.now(), u.cfg); reason != "" {
		return nil, &AdmissionError{Reason: reason}
	}

	session, err := u.sessions.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if session == nil || !session.IsActive() {
		return nil, ErrNoActiveSession
	}

	if err := u.sessions.AddParticipant(ctx, appointmentID, participantID); err != nil {
		u.log.Warnf("Failed to record participant %s in session %s: %+v", participantID, session.ID, err)
		return nil, err
	}
	return converter.VideoSessionToResponse(session), nil
}

func (u *videoUsecase) LeaveCall(ctx context.Context, appointmentID, participantID uuid.UUID) error {
	if _, err := u.findForParticipant(ctx, appointmentID, participantID); err != nil {
		return err
	}

	session, err := u.sessions.Get(ctx, appointmentID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNoActiveSession
	}

	return u.sessions.RemoveParticipant(ctx, appointmentID, participantID)
}

func (u *videoUsecase) EndCall(ctx context.Context, appointmentID, callerID uuid.UUID) (*dto.VideoSessionResponse, error) {
	appointment, err := u.findForParticipant(ctx, appointmentID, callerID)
	if err != nil {
		return nil, err
	}
	if appointment.DoctorID != callerID {
		return nil, ErrNotCallHost
	}

	session, applied, err := u.sessions.End(ctx, appointmentID)
	if err != nil {
		u.log.Errorf("Failed to end video session for appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if session == nil {
		return nil, ErrNoActiveSession
	}

	if applied {
		u.log.Infof("Video session ended: appointment=%s, session=%s", appointmentID, session.ID)
		u.notifier.NotifyBoth(appointmentID, gateway.EventVideoCallEnded)
	}
	return converter.VideoSessionToResponse(session), nil
}

func (u *videoUsecase) findForParticipant(ctx context.Context, appointmentID, participantID uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.PatientID != participantID && appointment.DoctorID != participantID {
		return nil, ErrNotParticipant
	}
	return appointment, nil
}
