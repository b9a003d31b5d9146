package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-teleconsult-booking/config"
	"go-teleconsult-booking/internal/converter"
	"go-teleconsult-booking/internal/delivery/dto"
	"go-teleconsult-booking/internal/domain/entity"
	"go-teleconsult-booking/internal/domain/repository"
	"go-teleconsult-booking/internal/gateway"
	"go-teleconsult-booking/internal/scheduling"
	"go-teleconsult-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type BookingUsecase interface {
	// CreateAppointment validates the request against freshly computed
	// availability and inserts the provisional booking. The open-grid check is
	// repeated at write time; the partial unique index settles the remaining
	// race, so exactly one of two simultaneous requests for a slot succeeds.
	CreateAppointment(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)

	GetAppointment(ctx context.Context, id, requesterID uuid.UUID) (*dto.AppointmentResponse, error)
	GetPatientAppointments(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error)
	GetDoctorAppointments(ctx context.Context, doctorID uuid.UUID) (*dto.AppointmentListResponse, error)

	// CancelAppointment cancels from scheduled or confirmed; requester must be
	// a party to the appointment.
	CancelAppointment(ctx context.Context, id, requesterID uuid.UUID) (*dto.AppointmentResponse, error)

	// CompleteAppointment is the doctor marking a confirmed consultation done,
	// optionally recording its clinical outcome.
	CompleteAppointment(ctx context.Context, id, doctorID uuid.UUID, req *dto.UpdateStatusRequest) (*dto.AppointmentResponse, error)
}

type bookingUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	templateRepo    repository.AvailabilityTemplateRepository
	doctorRepo      repository.DoctorProfileRepository
	notifier        *service.NotifierService
	cfg             config.BookingConfig
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	templateRepo repository.AvailabilityTemplateRepository,
	doctorRepo repository.DoctorProfileRepository,
	notifier *service.NotifierService,
	cfg config.BookingConfig,
) BookingUsecase {
	return &bookingUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		templateRepo:    templateRepo,
		doctorRepo:      doctorRepo,
		notifier:        notifier,
		cfg:             cfg,
	}
}

func (u *bookingUsecase) CreateAppointment(ctx context.Context, patientID uuid.UUID, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	consultationType := entity.ConsultationType(req.ConsultationType)
	if !entity.ValidConsultationType(consultationType) {
		return nil, ErrInvalidConsultationType
	}

	symptoms := strings.TrimSpace(req.Symptoms)
	if len(symptoms) < u.cfg.MinSymptomsLength {
		return nil, ErrSymptomsTooShort
	}

	appointmentDate := req.AppointmentDate.UTC()
	if !appointmentDate.After(time.Now().UTC()) {
		return nil, ErrPastAppointment
	}

	db := u.db.WithContext(ctx)

	doctor, err := u.doctorRepo.FindByUserID(db, req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	// Re-validate against the current grid, never a stale client slot list.
	open, err := computeOpenSlots(db, u.templateRepo, u.appointmentRepo, req.DoctorID, appointmentDate, u.cfg.SlotMinutes)
	if err != nil {
		return nil, err
	}
	if !scheduling.ContainsStart(open, appointmentDate) {
		return nil, ErrSlotUnavailable
	}

	appointment := &entity.Appointment{
		PatientID:        patientID,
		DoctorID:         req.DoctorID,
		AppointmentDate:  appointmentDate,
		DurationMinutes:  u.cfg.SlotMinutes,
		ConsultationType: consultationType,
		Symptoms:         symptoms,
		Fee:              doctor.ConsultationFee,
		Status:           entity.AppointmentStatusScheduled,
		PaymentStatus:    entity.PaymentStatusPending,
	}

	if err := u.appointmentRepo.Create(db, appointment); err != nil {
		// The open-grid check and this insert race against other bookings;
		// the unique index is the arbiter.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlotTaken
		}
		u.log.Errorf("Failed to insert appointment for doctor %s at %s: %+v", req.DoctorID, appointmentDate, err)
		return nil, err
	}

	u.log.Infof("Appointment created: id=%s, doctor=%s, at=%s", appointment.ID, req.DoctorID, appointmentDate)
	u.notifier.NotifyBoth(appointment.ID, gateway.EventAppointmentScheduled)

	full, err := u.appointmentRepo.FindByID(db, appointment.ID)
	if err != nil || full == nil {
		u.log.Warnf("Failed to reload appointment %s: %+v", appointment.ID, err)
		return converter.AppointmentToResponse(appointment), nil
	}
	return converter.AppointmentToResponse(full), nil
}

func (u *bookingUsecase) GetAppointment(ctx context.Context, id, requesterID uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.findOwned(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

func (u *bookingUsecase) GetPatientAppointments(ctx context.Context, patientID uuid.UUID) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", patientID, err)
		return nil, err
	}
	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *bookingUsecase) GetDoctorAppointments(ctx context.Context, doctorID uuid.UUID) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *bookingUsecase) CancelAppointment(ctx context.Context, id, requesterID uuid.UUID) (*dto.AppointmentResponse, error) {
	db := u.db.WithContext(ctx)

	appointment, err := u.findOwned(ctx, id, requesterID)
	if err != nil {
		return nil, err
	}

	if !entity.CanTransition(appointment.Status, entity.AppointmentStatusCancelled) {
		return nil, &InvalidTransitionError{From: appointment.Status, To: entity.AppointmentStatusCancelled}
	}

	affected, err := u.appointmentRepo.TransitionStatus(db, id, appointment.Status, entity.AppointmentStatusCancelled)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", id, err)
		return nil, err
	}
	if affected == 0 {
		// Lost the compare-and-swap; report against whatever won.
		current, err := u.appointmentRepo.FindByID(db, id)
		if err != nil || current == nil {
			return nil, ErrAppointmentNotFound
		}
		return nil, &InvalidTransitionError{From: current.Status, To: entity.AppointmentStatusCancelled}
	}

	u.log.Infof("Appointment cancelled: id=%s, by=%s", id, requesterID)
	u.notifier.NotifyBoth(id, gateway.EventAppointmentCancelled)

	return u.reload(ctx, id)
}

func (u *bookingUsecase) CompleteAppointment(ctx context.Context, id, doctorID uuid.UUID, req *dto.UpdateStatusRequest) (*dto.AppointmentResponse, error) {
	db := u.db.WithContext(ctx)

	appointment, err := u.appointmentRepo.FindByID(db, id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.DoctorID != doctorID {
		return nil, ErrNotOwned
	}

	if !entity.CanTransition(appointment.Status, entity.AppointmentStatusCompleted) {
		return nil, &InvalidTransitionError{From: appointment.Status, To: entity.AppointmentStatusCompleted}
	}

	affected, err := u.appointmentRepo.TransitionStatus(db, id, appointment.Status, entity.AppointmentStatusCompleted)
	if err != nil {
		u.log.Warnf("Failed to complete appointment %s: %+v", id, err)
		return nil, err
	}
	if affected == 0 {
		current, err := u.appointmentRepo.FindByID(db, id)
		if err != nil || current == nil {
			return nil, ErrAppointmentNotFound
		}
		return nil, &InvalidTransitionError{From: current.Status, To: entity.AppointmentStatusCompleted}
	}

	if req.Notes != "" || req.Diagnosis != "" || req.PrescriptionRef != "" {
		if err := u.appointmentRepo.UpdateClinicalRecord(db, id, req.Notes, req.Diagnosis, req.PrescriptionRef); err != nil {
			u.log.Warnf("Failed to record clinical outcome for appointment %s: %+v", id, err)
			return nil, err
		}
	}

	u.log.Infof("Appointment completed: id=%s, doctor=%s", id, doctorID)
	u.notifier.NotifyBoth(id, gateway.EventAppointmentCompleted)

	return u.reload(ctx, id)
}

func (u *bookingUsecase) findOwned(ctx context.Context, id, requesterID uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.PatientID != requesterID && appointment.DoctorID != requesterID {
		return nil, ErrNotOwned
	}
	return appointment, nil
}

func (u *bookingUsecase) reload(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return converter.AppointmentToResponse(appointment), nil
}
