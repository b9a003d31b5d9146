package usecase

import (
	"context"
	"time"

	"go-teleconsult-booking/config"
	"go-teleconsult-booking/internal/converter"
	"go-teleconsult-booking/internal/delivery/dto"
	"go-teleconsult-booking/internal/domain/entity"
	"go-teleconsult-booking/internal/domain/repository"
	"go-teleconsult-booking/internal/scheduling"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AvailabilityUsecase interface {
	// ComputeAvailableSlots derives the open slots for a doctor on a date from
	// the weekly template and the non-cancelled appointments of that day.
	// A doctor with no template entry for the weekday gets an empty list, not
	// an error. Past dates are not filtered here; rejecting past bookings is
	// the booking manager's job.
	ComputeAvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) (*dto.SlotListResponse, error)

	GetTemplate(ctx context.Context, doctorID uuid.UUID) (*dto.TemplateListResponse, error)
	PutTemplate(ctx context.Context, doctorID uuid.UUID, req *dto.PutTemplateRequest) (*dto.TemplateListResponse, error)
}

type availabilityUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	templateRepo    repository.AvailabilityTemplateRepository
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorProfileRepository
	cfg             config.BookingConfig
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	templateRepo repository.AvailabilityTemplateRepository,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorProfileRepository,
	cfg config.BookingConfig,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:              db,
		log:             log,
		templateRepo:    templateRepo,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		cfg:             cfg,
	}
}

func (u *availabilityUsecase) ComputeAvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) (*dto.SlotListResponse, error) {
	slots, err := computeOpenSlots(u.db.WithContext(ctx), u.templateRepo, u.appointmentRepo, doctorID, date, u.cfg.SlotMinutes)
	if err != nil {
		u.log.Warnf("Failed to compute availability for doctor %s on %s: %+v", doctorID, date.Format("2006-01-02"), err)
		return nil, err
	}
	return converter.SlotsToResponse(doctorID, date, slots), nil
}

func (u *availabilityUsecase) GetTemplate(ctx context.Context, doctorID uuid.UUID) (*dto.TemplateListResponse, error) {
	templates, err := u.templateRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to load template for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	return converter.TemplatesToResponse(templates), nil
}

func (u *availabilityUsecase) PutTemplate(ctx context.Context, doctorID uuid.UUID, req *dto.PutTemplateRequest) (*dto.TemplateListResponse, error) {
	doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	for _, entry := range req.Entries {
		startMin, err := scheduling.ParseClock(entry.StartTime)
		if err != nil {
			return nil, err
		}
		endMin, err := scheduling.ParseClock(entry.EndTime)
		if err != nil {
			return nil, err
		}
		if entry.IsAvailable && startMin >= endMin {
			return nil, ErrInvalidTemplateWindow
		}

		template := &entity.AvailabilityTemplate{
			DoctorID:    doctorID,
			DayOfWeek:   entry.DayOfWeek,
			StartTime:   entry.StartTime,
			EndTime:     entry.EndTime,
			IsAvailable: entry.IsAvailable,
		}
		if err := u.templateRepo.Upsert(u.db.WithContext(ctx), template); err != nil {
			u.log.Warnf("Failed to upsert template entry for doctor %s day %d: %+v", doctorID, entry.DayOfWeek, err)
			return nil, err
		}
	}

	return u.GetTemplate(ctx, doctorID)
}

// computeOpenSlots is the availability calculation shared by the availability
// and booking usecases. Pure over its two repo reads: template entry for the
// weekday, booked start times for the day.
func computeOpenSlots(
	db *gorm.DB,
	templateRepo repository.AvailabilityTemplateRepository,
	appointmentRepo repository.AppointmentRepository,
	doctorID uuid.UUID,
	date time.Time,
	slotMinutes int,
) ([]scheduling.Slot, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	template, err := templateRepo.FindByDoctorAndDay(db, doctorID, int(day.Weekday()))
	if err != nil {
		return nil, err
	}
	if template == nil || !template.IsAvailable {
		return nil, nil
	}

	grid, err := scheduling.BuildSlotGrid(day, template.StartTime, template.EndTime, slotMinutes)
	if err != nil {
		return nil, err
	}

	appointments, err := appointmentRepo.FindActiveByDoctorBetween(db, doctorID, day, day.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}

	booked := make([]time.Time, len(appointments))
	for i, appointment := range appointments {
		booked[i] = appointment.AppointmentDate
	}

	return scheduling.FilterBooked(grid, booked), nil
}
