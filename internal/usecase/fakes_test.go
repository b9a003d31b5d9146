package usecase

import (
	"context"
	"sync"
	"time"

	"go-teleconsult-booking/internal/domain/entity"
	"go-teleconsult-booking/internal/gateway"
	"go-teleconsult-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// The repository fakes hold appointments in memory and ignore the *gorm.DB
// handle; the conditional-update methods reproduce the affected-rows contract
// so the compare-and-swap paths are exercised for real.

func newTestDB() *gorm.DB {
	db := &gorm.DB{Config: &gorm.Config{}}
	db.Statement = &gorm.Statement{DB: db}
	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*entity.Appointment
	createErr    error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: map[uuid.UUID]*entity.Appointment{}}
}

func (r *fakeAppointmentRepo) add(a *entity.Appointment) *entity.Appointment {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.appointments[a.ID] = a
	return a
}

func (r *fakeAppointmentRepo) Create(db *gorm.DB, appointment *entity.Appointment) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.add(appointment)
	return nil
}

func (r *fakeAppointmentRepo) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	a, ok := r.appointments[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAppointmentRepo) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range r.appointments {
		if a.PatientID == patientID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range r.appointments {
		if a.DoctorID == doctorID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) FindActiveByDoctorBetween(db *gorm.DB, doctorID uuid.UUID, from, to time.Time) ([]entity.Appointment, error) {
	var out []entity.Appointment
	for _, a := range r.appointments {
		if a.DoctorID != doctorID || a.Status == entity.AppointmentStatusCancelled {
			continue
		}
		if a.AppointmentDate.Before(from) || !a.AppointmentDate.Before(to) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) TransitionStatus(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	a, ok := r.appointments[id]
	if !ok || a.Status != from {
		return 0, nil
	}
	a.Status = to
	return 1, nil
}

func (r *fakeAppointmentRepo) ConfirmPayment(db *gorm.DB, id uuid.UUID, paymentID string) (int64, error) {
	a, ok := r.appointments[id]
	if !ok || a.Status != entity.AppointmentStatusScheduled {
		return 0, nil
	}
	a.Status = entity.AppointmentStatusConfirmed
	a.PaymentStatus = entity.PaymentStatusPaid
	a.PaymentID = &paymentID
	return 1, nil
}

func (r *fakeAppointmentRepo) FailPayment(db *gorm.DB, id uuid.UUID) (int64, error) {
	a, ok := r.appointments[id]
	if !ok || a.Status != entity.AppointmentStatusScheduled {
		return 0, nil
	}
	a.Status = entity.AppointmentStatusCancelled
	a.PaymentStatus = entity.PaymentStatusFailed
	return 1, nil
}

func (r *fakeAppointmentRepo) UpdateClinicalRecord(db *gorm.DB, id uuid.UUID, notes, diagnosis, prescriptionRef string) error {
	a, ok := r.appointments[id]
	if !ok {
		return nil
	}
	a.Notes = notes
	a.Diagnosis = diagnosis
	a.PrescriptionRef = prescriptionRef
	return nil
}

func (r *fakeAppointmentRepo) ExpirePendingBefore(db *gorm.DB, cutoff time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, a := range r.appointments {
		if a.Status == entity.AppointmentStatusScheduled &&
			a.PaymentStatus == entity.PaymentStatusPending &&
			a.CreatedAt.Before(cutoff) {
			a.Status = entity.AppointmentStatusCancelled
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (r *fakeAppointmentRepo) MarkNoShowBefore(db *gorm.DB, cutoff time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id, a := range r.appointments {
		if a.Status == entity.AppointmentStatusConfirmed && a.AppointmentDate.Before(cutoff) {
			a.Status = entity.AppointmentStatusNoShow
			ids = append(ids, id)
		}
	}
	return ids, nil
}

type fakeTemplateRepo struct {
	templates map[uuid.UUID]map[int]*entity.AvailabilityTemplate
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: map[uuid.UUID]map[int]*entity.AvailabilityTemplate{}}
}

func (r *fakeTemplateRepo) set(doctorID uuid.UUID, dayOfWeek int, start, end string, available bool) {
	if r.templates[doctorID] == nil {
		r.templates[doctorID] = map[int]*entity.AvailabilityTemplate{}
	}
	r.templates[doctorID][dayOfWeek] = &entity.AvailabilityTemplate{
		DoctorID:    doctorID,
		DayOfWeek:   dayOfWeek,
		StartTime:   start,
		EndTime:     end,
		IsAvailable: available,
	}
}

func (r *fakeTemplateRepo) FindByDoctorAndDay(db *gorm.DB, doctorID uuid.UUID, dayOfWeek int) (*entity.AvailabilityTemplate, error) {
	t, ok := r.templates[doctorID][dayOfWeek]
	if !ok {
		return nil, nil
	}
	return t, nil
}

func (r *fakeTemplateRepo) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.AvailabilityTemplate, error) {
	var out []entity.AvailabilityTemplate
	for _, t := range r.templates[doctorID] {
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTemplateRepo) Upsert(db *gorm.DB, template *entity.AvailabilityTemplate) error {
	r.set(template.DoctorID, template.DayOfWeek, template.StartTime, template.EndTime, template.IsAvailable)
	return nil
}

type fakeDoctorRepo struct {
	doctors map[uuid.UUID]*entity.DoctorProfile
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: map[uuid.UUID]*entity.DoctorProfile{}}
}

func (r *fakeDoctorRepo) add(d *entity.DoctorProfile) {
	r.doctors[d.UserID] = d
}

func (r *fakeDoctorRepo) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	d, ok := r.doctors[userID]
	if !ok {
		return nil, nil
	}
	return d, nil
}

type fakeIntentRepo struct {
	intents []*entity.PaymentIntent
}

func (r *fakeIntentRepo) Create(db *gorm.DB, intent *entity.PaymentIntent) error {
	if intent.ID == uuid.Nil {
		intent.ID = uuid.New()
	}
	r.intents = append(r.intents, intent)
	return nil
}

func (r *fakeIntentRepo) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.PaymentIntent, error) {
	for i := len(r.intents) - 1; i >= 0; i-- {
		if r.intents[i].AppointmentID == appointmentID {
			return r.intents[i], nil
		}
	}
	return nil, nil
}

func (r *fakeIntentRepo) UpdateResult(db *gorm.DB, id uuid.UUID, status entity.PaymentIntentStatus, transactionID string) error {
	for _, i := range r.intents {
		if i.ID == id {
			i.Status = status
			i.TransactionID = transactionID
		}
	}
	return nil
}

// captureSink records every emitted notification event. The notifier emits on
// background goroutines, so reads go through snapshot, which drains in-flight
// emits first.
type captureSink struct {
	mu     sync.Mutex
	drain  func()
	events []gateway.Event
}

func (s *captureSink) Emit(ctx context.Context, event gateway.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *captureSink) snapshot() []gateway.Event {
	if s.drain != nil {
		s.drain()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]gateway.Event(nil), s.events...)
}

func (s *captureSink) kinds() []string {
	var out []string
	for _, e := range s.snapshot() {
		out = append(out, e.Kind)
	}
	return out
}

func newTestNotifier() (*service.NotifierService, *captureSink) {
	sink := &captureSink{}
	notifier := service.NewNotifierService(sink, newTestLogger())
	sink.drain = notifier.Drain
	return notifier, sink
}

// fakeProcessor returns the scripted result or error on every Confirm call.
type fakeProcessor struct {
	result *gateway.PaymentResult
	err    error
	calls  int
}

func (p *fakeProcessor) Confirm(ctx context.Context, paymentID string) (*gateway.PaymentResult, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}
