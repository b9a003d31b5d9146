package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go-teleconsult-booking/config"
	"go-teleconsult-booking/internal/domain/repository"
	"go-teleconsult-booking/internal/gateway"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReconcilerService is the periodic reconciliation sweep over appointment
// state:
//   - a scheduled appointment whose payment never arrived within the booking
//     TTL is cancelled, freeing its slot
//   - a confirmed appointment left untouched past its time plus the grace
//     window is marked no-show
//
// Sweep is public so an external scheduler (cron, k8s job) can drive it; Run
// is the in-process ticker for deployments without one.
type ReconcilerService struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	notifier        *NotifierService
	cfg             config.BookingConfig

	// Graceful shutdown
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

func NewReconcilerService(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	notifier *NotifierService,
	cfg config.BookingConfig,
) *ReconcilerService {
	return &ReconcilerService{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		notifier:        notifier,
		cfg:             cfg,
		stopChan:        make(chan struct{}),
	}
}

// Run drives Sweep on an interval until Stop is called
func (s *ReconcilerService) Run() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.cfg.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SweepInterval)
				if err := s.Sweep(ctx); err != nil {
					s.log.Errorf("Reconciliation sweep failed: %+v", err)
				}
				cancel()
			case <-s.stopChan:
				return
			}
		}
	}()
}

// Stop shuts the ticker loop down. Safe to call multiple times.
func (s *ReconcilerService) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		close(s.stopChan)
		s.wg.Wait()
		s.log.Info("ReconcilerService stopped")
	}
}

// Sweep runs both reconciliation passes once
func (s *ReconcilerService) Sweep(ctx context.Context) error {
	now := time.Now().UTC()
	db := s.db.WithContext(ctx)

	expired, err := s.appointmentRepo.ExpirePendingBefore(db, now.Add(-s.cfg.PendingTTL))
	if err != nil {
		return err
	}
	if len(expired) > 0 {
		s.log.Infof("Reconciler cancelled %d stale pending bookings", len(expired))
	}
	for _, id := range expired {
		s.notifier.NotifyBoth(id, gateway.EventAppointmentCancelled)
	}

	noShows, err := s.appointmentRepo.MarkNoShowBefore(db, now.Add(-s.cfg.NoShowGrace))
	if err != nil {
		return err
	}
	if len(noShows) > 0 {
		s.log.Infof("Reconciler marked %d elapsed appointments as no-show", len(noShows))
	}
	for _, id := range noShows {
		s.notifier.NotifyBoth(id, gateway.EventAppointmentNoShow)
	}

	return nil
}
